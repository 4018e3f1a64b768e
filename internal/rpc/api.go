package rpc

import "context"

// AttachOptions declares the UI capabilities requested at attach.
type AttachOptions struct {
	RGB          bool
	ExtLinegrid  bool
	ExtMultigrid bool
}

// DefaultAttachOptions requests true-color output and per-window grids.
func DefaultAttachOptions() AttachOptions {
	return AttachOptions{RGB: true, ExtLinegrid: true, ExtMultigrid: true}
}

// AttachUI attaches this client as a UI of the given size. The engine
// starts sending redraw notifications only after a successful response.
func (s *Session) AttachUI(ctx context.Context, cols, rows int, opts AttachOptions) error {
	m := map[string]any{
		"rgb":           opts.RGB,
		"ext_linegrid":  opts.ExtLinegrid,
		"ext_multigrid": opts.ExtMultigrid,
	}
	_, err := s.Call(ctx, "nvim_ui_attach", cols, rows, m)
	return err
}

// DetachUI detaches this client from the engine.
func (s *Session) DetachUI(ctx context.Context) error {
	_, err := s.Call(ctx, "nvim_ui_detach")
	return err
}

// TryResize asks the engine to adopt a new outer grid size.
func (s *Session) TryResize(ctx context.Context, cols, rows int) error {
	_, err := s.Call(ctx, "nvim_ui_try_resize", cols, rows)
	return err
}

// Input forwards keyboard input in the engine's key notation. Sent as a
// notification so the input path never blocks on the engine.
func (s *Session) Input(keys string) error {
	return s.Notify("nvim_input", keys)
}

// InputMouse forwards one mouse event. Row and col are grid cells; grid is
// the target grid id, or 0 when the engine positions globally.
func (s *Session) InputMouse(button, action, modifier string, grid, row, col int) error {
	return s.Notify("nvim_input_mouse", button, action, modifier, grid, row, col)
}

// Paste delivers pasted text as one block, bypassing key mappings.
func (s *Session) Paste(data string) error {
	return s.Notify("nvim_paste", data, true, -1)
}

// SetFocus reports focus gain or loss of the client window.
func (s *Session) SetFocus(focused bool) error {
	return s.Notify("nvim_ui_set_focus", focused)
}
