package app

import (
	"context"
	"time"

	"github.com/dshills/slipstream/internal/logger"
	"github.com/dshills/slipstream/internal/render/surface"
)

// eventLoop is the main loop: engine updates and animation frames on
// one side, surface input on the other. It returns when shutdown is
// requested, the session ends, or a frame cannot be presented.
func (app *Application) eventLoop() error {
	fps := app.cfg.Int("render.fps")
	if fps <= 0 {
		fps = 60
	}
	tick := time.Second / time.Duration(fps)
	frame := time.NewTicker(tick)
	defer frame.Stop()

	for {
		select {
		case <-app.done:
			return nil

		case <-app.session.Done():
			return app.sessionEnd()

		case <-app.store.Updates():
			if err := app.renderFrame(tick); err != nil {
				return err
			}

		case <-frame.C:
			// Animations and the blink cycle need frames between engine
			// updates; an idle screen does not.
			now := time.Now()
			if app.anim.Active(now) || app.anim.Blinking(app.store.Latest()) {
				if err := app.renderFrame(tick); err != nil {
					return err
				}
			}

		case ev := <-app.surface.Events():
			app.handleSurfaceEvent(ev)
		}
	}
}

// renderFrame composes and presents one frame from the latest
// snapshot.
func (app *Application) renderFrame(budget time.Duration) error {
	start := time.Now()
	snap := app.store.Latest()
	app.anim.Observe(snap, start)
	err := app.renderer.Frame(snap, app.anim, start)
	app.metrics.RecordFrame(time.Since(start), budget)
	return err
}

// sessionEnd classifies why the session ended. An embedded engine that
// exited cleanly is the user quitting, not a failure.
func (app *Application) sessionEnd() error {
	err := app.session.Err()
	if err == nil {
		return nil
	}
	if app.engine != nil {
		select {
		case <-app.engine.Exited():
			if app.engine.ExitErr() == nil {
				logger.Info("engine exited")
				return nil
			}
			logger.Error("engine exited abnormally", "err", app.engine.ExitErr())
		case <-time.After(2 * time.Second):
		}
	}
	return err
}

// handleSurfaceEvent routes one input event. Send failures are logged,
// not returned: a failed send also ends the session, which the loop
// reports as the fatal cause.
func (app *Application) handleSurfaceEvent(ev surface.Event) {
	switch ev.Type {
	case surface.EventKey:
		app.metrics.RecordInput()
		if err := app.input.HandleKey(ev); err != nil {
			logger.Warn("key not sent", "err", err)
		}

	case surface.EventMouse:
		if !app.mouse {
			return
		}
		app.metrics.RecordInput()
		if err := app.input.HandleMouse(ev, app.store.Latest(), app.anim, time.Now()); err != nil {
			logger.Warn("mouse event not sent", "err", err)
		}

	case surface.EventResize:
		app.handleResize(ev)

	case surface.EventPaste:
		if err := app.input.HandlePaste(ev); err != nil {
			logger.Warn("paste not sent", "err", err)
		}

	case surface.EventFocus:
		if err := app.session.SetFocus(ev.Focused); err != nil {
			logger.Warn("focus change not sent", "err", err)
		}
	}
}

// handleResize asks the engine to adopt the new surface size. The
// engine answers with grid resizes that flow back through the redraw
// stream.
func (app *Application) handleResize(ev surface.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), resizeTimeout)
	defer cancel()
	if err := app.session.TryResize(ctx, ev.Cols, ev.Rows); err != nil {
		logger.Warn("resize request failed", "cols", ev.Cols, "rows", ev.Rows, "err", err)
	}
}
