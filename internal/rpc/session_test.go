package rpc

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// testEngine is the far side of a session: a scripted peer speaking the
// wire format over an in-memory pipe.
type testEngine struct {
	t    *testing.T
	conn net.Conn
	dec  *msgpack.Decoder
	enc  *msgpack.Encoder
}

func newTestSession(t *testing.T) (*Session, *testEngine) {
	t.Helper()
	client, server := net.Pipe()

	s := NewSession(client)
	s.Start()
	t.Cleanup(func() { _ = s.Close() })

	dec := msgpack.NewDecoder(bufio.NewReader(server))
	dec.UseLooseInterfaceDecoding(true)
	e := &testEngine{
		t:    t,
		conn: server,
		dec:  dec,
		enc:  msgpack.NewEncoder(server),
	}
	t.Cleanup(func() { _ = server.Close() })
	return s, e
}

// readFrame decodes one frame as a generic array.
func (e *testEngine) readFrame() []any {
	e.t.Helper()
	v, err := e.dec.DecodeInterfaceLoose()
	if err != nil {
		e.t.Fatalf("engine read: %v", err)
	}
	frame, ok := v.([]any)
	if !ok {
		e.t.Fatalf("engine read: frame is %T, want array", v)
	}
	return frame
}

func (e *testEngine) send(frame []any) {
	e.t.Helper()
	if err := e.enc.Encode(frame); err != nil {
		e.t.Fatalf("engine send: %v", err)
	}
}

func asInt(t *testing.T, v any) int64 {
	t.Helper()
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	case int8:
		return int64(n)
	case uint8:
		return int64(n)
	case int16:
		return int64(n)
	case uint16:
		return int64(n)
	case int32:
		return int64(n)
	case uint32:
		return int64(n)
	case int:
		return int64(n)
	default:
		t.Fatalf("value %v (%T) is not an integer", v, v)
		return 0
	}
}

func TestSessionCall(t *testing.T) {
	s, e := newTestSession(t)

	go func() {
		frame := e.readFrame()
		if len(frame) != 4 {
			e.t.Errorf("request frame has %d elements, want 4", len(frame))
			return
		}
		id := asInt(e.t, frame[1])
		if method := frame[2]; method != "nvim_get_mode" {
			e.t.Errorf("method = %v, want nvim_get_mode", method)
		}
		e.send([]any{typeResponse, id, nil, "ok"})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := s.Call(ctx, "nvim_get_mode")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if res != "ok" {
		t.Errorf("Call() = %v, want ok", res)
	}
}

func TestSessionCallEngineError(t *testing.T) {
	s, e := newTestSession(t)

	go func() {
		frame := e.readFrame()
		id := asInt(e.t, frame[1])
		e.send([]any{typeResponse, id, []any{0, "keymap busy"}, nil})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := s.Call(ctx, "nvim_command", "echo")
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Call() error = %v, want *EngineError", err)
	}
	if got := engErr.Error(); got != "rpc: engine: keymap busy" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSessionUnknownResponseID(t *testing.T) {
	s, e := newTestSession(t)

	got := make(chan string, 1)
	s.OnNotification("redraw", func(method string, params []any) {
		got <- method
	})

	// A response nobody asked for, then a normal notification. The session
	// must log and drop the former and keep delivering the latter.
	e.send([]any{typeResponse, 9999, nil, "orphan"})
	e.send([]any{typeNotification, "redraw", []any{}})

	select {
	case m := <-got:
		if m != "redraw" {
			t.Errorf("method = %q, want redraw", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification after orphan response never arrived")
	}

	select {
	case <-s.Done():
		t.Fatal("session ended after orphan response")
	default:
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestSessionCloseCancelsPending(t *testing.T) {
	s, e := newTestSession(t)

	started := make(chan struct{})
	go func() {
		e.readFrame()
		close(started)
		// Never respond.
	}()

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Call(context.Background(), "nvim_get_mode")
		errCh <- err
	}()

	<-started
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrDisconnected) {
			t.Errorf("Call() after close = %v, want ErrDisconnected", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending call not cancelled by Close")
	}
}

func TestSessionNotify(t *testing.T) {
	s, e := newTestSession(t)

	done := make(chan []any, 1)
	go func() {
		done <- e.readFrame()
	}()

	if err := s.Notify("nvim_input", "jj"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	select {
	case frame := <-done:
		if len(frame) != 3 {
			t.Fatalf("notification frame has %d elements, want 3", len(frame))
		}
		if kind := asInt(t, frame[0]); kind != typeNotification {
			t.Errorf("kind = %d, want %d", kind, typeNotification)
		}
		if frame[1] != "nvim_input" {
			t.Errorf("method = %v, want nvim_input", frame[1])
		}
		params, ok := frame[2].([]any)
		if !ok || len(params) != 1 || params[0] != "jj" {
			t.Errorf("params = %v, want [jj]", frame[2])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification never reached the engine")
	}
}

func TestSessionNotificationOrder(t *testing.T) {
	s, e := newTestSession(t)

	got := make(chan string, 8)
	s.OnNotification("*", func(method string, params []any) {
		got <- method
	})

	for _, m := range []string{"first", "second", "third"} {
		e.send([]any{typeNotification, m, []any{}})
	}

	for _, want := range []string{"first", "second", "third"} {
		select {
		case m := <-got:
			if m != want {
				t.Fatalf("notification %q arrived, want %q", m, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("notification %q never arrived", want)
		}
	}
}

func TestSessionMalformedFrameFatal(t *testing.T) {
	s, e := newTestSession(t)

	// A top-level string is not a frame.
	if err := e.enc.EncodeString("garbage"); err != nil {
		t.Fatalf("engine send: %v", err)
	}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session survived a malformed frame")
	}

	var terr *TransportError
	if err := s.Err(); !errors.As(err, &terr) {
		t.Errorf("Err() = %v, want *TransportError", err)
	}
}

func TestSessionServesEngineRequest(t *testing.T) {
	s, e := newTestSession(t)

	s.OnRequest("ping", func(method string, params []any) (any, error) {
		return "pong", nil
	})

	done := make(chan []any, 1)
	go func() {
		e.send([]any{typeRequest, 7, "ping", []any{}})
		done <- e.readFrame()
	}()

	select {
	case frame := <-done:
		if kind := asInt(t, frame[0]); kind != typeResponse {
			t.Fatalf("kind = %d, want %d", kind, typeResponse)
		}
		if id := asInt(t, frame[1]); id != 7 {
			t.Errorf("id = %d, want 7", id)
		}
		if frame[2] != nil {
			t.Errorf("error = %v, want nil", frame[2])
		}
		if frame[3] != "pong" {
			t.Errorf("result = %v, want pong", frame[3])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no response to engine request")
	}
}

func TestSessionUnhandledEngineRequest(t *testing.T) {
	s, e := newTestSession(t)
	_ = s

	done := make(chan []any, 1)
	go func() {
		e.send([]any{typeRequest, 8, "no_such_method", []any{}})
		done <- e.readFrame()
	}()

	select {
	case frame := <-done:
		if frame[2] == nil {
			t.Error("expected an error value for unhandled request")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no response to unhandled engine request")
	}
}

func TestAttachUI(t *testing.T) {
	s, e := newTestSession(t)

	go func() {
		frame := e.readFrame()
		if frame[2] != "nvim_ui_attach" {
			e.t.Errorf("method = %v, want nvim_ui_attach", frame[2])
		}
		params, ok := frame[3].([]any)
		if !ok || len(params) != 3 {
			e.t.Errorf("params = %v, want [cols rows opts]", frame[3])
		} else {
			if cols := asInt(e.t, params[0]); cols != 80 {
				e.t.Errorf("cols = %d, want 80", cols)
			}
			if rows := asInt(e.t, params[1]); rows != 24 {
				e.t.Errorf("rows = %d, want 24", rows)
			}
			opts, ok := params[2].(map[string]any)
			if !ok {
				e.t.Errorf("opts = %T, want map", params[2])
			} else if v, _ := opts["ext_linegrid"].(bool); !v {
				e.t.Error("ext_linegrid not requested")
			}
		}
		e.send([]any{typeResponse, asInt(e.t, frame[1]), nil, nil})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.AttachUI(ctx, 80, 24, DefaultAttachOptions()); err != nil {
		t.Fatalf("AttachUI() error = %v", err)
	}
}

func TestSessionCallContextCancel(t *testing.T) {
	s, e := newTestSession(t)

	go func() {
		e.readFrame()
		// Never respond.
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Call(ctx, "nvim_get_mode")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Call() = %v, want deadline exceeded", err)
	}
}

func TestSessionCallAfterClose(t *testing.T) {
	s, _ := newTestSession(t)
	_ = s.Close()

	if _, err := s.Call(context.Background(), "nvim_get_mode"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Call() = %v, want ErrSessionClosed", err)
	}
	if err := s.Notify("nvim_input", "x"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Notify() = %v, want ErrSessionClosed", err)
	}
}
