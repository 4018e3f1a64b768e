package app

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/dshills/slipstream/internal/anim"
	"github.com/dshills/slipstream/internal/config"
	"github.com/dshills/slipstream/internal/render/surface"
	"github.com/dshills/slipstream/internal/rpc"
	"github.com/dshills/slipstream/internal/screen"
)

// testApp assembles an Application over an established connection,
// skipping the settings, logging, and process-spawn parts of bootstrap.
func testApp(t *testing.T, conn io.ReadWriteCloser, mem *surface.Memory) *Application {
	t.Helper()
	app := &Application{
		cfg:     config.New(),
		store:   screen.NewStore(),
		metrics: NewMetrics(),
		done:    make(chan struct{}),
		mouse:   true,
	}
	app.anim = anim.NewEngine(animConfig(app.cfg))
	app.wire(conn)
	if err := app.SetSurface(mem); err != nil {
		t.Fatalf("set surface: %v", err)
	}
	return app
}

// enginePeer plays the engine's side of the wire: it answers every
// request and records what the client sends.
type enginePeer struct {
	session  *rpc.Session
	requests chan string
	inputs   chan string
}

func newEnginePeer(conn io.ReadWriteCloser) *enginePeer {
	p := &enginePeer{
		session:  rpc.NewSession(conn),
		requests: make(chan string, 8),
		inputs:   make(chan string, 8),
	}
	p.session.OnRequest("*", func(method string, _ []any) (any, error) {
		p.requests <- method
		return nil, nil
	})
	p.session.OnNotification("nvim_input", func(_ string, params []any) {
		if len(params) == 1 {
			if s, ok := params[0].(string); ok {
				p.inputs <- s
			}
		}
	})
	p.session.Start()
	return p
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func waitRecv(t *testing.T, what string, ch <-chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return ""
	}
}

func TestRunAttachesRendersAndForwardsInput(t *testing.T) {
	client, server := net.Pipe()
	mem := surface.NewMemory(10, 3)
	app := testApp(t, client, mem)
	peer := newEnginePeer(server)

	runDone := make(chan error, 1)
	go func() { runDone <- app.Run() }()

	if got := waitRecv(t, "attach request", peer.requests); got != "nvim_ui_attach" {
		t.Fatalf("first request = %q, want nvim_ui_attach", got)
	}

	err := peer.session.Notify("redraw",
		[]any{"grid_resize", []any{1, 10, 3}},
		[]any{"grid_line", []any{1, 0, 0, []any{[]any{"h"}, []any{"i"}}}},
		[]any{"flush", []any{}},
	)
	if err != nil {
		t.Fatalf("send redraw: %v", err)
	}
	waitFor(t, "first frame", func() bool { return mem.Text(0) == "hi" })

	mem.PostEvent(surface.Event{Type: surface.EventKey, Key: surface.KeyRune, Rune: 'g'})
	if got := waitRecv(t, "key input", peer.inputs); got != "g" {
		t.Fatalf("engine received %q, want g", got)
	}

	mem.SetSize(12, 3)
	if got := waitRecv(t, "resize request", peer.requests); got != "nvim_ui_try_resize" {
		t.Fatalf("request after resize = %q, want nvim_ui_try_resize", got)
	}

	app.Shutdown()
	if got := waitRecv(t, "detach request", peer.requests); got != "nvim_ui_detach" {
		t.Fatalf("request after shutdown = %q, want nvim_ui_detach", got)
	}
	if err := <-runDone; err != nil {
		t.Fatalf("run returned %v", err)
	}
	if s := app.Metrics().Snapshot(); s.Frames == 0 || s.RedrawBatches == 0 {
		t.Errorf("metrics recorded nothing: %+v", s)
	}
}

func TestRunReportsAttachFailure(t *testing.T) {
	client, server := net.Pipe()
	mem := surface.NewMemory(10, 3)
	app := testApp(t, client, mem)

	reject := rpc.NewSession(server)
	reject.OnRequest("*", func(string, []any) (any, error) {
		return nil, errors.New("attach rejected")
	})
	reject.Start()

	err := app.Run()
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "attach" {
		t.Fatalf("run returned %v, want attach init error", err)
	}
}

func TestRunEndsWhenSessionDies(t *testing.T) {
	client, server := net.Pipe()
	mem := surface.NewMemory(10, 3)
	app := testApp(t, client, mem)
	peer := newEnginePeer(server)

	runDone := make(chan error, 1)
	go func() { runDone <- app.Run() }()
	waitRecv(t, "attach request", peer.requests)

	// The engine side drops the connection mid-session.
	_ = peer.session.Close()

	select {
	case err := <-runDone:
		var terr *rpc.TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("run returned %v, want transport error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not end after the session died")
	}
}

func TestSetSurfaceWhileRunning(t *testing.T) {
	client, server := net.Pipe()
	mem := surface.NewMemory(10, 3)
	app := testApp(t, client, mem)
	peer := newEnginePeer(server)

	runDone := make(chan error, 1)
	go func() { runDone <- app.Run() }()
	waitRecv(t, "attach request", peer.requests)

	if err := app.SetSurface(surface.NewMemory(1, 1)); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("set surface while running = %v, want ErrAlreadyRunning", err)
	}

	app.Shutdown()
	waitRecv(t, "detach request", peer.requests)
	if err := <-runDone; err != nil {
		t.Fatalf("run returned %v", err)
	}
}
