package rpc

import (
	"context"
	"io"
	"net"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestPipesRoundTrip(t *testing.T) {
	pr, pw := io.Pipe()
	conn := Pipes(pr, pw)

	go func() {
		_, _ = conn.Write([]byte("abc"))
	}()

	buf := make([]byte, 3)
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "abc" {
		t.Errorf("read %q, want abc", buf)
	}

	if err := conn.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := conn.Read(buf); err == nil {
		t.Error("read after close should fail")
	}
}

func TestDialUnixSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	defer ln.Close()

	// Echo server: anything the client sends comes straight back, so the
	// session receives its own notifications.
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = io.Copy(c, c)
	}()

	conn, err := Dial(path)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	s := NewSession(conn)
	got := make(chan string, 1)
	s.OnNotification("*", func(method string, params []any) {
		got <- method
	})
	s.Start()
	defer s.Close()

	if err := s.Notify("nvim_input", "gg"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	select {
	case m := <-got:
		if m != "nvim_input" {
			t.Errorf("echoed method = %q", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("echoed notification never arrived")
	}
}

func TestDialRefused(t *testing.T) {
	if _, err := Dial(filepath.Join(t.TempDir(), "absent.sock")); err == nil {
		t.Fatal("Dial() of absent socket should fail")
	}
}

func TestStartEngineEcho(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := StartEngine(ctx, []string{"cat"})
	if err != nil {
		t.Fatalf("StartEngine() error = %v", err)
	}

	s := NewSession(eng)
	got := make(chan string, 1)
	s.OnNotification("*", func(method string, params []any) {
		got <- method
	})
	s.Start()

	if err := s.Notify("nvim_input", "x"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	select {
	case m := <-got:
		if m != "nvim_input" {
			t.Errorf("echoed method = %q", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("echo through child process never arrived")
	}

	_ = s.Close()
	select {
	case <-eng.Exited():
		if err := eng.ExitErr(); err != nil {
			t.Errorf("engine exit error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("engine process did not exit")
	}
}

func TestStartEngineEmptyCommand(t *testing.T) {
	if _, err := StartEngine(context.Background(), nil); err == nil {
		t.Fatal("StartEngine() with no argv should fail")
	}
}
