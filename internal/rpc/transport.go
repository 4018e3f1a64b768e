package rpc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/dshills/slipstream/internal/logger"
)

// Pipes joins a read stream and a write stream into one connection.
func Pipes(r io.ReadCloser, w io.WriteCloser) io.ReadWriteCloser {
	return &pipeConn{r: r, w: w}
}

type pipeConn struct {
	r io.ReadCloser
	w io.WriteCloser
}

func (p *pipeConn) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeConn) Write(b []byte) (int, error) { return p.w.Write(b) }

func (p *pipeConn) Close() error {
	werr := p.w.Close()
	rerr := p.r.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// Dial connects to an engine listening on a socket. Addresses containing a
// path separator are dialed as unix sockets, anything else as TCP.
func Dial(addr string) (io.ReadWriteCloser, error) {
	network := "tcp"
	if strings.Contains(addr, "/") || !strings.Contains(addr, ":") {
		network = "unix"
	}
	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, &TransportError{Op: "connect", Err: err}
	}
	return conn, nil
}

// Engine is a child engine process wired for RPC over its stdio pipes.
// It implements io.ReadWriteCloser: reads come from the child's stdout,
// writes go to its stdin.
type Engine struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	exited  chan struct{}
	exitErr error
}

// StartEngine launches argv as the engine process. The command is expected
// to speak the wire protocol on its stdio (an embedded engine invocation).
func StartEngine(ctx context.Context, argv []string) (*Engine, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("rpc: empty engine command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return nil, &TransportError{Op: "connect", Err: err}
	}

	e := &Engine{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		exited: make(chan struct{}),
	}

	go e.drainStderr(stderr)
	go func() {
		e.exitErr = cmd.Wait()
		close(e.exited)
	}()

	logger.Info("engine started", "command", argv[0], "pid", cmd.Process.Pid)
	return e, nil
}

func (e *Engine) Read(b []byte) (int, error)  { return e.stdout.Read(b) }
func (e *Engine) Write(b []byte) (int, error) { return e.stdin.Write(b) }

// Close shuts the engine down: closing stdin asks it to exit; a process
// that lingers past the grace period is killed.
func (e *Engine) Close() error {
	_ = e.stdin.Close()
	_ = e.stdout.Close()

	select {
	case <-e.exited:
	case <-time.After(2 * time.Second):
		_ = e.cmd.Process.Kill()
		<-e.exited
	}
	return nil
}

// Exited is closed once the engine process has exited.
func (e *Engine) Exited() <-chan struct{} {
	return e.exited
}

// ExitErr reports the process exit outcome. Valid once Exited is closed.
func (e *Engine) ExitErr() error {
	return e.exitErr
}

func (e *Engine) drainStderr(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		logger.Warn("engine stderr", "line", sc.Text())
	}
}
