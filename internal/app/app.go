// Package app wires the client together and manages its lifecycle. It
// owns the engine session, the screen store, and the main loop that
// composes frames and forwards input.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/slipstream/internal/anim"
	"github.com/dshills/slipstream/internal/config"
	"github.com/dshills/slipstream/internal/input"
	"github.com/dshills/slipstream/internal/logger"
	"github.com/dshills/slipstream/internal/redraw"
	"github.com/dshills/slipstream/internal/render"
	"github.com/dshills/slipstream/internal/render/surface"
	"github.com/dshills/slipstream/internal/rpc"
	"github.com/dshills/slipstream/internal/screen"
)

const (
	attachTimeout = 5 * time.Second
	detachTimeout = 2 * time.Second
	resizeTimeout = 2 * time.Second
)

// Application is the central coordinator for the client.
type Application struct {
	opts Options
	cfg  *config.Config

	session *rpc.Session
	engine  *rpc.Engine // non-nil when the engine runs as a child process

	store   *screen.Store
	anim    *anim.Engine
	input   *input.Dispatcher
	metrics *Metrics

	surface  surface.Surface
	renderer *render.Renderer

	mouse bool

	running  atomic.Bool
	done     chan struct{}
	quitOnce sync.Once
}

// Options configures the application.
type Options struct {
	// Address connects to an engine already listening on a socket.
	// Empty spawns an embedded engine process.
	Address string

	// Command overrides the engine command from settings.
	Command []string

	// Files are opened by a spawned engine on startup.
	Files []string

	// ConfigDir overrides the settings directory.
	ConfigDir string

	// LogLevel overrides the log level from settings.
	LogLevel string

	// LogPath overrides the log file location from settings.
	LogPath string
}

// New creates an Application with the given options and connects it to
// the engine.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		store:   screen.NewStore(),
		metrics: NewMetrics(),
		done:    make(chan struct{}),
	}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Settings. A broken settings file falls back to defaults; the
	// warning is logged once logging is up.
	cfg, cfgErr := config.Load(app.opts.ConfigDir)
	if cfgErr != nil {
		cfg = config.New()
	}
	app.cfg = cfg

	// 2. Logging. The terminal belongs to the UI while the client runs,
	// so the log file is the only place diagnostics go.
	level := app.opts.LogLevel
	if level == "" {
		level = cfg.String("log.level")
	}
	path := app.opts.LogPath
	if path == "" {
		path = cfg.String("log.path")
	}
	if err := logger.Init(level, path); err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	if cfgErr != nil {
		logger.Warn("settings not loaded, using defaults", "err", cfgErr)
	}

	// 3. Animation and input settings.
	app.anim = anim.NewEngine(animConfig(cfg))
	app.mouse = cfg.Bool("input.mouse")

	// 4. Engine connection and session.
	conn, err := app.connect()
	if err != nil {
		return &InitError{Component: "engine", Err: err}
	}
	app.wire(conn)

	return nil
}

// connect reaches the engine: a socket when an address is configured, a
// spawned child process otherwise.
func (app *Application) connect() (io.ReadWriteCloser, error) {
	addr := app.opts.Address
	if addr == "" {
		addr = app.cfg.String("engine.address")
	}
	if addr != "" {
		logger.Info("connecting to engine", "address", addr)
		return rpc.Dial(addr)
	}

	argv := app.opts.Command
	if len(argv) == 0 {
		argv = app.cfg.Strings("engine.command")
	}
	cmd := make([]string, 0, len(argv)+len(app.opts.Files))
	cmd = append(cmd, argv...)
	cmd = append(cmd, app.opts.Files...)

	engine, err := rpc.StartEngine(context.Background(), cmd)
	if err != nil {
		return nil, err
	}
	app.engine = engine
	return engine, nil
}

// wire builds the session and the input path over an established
// connection.
func (app *Application) wire(conn io.ReadWriteCloser) {
	app.session = rpc.NewSession(conn)
	app.session.OnNotification("redraw", app.handleRedraw)
	app.session.Start()
	app.input = input.NewDispatcher(app.session)
}

// handleRedraw folds one redraw batch into the screen store. It runs on
// the session's receive goroutine and never blocks it.
func (app *Application) handleRedraw(_ string, params []any) {
	app.store.Apply(redraw.Decode(params))
	app.metrics.RecordRedraw(len(params))
}

// SetSurface sets the presentation surface. Must be called before Run.
func (app *Application) SetSurface(s surface.Surface) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.surface = s
	return nil
}

// Run attaches to the engine and blocks in the main loop until the
// session ends or Shutdown is called.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.surface == nil {
		return ErrNoSurface
	}
	if err := app.surface.Init(); err != nil {
		return &InitError{Component: "surface", Err: err}
	}
	defer app.surface.Fini()

	app.renderer = render.New(app.surface)

	cols, rows := app.surface.Size()
	ctx, cancel := context.WithTimeout(context.Background(), attachTimeout)
	err := app.session.AttachUI(ctx, cols, rows, rpc.DefaultAttachOptions())
	cancel()
	if err != nil {
		app.detach()
		return &InitError{Component: "attach", Err: err}
	}
	logger.Info("attached to engine", "cols", cols, "rows", rows)

	err = app.eventLoop()
	app.detach()
	app.logMetrics()
	return err
}

// Shutdown asks the main loop to exit. Safe to call from any goroutine,
// any number of times.
func (app *Application) Shutdown() {
	app.quitOnce.Do(func() { close(app.done) })
}

// IsRunning reports whether the main loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the merged settings document.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Session returns the engine session.
func (app *Application) Session() *rpc.Session {
	return app.session
}

// Metrics returns the session counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// detach releases the engine: a best-effort UI detach, then the
// session, then the child process when one was spawned.
func (app *Application) detach() {
	if !app.session.IsClosed() {
		ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
		if err := app.session.DetachUI(ctx); err != nil {
			logger.Debug("detach failed", "err", err)
		}
		cancel()
	}
	_ = app.session.Close()
	if app.engine != nil {
		_ = app.engine.Close()
	}
}

func (app *Application) logMetrics() {
	s := app.metrics.Snapshot()
	logger.Info("session ended",
		"uptime", s.Uptime.Round(time.Second),
		"frames", s.Frames,
		"frame_avg", s.FrameAvg,
		"frame_max", s.FrameMax,
		"slow_frames", s.SlowFrames,
		"redraw_batches", s.RedrawBatches,
		"redraw_events", s.RedrawEvents,
		"inputs", s.Inputs,
	)
}

// animConfig maps animation settings onto the animation engine.
func animConfig(cfg *config.Config) anim.Config {
	return anim.Config{
		CursorDuration: cfg.DurationMS("animation.cursor_duration_ms"),
		ScrollDuration: cfg.DurationMS("animation.scroll_duration_ms"),
		WindowDuration: cfg.DurationMS("animation.window_duration_ms"),
		Easing:         anim.ByName(cfg.String("animation.easing")),
		CursorBlink:    cfg.Bool("animation.cursor_blink"),
	}
}
