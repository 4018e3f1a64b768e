// Package main is the entry point for the Slipstream client.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/slipstream/internal/app"
	"github.com/dshills/slipstream/internal/logger"
	"github.com/dshills/slipstream/internal/render/surface"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	// Create application
	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer logger.Close()

	// The terminal surface takes over the screen only once Run starts.
	if err := application.SetSurface(surface.NewTerminal()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set surface: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var engineCmd string
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.Address, "address", "", "Connect to an engine listening at this socket address")
	flag.StringVar(&opts.Address, "a", "", "Connect to an engine listening at this socket address (shorthand)")
	flag.StringVar(&engineCmd, "engine", "", "Engine command to spawn (space-separated)")
	flag.StringVar(&opts.ConfigDir, "config", "", "Settings directory")
	flag.StringVar(&opts.ConfigDir, "c", "", "Settings directory (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogPath, "log-file", "", "Log file path")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Slipstream - smooth terminal UI for Neovim\n\n")
		fmt.Fprintf(os.Stderr, "Usage: slipstream [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  slipstream                      Start with a fresh engine\n")
		fmt.Fprintf(os.Stderr, "  slipstream main.go              Open a file\n")
		fmt.Fprintf(os.Stderr, "  slipstream -a /tmp/nvim.sock    Attach to a running engine\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Slipstream %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level; empty defers to settings
	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if engineCmd != "" {
		opts.Command = strings.Fields(engineCmd)
	}

	// Remaining arguments are files for the engine to open
	opts.Files = flag.Args()

	return opts
}
