// Package main is the entry point for the exedit editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/exedit/internal/app"
	"github.com/dshills/exedit/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	opts, code, done := parseFlags(args, stderr)
	if done {
		return code
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(stderr, "Error: exedit needs an interactive terminal")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	application, err := app.New(ctx, opts, app.WithBackend(screen))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags parses the command line. done reports that the program should
// exit with code without starting the editor.
func parseFlags(args []string, stderr io.Writer) (opts app.Options, code int, done bool) {
	fs := flag.NewFlagSet("exedit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var showVersion, showHelp bool
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.BoolVar(&opts.Debug, "debug", false, "Strict cursor checks and debug logging")
	fs.BoolVar(&opts.Debug, "d", false, "Strict cursor checks and debug logging (shorthand)")
	fs.StringVar(&opts.LogFile, "log", "", "Write logs to this file")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "exedit - a minimal terminal text editor\n\n")
		fmt.Fprintf(stderr, "Usage: exedit [options] <file>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys:\n")
		fmt.Fprintf(stderr, "  arrows, Home, End   move\n")
		fmt.Fprintf(stderr, "  Ctrl+S              save\n")
		fmt.Fprintf(stderr, "  Ctrl+Q              quit\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, true
		}
		return opts, 2, true
	}

	if showHelp {
		fs.Usage()
		return opts, 0, true
	}
	if showVersion {
		fmt.Fprintf(stderr, "exedit %s\n", version)
		fmt.Fprintf(stderr, "Commit: %s\n", commit)
		fmt.Fprintf(stderr, "Built: %s\n", date)
		return opts, 0, true
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		return opts, 1, true
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, 2, true
	}
	opts.Path = fs.Arg(0)
	return opts, 0, false
}
