// Command agentwire is a terminal client for a streaming agent backend.
//
// Usage:
//
//	agentwire [flags]
//
// Flags:
//
//	-url string      Backend base URL (overrides config file)
//	-prompt string   Run a single query and print the result instead of the TUI
//	-stream          With -prompt, stream events as they arrive
//	-context string  Glob pattern of files to include as context (e.g. "src/**/*.go")
//	-v               Verbose diagnostics on stderr
//
// Without -prompt the command starts an interactive TUI. Configuration is
// read from $XDG_CONFIG_HOME/agentwire/config.yaml when present.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/fwojciec/agentwire"
	bt "github.com/fwojciec/agentwire/bubbletea"
	"github.com/fwojciec/agentwire/config"
	"github.com/fwojciec/agentwire/langserve"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agentwire: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		baseURL     = flag.String("url", "", "Backend base URL (overrides config file)")
		prompt      = flag.String("prompt", "", "Run a single query and print the result")
		streamFlag  = flag.Bool("stream", false, "With -prompt, stream events as they arrive")
		contextGlob = flag.String("context", "", "Glob pattern of files to include as context")
		verbose     = flag.Bool("v", false, "Verbose diagnostics on stderr")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	client := langserve.New(cfg.BaseURL,
		langserve.WithLogger(logger),
		langserve.WithInvokePath(cfg.InvokePath),
		langserve.WithStreamPath(cfg.StreamPath),
	)

	// Single-shot modes.
	if *prompt != "" {
		promptText, err := buildPrompt(*prompt, *contextGlob)
		if err != nil {
			return err
		}
		if *streamFlag {
			return streamToStdout(ctx, client, promptText)
		}
		runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
		out, err := client.RunQuery(runCtx, agentwire.Query{Prompt: promptText})
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	// Interactive TUI.
	tuiModel := bt.New(queryFunc(client, *contextGlob), agentwire.DefaultTheme())
	if err := bt.Run(ctx, tuiModel); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
