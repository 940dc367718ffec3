// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory
	factory := func(ctx context.Context, cfg *config.Config, errOut io.Writer) (service.Service, error) {
		var store session.Store
		if cfg.Settings.SealSession {
			s, err := session.NewSealedStore(cfg.Dir, cfg.KeyPath())
			if err != nil {
				return nil, err
			}
			store = s
		} else {
			store = session.NewFileStore(cfg.Dir)
		}
		return rest.New(cfg, store, cfg.Logger(errOut))
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
