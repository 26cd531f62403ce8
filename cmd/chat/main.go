package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"biomni-chat/internal/di"
	"biomni-chat/internal/infrastructure/env"
	"biomni-chat/internal/infrastructure/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	envService := env.NewEnvService()
	cfg := di.ConfigFromEnv(envService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	defer container.Close()

	listenCfg := server.ResolveListenConfig(envService, container.Logger)
	ln, err := server.Listen(listenCfg, container.Logger)
	if err != nil {
		return err
	}

	srv := server.New(container.Responder, container.Logger, server.Page{
		Title: fmt.Sprintf("Biomni (%s %s)", cfg.Agent.Source, cfg.Agent.LLM),
		Description: "Chat with the Biomni agent. Each reply includes an explicit reasoning section " +
			"followed by a <solution> summary.",
	})
	return srv.Serve(ctx, ln)
}
