package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Devashish1806/jira-test-script-generator/internal/app"
	"github.com/Devashish1806/jira-test-script-generator/internal/config"
	"github.com/Devashish1806/jira-test-script-generator/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "generate failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	jql := flag.String("jql", "project = DEV ORDER BY created DESC", "JQL query selecting the issues to generate scripts for")
	maxResults := flag.Int("max", 50, "maximum number of issues to process")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize generator", "error", err)
		return err
	}

	return application.GenerateOnce(ctx, *jql, *maxResults)
}
