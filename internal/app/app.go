package app

import (
	"context"
	"fmt"

	"github.com/Devashish1806/jira-test-script-generator/internal/config"
	"github.com/Devashish1806/jira-test-script-generator/internal/generator"
	"github.com/Devashish1806/jira-test-script-generator/internal/jira"
	"github.com/Devashish1806/jira-test-script-generator/internal/llm"
	"github.com/Devashish1806/jira-test-script-generator/internal/logger"
	"github.com/Devashish1806/jira-test-script-generator/internal/server"
	"github.com/Devashish1806/jira-test-script-generator/internal/storage"
	"github.com/Devashish1806/jira-test-script-generator/pkg/sinks"
)

// App is the assembled runtime: Jira access, LLM client, script cache,
// notification fanout, generator service and HTTP server.
type App struct {
	cfg    *config.Config
	log    logger.Logger
	store  storage.Store
	fanout *sinks.Fanout
	gen    *generator.Service
	srv    *server.Server
}

// New wires the application from config.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := cfg.ValidateJira(); err != nil {
		return nil, err
	}

	jiraClient, err := jira.New(jira.Config{
		BaseURL:  cfg.JiraBaseURL,
		Email:    cfg.JiraEmail,
		APIToken: cfg.JiraAPIToken,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init jira client: %w", err)
	}

	llmClient, err := llm.DefaultRegistry().ClientFor(llm.Config{
		Provider: cfg.LLMProvider,
		BaseURL:  cfg.LLMBaseURL,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	log.InfoObj("llm client initialized", "llm_config", map[string]any{
		"provider": llmClient.Provider(),
		"model":    llmClient.Model(),
	})

	storeOpts := storage.Options{
		ScriptTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanup,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"script_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanup.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.SinksFile, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	gen := generator.NewService(jiraClient, llmClient, store, fanout, log)
	srv := server.New(gen, jiraClient, store, log)

	return &App{
		cfg:    cfg,
		log:    log,
		store:  store,
		fanout: fanout,
		gen:    gen,
		srv:    srv,
	}, nil
}

// buildFanout loads the optional sinks registry. An empty path disables fanout.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*sinks.Fanout, error) {
	if path == "" {
		return sinks.NewFanout(nil), nil
	}

	reg, err := sinks.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabled := reg.Enabled()
	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, cfg := range enabled {
		summaries = append(summaries, map[string]string{"id": cfg.ID, "type": cfg.Type})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})

	return sinks.NewFanout(built), nil
}

// Run serves the HTTP API until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.srv == nil {
		return fmt.Errorf("app is not initialized")
	}
	defer a.closeStore()

	a.log.InfoObj("http server starting", "server_state", map[string]any{
		"addr":        a.cfg.HTTPAddr,
		"sinks_count": a.fanout.Size(),
	})
	return a.srv.Run(ctx, a.cfg.HTTPAddr)
}

// GenerateOnce runs a single generation pass for a JQL query and returns the
// scripts. Used by the one-shot CLI.
func (a *App) GenerateOnce(ctx context.Context, jql string, maxResults int) error {
	if a == nil || a.gen == nil {
		return fmt.Errorf("app is not initialized")
	}
	defer a.closeStore()

	scripts, err := a.gen.GenerateForJQL(ctx, jql, maxResults)
	a.log.InfoObj("generation pass finished", "pass_result", map[string]any{
		"scripts_generated": len(scripts),
	})
	for _, script := range scripts {
		fmt.Printf("# --- %s (%s/%s) ---\n%s\n\n", script.IssueKey, script.Provider, script.Model, script.Script)
	}
	return err
}

func (a *App) closeStore() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.WarnObj("storage close failed", "error", err)
	}
}
