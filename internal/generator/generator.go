package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
	"github.com/Devashish1806/jira-test-script-generator/internal/llm"
	"github.com/Devashish1806/jira-test-script-generator/internal/logger"
	"github.com/Devashish1806/jira-test-script-generator/internal/storage"
	"github.com/Devashish1806/jira-test-script-generator/pkg/sinks"
)

// IssueSource provides the Jira issues scripts are generated for.
type IssueSource interface {
	Search(ctx context.Context, jql string, maxResults int) ([]domain.Issue, error)
	Issue(ctx context.Context, key string) (domain.Issue, error)
}

// Service coordinates script generation: issue lookup, prompting, caching and
// downstream notification.
type Service struct {
	issues IssueSource
	client llm.Client
	store  storage.Store
	fanout *sinks.Fanout
	log    logger.Logger
}

// NewService wires a generator service.
func NewService(issues IssueSource, client llm.Client, store storage.Store, fanout *sinks.Fanout, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	return &Service{
		issues: issues,
		client: client,
		store:  store,
		fanout: fanout,
		log:    log,
	}
}

// GenerateForIssue produces (or returns the cached) script for one issue key.
func (s *Service) GenerateForIssue(ctx context.Context, key string) (domain.GeneratedScript, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.GeneratedScript{}, fmt.Errorf("issue key must be provided")
	}

	if cached, found, err := s.store.GetScript(key); err != nil {
		return domain.GeneratedScript{}, fmt.Errorf("read script cache: %w", err)
	} else if found {
		s.log.DebugObj("script cache hit", "issue_key", key)
		return cached, nil
	}

	issue, err := s.issues.Issue(ctx, key)
	if err != nil {
		return domain.GeneratedScript{}, fmt.Errorf("fetch issue %s: %w", key, err)
	}

	return s.generate(ctx, issue)
}

// GenerateForJQL produces scripts for every issue matching the query. Issues
// are processed sequentially; per-issue failures are joined and returned
// alongside the scripts that did succeed.
func (s *Service) GenerateForJQL(ctx context.Context, jql string, maxResults int) ([]domain.GeneratedScript, error) {
	issues, err := s.issues.Search(ctx, jql, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	if len(issues) == 0 {
		return nil, nil
	}

	var (
		scripts []domain.GeneratedScript
		errs    []error
	)
	for _, issue := range issues {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		if cached, found, err := s.store.GetScript(issue.Key); err == nil && found {
			s.log.DebugObj("script cache hit", "issue_key", issue.Key)
			scripts = append(scripts, cached)
			continue
		}

		script, err := s.generate(ctx, issue)
		if err != nil {
			errs = append(errs, fmt.Errorf("issue %s: %w", issue.Key, err))
			s.log.ErrorObj("script generation failed", "generation_error", map[string]any{
				"issue_key": issue.Key,
				"error":     err.Error(),
			})
			continue
		}
		scripts = append(scripts, script)
	}

	return scripts, errors.Join(errs...)
}

func (s *Service) generate(ctx context.Context, issue domain.Issue) (domain.GeneratedScript, error) {
	prompt, err := renderPrompt(issue)
	if err != nil {
		return domain.GeneratedScript{}, err
	}

	reply, err := s.client.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return domain.GeneratedScript{}, fmt.Errorf("llm completion: %w", err)
	}

	script := domain.GeneratedScript{
		IssueKey:    issue.Key,
		Script:      strings.TrimSpace(reply),
		Model:       s.client.Model(),
		Provider:    s.client.Provider(),
		GeneratedAt: time.Now().UTC(),
	}

	if err := s.store.PutScript(script); err != nil {
		s.log.WarnObj("script cache write failed", "cache_error", map[string]any{
			"issue_key": issue.Key,
			"error":     err.Error(),
		})
	}

	if s.fanout != nil && s.fanout.Size() > 0 {
		if n, err := s.fanout.Send(ctx, sinks.NewEvent(script)); err != nil {
			s.log.WarnObj("script event fanout incomplete", "fanout_result", map[string]any{
				"issue_key":  issue.Key,
				"successful": n,
				"error":      err.Error(),
			})
		}
	}

	s.log.InfoObj("script generated", "generation_result", map[string]any{
		"issue_key": issue.Key,
		"provider":  script.Provider,
		"model":     script.Model,
	})
	return script, nil
}
