package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
	"github.com/Devashish1806/jira-test-script-generator/internal/storage"
)

type fakeIssueSource struct {
	issues     map[string]domain.Issue
	searchList []domain.Issue
	searchErr  error
}

func (f *fakeIssueSource) Search(_ context.Context, jql string, _ int) ([]domain.Issue, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchList, nil
}

func (f *fakeIssueSource) Issue(_ context.Context, key string) (domain.Issue, error) {
	issue, ok := f.issues[key]
	if !ok {
		return domain.Issue{}, errors.New("issue not found")
	}
	return issue, nil
}

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-model" }
func (f *fakeLLM) Complete(_ context.Context, _, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func memStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewStore("memory", "", storage.Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestGenerateForIssue(t *testing.T) {
	issues := &fakeIssueSource{issues: map[string]domain.Issue{
		"DEV-1": {Key: "DEV-1", ProjectKey: "DEV", Summary: "Login broken", Description: "session expires"},
	}}
	model := &fakeLLM{reply: "def test_login(): ...\n"}
	store := memStore(t)

	svc := NewService(issues, model, store, nil, nil)

	script, err := svc.GenerateForIssue(context.Background(), "DEV-1")
	if err != nil {
		t.Fatalf("GenerateForIssue: %v", err)
	}
	if script.IssueKey != "DEV-1" || script.Script != "def test_login(): ..." {
		t.Fatalf("script = %+v", script)
	}
	if script.Provider != "fake" || script.Model != "fake-model" {
		t.Fatalf("script metadata = %+v", script)
	}

	if _, found, _ := store.GetScript("DEV-1"); !found {
		t.Fatalf("script not cached")
	}
}

func TestGenerateForIssueCacheHitSkipsLLM(t *testing.T) {
	issues := &fakeIssueSource{issues: map[string]domain.Issue{
		"DEV-1": {Key: "DEV-1", Summary: "x"},
	}}
	model := &fakeLLM{reply: "script"}
	store := memStore(t)

	svc := NewService(issues, model, store, nil, nil)

	if _, err := svc.GenerateForIssue(context.Background(), "DEV-1"); err != nil {
		t.Fatalf("first generation: %v", err)
	}
	if _, err := svc.GenerateForIssue(context.Background(), "DEV-1"); err != nil {
		t.Fatalf("second generation: %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("llm called %d times, want 1", model.calls)
	}
}

func TestGenerateForJQLJoinsPerIssueErrors(t *testing.T) {
	issues := &fakeIssueSource{searchList: []domain.Issue{
		{Key: "DEV-1", Summary: "a"},
		{Key: "DEV-2", Summary: "b"},
	}}
	model := &fakeLLM{err: errors.New("model overloaded")}

	svc := NewService(issues, model, memStore(t), nil, nil)

	scripts, err := svc.GenerateForJQL(context.Background(), "project = DEV", 10)
	if err == nil {
		t.Fatalf("expected joined errors")
	}
	if len(scripts) != 0 {
		t.Fatalf("scripts = %d, want 0", len(scripts))
	}
	if !strings.Contains(err.Error(), "DEV-1") || !strings.Contains(err.Error(), "DEV-2") {
		t.Fatalf("joined error missing issue keys: %v", err)
	}
}

func TestGenerateForJQLEmptyResult(t *testing.T) {
	svc := NewService(&fakeIssueSource{}, &fakeLLM{reply: "x"}, memStore(t), nil, nil)

	scripts, err := svc.GenerateForJQL(context.Background(), "project = EMPTY", 10)
	if err != nil {
		t.Fatalf("GenerateForJQL: %v", err)
	}
	if scripts != nil {
		t.Fatalf("expected no scripts, got %d", len(scripts))
	}
}

func TestGenerateForJQLStopsOnCancel(t *testing.T) {
	issues := &fakeIssueSource{searchList: []domain.Issue{
		{Key: "DEV-1", Summary: "a"},
		{Key: "DEV-2", Summary: "b"},
	}}
	model := &fakeLLM{reply: "script"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(issues, model, memStore(t), nil, nil)
	if _, err := svc.GenerateForJQL(ctx, "project = DEV", 10); err == nil {
		t.Fatalf("expected context error")
	}
	if model.calls != 0 {
		t.Fatalf("llm should not be called after cancellation")
	}
}

func TestGenerateForIssueRequiresKey(t *testing.T) {
	svc := NewService(&fakeIssueSource{}, &fakeLLM{}, memStore(t), nil, nil)
	if _, err := svc.GenerateForIssue(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestRenderPromptIncludesIssueFields(t *testing.T) {
	prompt, err := renderPrompt(domain.Issue{
		Key:         "DEV-9",
		ProjectKey:  "DEV",
		IssueType:   "Bug",
		Summary:     "Crash on save",
		Description: "clicking save crashes",
	})
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	for _, want := range []string{"DEV-9", "Bug", "Crash on save", "clicking save crashes"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
