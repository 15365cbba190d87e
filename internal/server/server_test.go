package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
	"github.com/Devashish1806/jira-test-script-generator/internal/generator"
	"github.com/Devashish1806/jira-test-script-generator/internal/storage"
)

type stubIssues struct {
	issues []domain.Issue
	err    error
}

func (s *stubIssues) Search(context.Context, string, int) ([]domain.Issue, error) {
	return s.issues, s.err
}

func (s *stubIssues) Issue(_ context.Context, key string) (domain.Issue, error) {
	for _, issue := range s.issues {
		if issue.Key == key {
			return issue, nil
		}
	}
	return domain.Issue{}, errors.New("not found")
}

type stubLLM struct{ reply string }

func (s *stubLLM) Provider() string { return "stub" }
func (s *stubLLM) Model() string    { return "stub-model" }
func (s *stubLLM) Complete(context.Context, string, string) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T, issues *stubIssues) (*Server, storage.Store) {
	t.Helper()
	store, err := storage.NewStore("memory", "", storage.Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	gen := generator.NewService(issues, &stubLLM{reply: "def test(): pass"}, store, nil, nil)
	return New(gen, issues, store, nil), store
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &stubIssues{})
	w := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSearchIssuesRoute(t *testing.T) {
	srv, _ := newTestServer(t, &stubIssues{issues: []domain.Issue{
		{Key: "DEV-1", Summary: "bug"},
	}})

	w := doJSON(t, srv, http.MethodPost, "/api/jira/issue", `{"jql": "project = DEV"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Issues []domain.Issue `json:"issues"`
		Count  int            `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 1 || resp.Issues[0].Key != "DEV-1" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestSearchIssuesRequiresJQL(t *testing.T) {
	srv, _ := newTestServer(t, &stubIssues{})
	w := doJSON(t, srv, http.MethodPost, "/api/jira/issue", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGenerateByIssueKey(t *testing.T) {
	srv, store := newTestServer(t, &stubIssues{issues: []domain.Issue{
		{Key: "DEV-2", Summary: "crash"},
	}})

	w := doJSON(t, srv, http.MethodPost, "/api/scripts/generate", `{"issue_key": "DEV-2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	if _, found, _ := store.GetScript("DEV-2"); !found {
		t.Fatalf("script not cached after generation")
	}
}

func TestGenerateRequiresKeyOrJQL(t *testing.T) {
	srv, _ := newTestServer(t, &stubIssues{})
	w := doJSON(t, srv, http.MethodPost, "/api/scripts/generate", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetScriptCachedAndMissing(t *testing.T) {
	srv, store := newTestServer(t, &stubIssues{})

	if err := store.PutScript(domain.GeneratedScript{
		IssueKey:    "DEV-3",
		Script:      "steps",
		GeneratedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("PutScript: %v", err)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/scripts/DEV-3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var script domain.GeneratedScript
	if err := json.Unmarshal(w.Body.Bytes(), &script); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if script.Script != "steps" {
		t.Fatalf("script = %+v", script)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/scripts/DEV-404", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSearchErrorBecomesServerError(t *testing.T) {
	srv, _ := newTestServer(t, &stubIssues{err: errors.New("jira unreachable")})
	w := doJSON(t, srv, http.MethodPost, "/api/jira/issue", `{"jql": "project = DEV"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}
