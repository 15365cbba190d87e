package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "jira-test-script-generator" {
		t.Fatalf("AppName = %s", cfg.AppName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %s", cfg.HTTPAddr)
	}
	if cfg.LLMProvider != "openai" {
		t.Fatalf("LLMProvider = %s", cfg.LLMProvider)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
	if cfg.StorageTTL != 7*24*time.Hour {
		t.Fatalf("StorageTTL = %s", cfg.StorageTTL)
	}
}

func TestLoadTrimsBaseURLs(t *testing.T) {
	t.Setenv("JIRA_BASE_URL", "https://example.atlassian.net/ ")
	t.Setenv("LLM_BASE_URL", "http://localhost:11434/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JiraBaseURL != "https://example.atlassian.net" {
		t.Fatalf("JiraBaseURL = %q", cfg.JiraBaseURL)
	}
	if cfg.LLMBaseURL != "http://localhost:11434" {
		t.Fatalf("LLMBaseURL = %q", cfg.LLMBaseURL)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero request_timeout_seconds")
	}
}

func TestValidateJira(t *testing.T) {
	cfg := &Config{JiraEmail: "a@b.c", JiraAPIToken: "tok", JiraBaseURL: "https://x"}
	if err := cfg.ValidateJira(); err != nil {
		t.Fatalf("ValidateJira: %v", err)
	}

	cfg.JiraAPIToken = ""
	if err := cfg.ValidateJira(); err == nil {
		t.Fatalf("expected error for missing jira_api_token")
	}
}
