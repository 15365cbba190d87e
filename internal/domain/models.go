package domain

import "time"

// Domain contains core models shared across packages.

// Issue is a Jira issue reduced to the fields test-script generation needs.
type Issue struct {
	Key         string    `json:"key"`
	ProjectKey  string    `json:"project_key"`
	ParentKey   string    `json:"parent_key,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	IssueType   string    `json:"issue_type,omitempty"`
	Status      string    `json:"status,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	Reporter    string    `json:"reporter,omitempty"`
	Created     time.Time `json:"created,omitempty"`
}

// GeneratedScript is a test script produced for an issue.
type GeneratedScript struct {
	IssueKey    string    `json:"issue_key"`
	Script      string    `json:"script"`
	Model       string    `json:"model"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}
