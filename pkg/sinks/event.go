package sinks

import (
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
)

// Event is the payload announced downstream after a script is generated.
type Event struct {
	IssueKey    string    `json:"issue_key"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Script      string    `json:"script"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewEvent constructs an Event from a generated script.
func NewEvent(script domain.GeneratedScript) Event {
	return Event{
		IssueKey:    script.IssueKey,
		Provider:    script.Provider,
		Model:       script.Model,
		Script:      script.Script,
		GeneratedAt: script.GeneratedAt,
	}
}
