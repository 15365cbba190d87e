package generator

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
)

const systemPrompt = `You are a senior QA engineer. Given a Jira issue, write a
complete, runnable test script that verifies the described behavior. Prefer
pytest conventions, include clear assertions, and cover the obvious edge
cases. Reply with the script only, no commentary.`

const userPromptText = `Write a test script for the following Jira issue.

Issue key: {{.Key}}
Project: {{.ProjectKey}}
{{- if .ParentKey}}
Parent: {{.ParentKey}}
{{- end}}
{{- if .IssueType}}
Type: {{.IssueType}}
{{- end}}
Summary: {{.Summary}}
{{- if .Description}}

Description:
{{.Description}}
{{- end}}`

var userPrompt = template.Must(template.New("user_prompt").Parse(userPromptText))

// renderPrompt produces the user message for an issue.
func renderPrompt(issue domain.Issue) (string, error) {
	var sb strings.Builder
	if err := userPrompt.Execute(&sb, issue); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}
