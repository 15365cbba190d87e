package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
	"github.com/Devashish1806/jira-test-script-generator/pkg/apiclient"
)

// Package jira talks to the Jira Cloud REST v3 API.

const (
	searchEndpoint   = "/rest/api/3/search/jql"
	issueEndpoint    = "/rest/api/3/issue"
	defaultMaxResult = 50
	jiraTimeLayout   = "2006-01-02T15:04:05.000-0700"
)

var searchFields = []string{
	"summary", "description", "project", "parent",
	"issuetype", "assignee", "reporter", "created", "status",
}

// Config carries the Jira connection settings.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string
	Timeout  time.Duration
}

// Client fetches issues from Jira. It is safe for concurrent use.
type Client struct {
	api *apiclient.Client
}

// New builds a Jira client. Authentication is the basic scheme Jira Cloud
// expects for email + API token pairs, fixed as a default header.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("jira base url is empty")
	}
	if cfg.Email == "" || cfg.APIToken == "" {
		return nil, fmt.Errorf("jira email and api token are required")
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.APIToken))
	api := apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		DefaultHeaders: map[string]string{
			"Accept":        "application/json",
			"Content-Type":  "application/json",
			"Authorization": "Basic " + credentials,
		},
		Timeout: cfg.Timeout,
	})

	return &Client{api: api}, nil
}

type searchRequest struct {
	JQL          string   `json:"jql"`
	MaxResults   int      `json:"maxResults"`
	Fields       []string `json:"fields"`
	FieldsByKeys bool     `json:"fieldsByKeys"`
}

type searchResponse struct {
	Issues []issuePayload `json:"issues"`
}

type issuePayload struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description"`
	Project     *keyRef         `json:"project"`
	Parent      *keyRef         `json:"parent"`
	IssueType   *nameRef        `json:"issuetype"`
	Status      *nameRef        `json:"status"`
	Assignee    *userRef        `json:"assignee"`
	Reporter    *userRef        `json:"reporter"`
	Created     string          `json:"created"`
}

type keyRef struct {
	Key string `json:"key"`
}

type nameRef struct {
	Name string `json:"name"`
}

type userRef struct {
	DisplayName string `json:"displayName"`
}

// Search runs a JQL query and returns the matching issues.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) ([]domain.Issue, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, fmt.Errorf("jql query must be provided")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResult
	}

	req := searchRequest{
		JQL:          jql,
		MaxResults:   maxResults,
		Fields:       searchFields,
		FieldsByKeys: true,
	}

	var resp searchResponse
	if err := c.api.PostJSON(ctx, searchEndpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("jira search: %w", err)
	}

	issues := make([]domain.Issue, 0, len(resp.Issues))
	for _, p := range resp.Issues {
		issues = append(issues, p.toDomain())
	}
	return issues, nil
}

// Issue fetches a single issue by key.
func (c *Client) Issue(ctx context.Context, key string) (domain.Issue, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Issue{}, fmt.Errorf("issue key must be provided")
	}

	var p issuePayload
	endpoint := issueEndpoint + "/" + url.PathEscape(key)
	if err := c.api.GetJSON(ctx, endpoint, &p); err != nil {
		return domain.Issue{}, fmt.Errorf("jira issue %s: %w", key, err)
	}
	return p.toDomain(), nil
}

func (p issuePayload) toDomain() domain.Issue {
	issue := domain.Issue{
		Key:         p.Key,
		Summary:     p.Fields.Summary,
		Description: FlattenDescription(p.Fields.Description),
	}
	if p.Fields.Project != nil {
		issue.ProjectKey = p.Fields.Project.Key
	}
	if p.Fields.Parent != nil {
		issue.ParentKey = p.Fields.Parent.Key
	}
	if p.Fields.IssueType != nil {
		issue.IssueType = p.Fields.IssueType.Name
	}
	if p.Fields.Status != nil {
		issue.Status = p.Fields.Status.Name
	}
	if p.Fields.Assignee != nil {
		issue.Assignee = p.Fields.Assignee.DisplayName
	}
	if p.Fields.Reporter != nil {
		issue.Reporter = p.Fields.Reporter.DisplayName
	}
	if p.Fields.Created != "" {
		if ts, err := time.Parse(jiraTimeLayout, p.Fields.Created); err == nil {
			issue.Created = ts
		}
	}
	return issue
}
