package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultMaxResults = 50

type searchIssuesRequest struct {
	JQL        string `json:"jql"`
	MaxResults int    `json:"max_results"`
}

type generateRequest struct {
	IssueKey   string `json:"issue_key"`
	JQL        string `json:"jql"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSearchIssues proxies a JQL search to Jira and returns the issues.
func (s *Server) handleSearchIssues(c *gin.Context) {
	req := searchIssuesRequest{MaxResults: defaultMaxResults}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.JQL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jql is required"})
		return
	}

	issues, err := s.issues.Search(c.Request.Context(), req.JQL, req.MaxResults)
	if err != nil {
		s.log.ErrorObj("issue search failed", "search_error", map[string]any{
			"jql":   req.JQL,
			"error": err.Error(),
		})
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "count": len(issues)})
}

// handleGenerate runs script generation for one issue key or a JQL query.
func (s *Server) handleGenerate(c *gin.Context) {
	req := generateRequest{MaxResults: defaultMaxResults}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	switch {
	case strings.TrimSpace(req.IssueKey) != "":
		script, err := s.gen.GenerateForIssue(c.Request.Context(), req.IssueKey)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"scripts": []any{script}, "count": 1})

	case strings.TrimSpace(req.JQL) != "":
		scripts, err := s.gen.GenerateForJQL(c.Request.Context(), req.JQL, req.MaxResults)
		if err != nil && len(scripts) == 0 {
			s.respondError(c, err)
			return
		}
		resp := gin.H{"scripts": scripts, "count": len(scripts)}
		if err != nil {
			resp["partial_error"] = err.Error()
		}
		c.JSON(http.StatusOK, resp)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue_key or jql is required"})
	}
}

// handleGetScript serves a cached script.
func (s *Server) handleGetScript(c *gin.Context) {
	key := strings.TrimSpace(c.Param("issueKey"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue key is required"})
		return
	}

	script, found, err := s.store.GetScript(key)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no script cached for " + key})
		return
	}
	c.JSON(http.StatusOK, script)
}
