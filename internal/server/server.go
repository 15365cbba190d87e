package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/generator"
	"github.com/Devashish1806/jira-test-script-generator/internal/logger"
	"github.com/Devashish1806/jira-test-script-generator/internal/storage"
	"github.com/Devashish1806/jira-test-script-generator/pkg/apiclient"
	"github.com/gin-gonic/gin"
)

// Server exposes the HTTP API: issue search, script generation and cached
// script lookup.
type Server struct {
	engine *gin.Engine
	gen    *generator.Service
	issues generator.IssueSource
	store  storage.Store
	log    logger.Logger
}

// New builds the HTTP server and registers routes.
func New(gen *generator.Service, issues generator.IssueSource, store storage.Store, log logger.Logger) *Server {
	if log == nil {
		log = logger.NopLogger{}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		gen:    gen,
		issues: issues,
		store:  store,
		log:    log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/jira/issue", s.handleSearchIssues)
	api.POST("/scripts/generate", s.handleGenerate)
	api.GET("/scripts/:issueKey", s.handleGetScript)
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// respondError maps failures onto HTTP statuses: upstream HTTP failures keep
// their origin visible as a bad gateway, everything else is a server error.
func (s *Server) respondError(c *gin.Context, err error) {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           err.Error(),
			"upstream_status": statusErr.StatusCode,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
