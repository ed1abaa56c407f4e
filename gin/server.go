// Package gin provides the HTTP transport for the capture pipeline and the
// saved-post library, built on the gin web framework.
package gin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/koomastudio/postvault"
	"github.com/koomastudio/postvault/ingest"
)

// Server timeouts.
const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server represents an HTTP server with lifecycle management.
type Server struct {
	router *gin.Engine
	server *http.Server

	Addr   string
	Logger *slog.Logger

	Ingest            *ingest.Service
	TokenService      postvault.TokenService
	SavedPostService  postvault.SavedPostService
	CollectionService postvault.CollectionService
}

// NewServer creates a Server. Callers fill in the service fields, then call
// Start. Debug mode enables gin's request logging and verbose router output.
func NewServer(debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.New(),
		Logger: slog.Default(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.logRequests())

	s.router.GET("/health", s.handleHealth)

	// Extension endpoints are called cross-origin from the browser, so they
	// carry CORS headers and answer preflight with 204.
	ext := s.router.Group("/api/extension", s.cors())
	ext.OPTIONS("/save", s.handlePreflight)
	ext.POST("/save", s.handleSave)
	ext.OPTIONS("/quota", s.handlePreflight)
	ext.GET("/quota", s.handleQuota)

	api := s.router.Group("/api")
	api.POST("/posts/save", s.handleSave)
	api.POST("/posts/extract", s.handleExtract)

	library := api.Group("", s.requireUser())
	library.GET("/posts", s.handleListSavedPosts)
	library.GET("/posts/:id", s.handleGetSavedPost)
	library.PATCH("/posts/:id", s.handleUpdateSavedPost)
	library.DELETE("/posts/:id", s.handleDeleteSavedPost)
	library.GET("/collections", s.handleListCollections)
	library.POST("/collections", s.handleCreateCollection)
	library.DELETE("/collections/:id", s.handleDeleteCollection)

	return s
}

// Router returns the underlying gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.Addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	s.Logger.Info("starting HTTP server", "addr", s.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.Logger.Info("HTTP server stopped")
	return nil
}

// logRequests logs one line per request.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.Logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

// cors sets the headers the browser extension needs. The extension runs on
// arbitrary pages, so the origin cannot be pinned.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Next()
	}
}

func (s *Server) handlePreflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFromCode maps application error codes to HTTP status codes.
func statusFromCode(code string) int {
	switch code {
	case postvault.EINVALID:
		return http.StatusBadRequest
	case postvault.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case postvault.EQUOTA:
		return http.StatusPaymentRequired
	case postvault.ENOTFOUND:
		return http.StatusNotFound
	case postvault.ECONFLICT:
		return http.StatusConflict
	case postvault.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// error writes an error response. Internal errors are logged with the full
// chain but surface only a generic message.
func (s *Server) error(c *gin.Context, err error) {
	code := postvault.ErrorCode(err)
	if code == postvault.EINTERNAL {
		s.Logger.Error("internal error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", err,
		)
	}
	c.JSON(statusFromCode(code), gin.H{
		"code":  code,
		"error": postvault.ErrorMessage(err),
	})
}
