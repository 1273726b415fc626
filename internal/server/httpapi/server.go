// Package httpapi exposes the JSON HTTP surface: the four authentication
// endpoints, the bearer-guarded notes CRUD, and a health check.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dberezin/securenotes/internal/logging"
	"github.com/dberezin/securenotes/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Server wires the gin engine to the services and runs the HTTP listener.
type Server struct {
	address   string
	logger    logging.Logger
	auth      *services.AuthService
	notes     *services.NoteService
	jwtSecret []byte
	engine    *gin.Engine
}

func NewServer(address string, l logging.Logger, as *services.AuthService, ns *services.NoteService, secretKey string) *Server {
	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		auth:      as,
		notes:     ns,
		jwtSecret: []byte(secretKey),
	}
	s.engine = s.buildEngine()
	return s
}

// Engine returns the configured router. Exposed for httptest in package tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) buildEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.health)

	r.POST("/signup", s.signUp)
	r.POST("/verify-mfa-setup", s.verifySetup)
	r.POST("/login", s.login)
	r.POST("/verify-mfa-login", s.verifyLogin)

	authorized := r.Group("/notes", s.authRequired)
	authorized.POST("", s.createNote)
	authorized.GET("", s.listNotes)
	authorized.PUT("/:id", s.updateNote)
	authorized.DELETE("/:id", s.deleteNote)

	return r
}

// Run serves until ctx is cancelled, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "API is running")
}
