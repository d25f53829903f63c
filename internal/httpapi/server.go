package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/pipeline"
)

const shutdownTimeout = 30 * time.Second

// Config configures the HTTP server.
type Config struct {
	Port              string
	MaxUploadBytes    int64
	RequestsPerMinute int
	AllowedOrigins    []string
	UploadDir         string
}

type Server struct {
	engine *gin.Engine
	cfg    Config
	logger logger.Logger
}

// NewServer wires middleware and routes around the pipeline.
func NewServer(cfg Config, p pipeline.Pipeline, log logger.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(CORS(cfg.AllowedOrigins))
	engine.Use(MaxBodySize(cfg.MaxUploadBytes))

	api := NewAPI(cfg, p, log)
	registerRoutes(engine, api, RateLimit(cfg.RequestsPerMinute))

	return &Server{engine: engine, cfg: cfg, logger: log}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
