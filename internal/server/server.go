package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spigell/resume-scorer/internal/jobs"
	"github.com/spigell/resume-scorer/internal/notify"
	"github.com/spigell/resume-scorer/internal/scoring"
	"go.uber.org/zap"
)

const (
	defaultMaxUploadBytes = 10 << 20
	shutdownTimeout       = 10 * time.Second
)

// Config controls the HTTP listener.
type Config struct {
	Addr           string        `mapstructure:"addr" validate:"required"`
	AllowOrigins   []string      `mapstructure:"allow-origins"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `mapstructure:"write-timeout" validate:"gte=0"`
	MaxUploadBytes int64         `mapstructure:"max-upload-bytes" validate:"gte=0"`
	// Threshold is the invitation cutoff handed to notify.Decide.
	Threshold int `mapstructure:"-"`
}

type resumeScorer interface {
	ScoreResume(ctx context.Context, resumeText, jobDescription string, links []string) scoring.EvaluationResult
}

// Server exposes scoring over HTTP.
type Server struct {
	scorer   resumeScorer
	catalog  *jobs.Catalog
	notifier notify.Notifier
	cfg      Config
	logger   *zap.Logger
	router   *gin.Engine
}

func New(scorer resumeScorer, catalog *jobs.Catalog, notifier notify.Notifier, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	if catalog == nil {
		catalog, _ = jobs.NewCatalog(nil)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	s := &Server{
		scorer:   scorer,
		catalog:  catalog,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
	s.router = s.routes()

	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	if len(s.cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", s.health)

	api := router.Group("/api/v1")
	{
		api.GET("/jobs", s.listJobs)
		api.POST("/score", s.score)
		api.POST("/jobs/:id/resumes", s.submitResume)
	}

	return router
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		s.logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
