package dashboardapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MarkoPoloResearchLab/logidash/internal/provider"
	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"
	"go.uber.org/zap"
)

// StatusReporter exposes the provider state served on /api/status.
type StatusReporter interface {
	Status() provider.Status
}

// Dependencies are the collaborators the HTTP API serves from.
type Dependencies struct {
	Service *dashboard.Service
	Status  StatusReporter
	Logger  *zap.Logger
}

// Run serves the dashboard API until ctx is cancelled.
func Run(ctx context.Context, cfg Config, deps Dependencies) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	router, err := NewRouter(cfg, deps)
	if err != nil {
		return err
	}
	logger := loggerOrNop(deps.Logger)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard api listening", zap.String("addr", cfg.ListenAddr), zap.Bool("auth", cfg.AuthEnabled()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownGrace)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// NewRouter wires middleware and routes. cfg must already be validated.
func NewRouter(cfg Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("%w: service is nil", dashboard.ErrInvalidServiceConfig)
	}
	logger := loggerOrNop(deps.Logger)
	handler := &httpHandler{
		service: deps.Service,
		status:  deps.Status,
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(requestLoggerMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept", headerRequestID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	if cfg.AuthEnabled() {
		sessionValidator, err := sessionvalidator.New(sessionvalidator.Config{
			SigningKey: []byte(cfg.SessionSigningKey),
			Issuer:     cfg.SessionIssuer,
			CookieName: cfg.SessionCookieName,
		})
		if err != nil {
			return nil, fmt.Errorf("session validator: %w", err)
		}
		api.Use(sessionValidator.GinMiddleware(contextKeyAuthClaims))
		api.GET("/session", handler.handleSession)
	}

	api.GET("/status", handler.handleStatus)
	api.GET("/data", handler.handleData)
	api.GET("/dashboard", handler.handleDashboard)
	api.GET("/accounts", handler.handleAccounts)
	api.GET("/compliance", handler.handleCompliance)

	return router, nil
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
