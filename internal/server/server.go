// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package server wires configuration, storage and services into the HTTP
// server and runs it.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"github.com/uosw/memberhub/internal/config"
	"github.com/uosw/memberhub/internal/database"
	"github.com/uosw/memberhub/internal/handlers"
	"github.com/uosw/memberhub/internal/i18n"
	authmw "github.com/uosw/memberhub/internal/middleware"
	"github.com/uosw/memberhub/internal/repository"
	"github.com/uosw/memberhub/internal/services/email"
	"github.com/uosw/memberhub/internal/services/session"
	"github.com/uosw/memberhub/internal/services/token"
)

// notifier is the union of the mail capabilities the server hands out.
type notifier interface {
	token.Notifier
	handlers.WelcomeNotifier
}

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	// Refuse to start with a missing or weak signing secret.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository and services
	repo := repository.New(db)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	sessionTTL := time.Duration(cfg.Auth.SessionTTLDays) * 24 * time.Hour

	var mail notifier
	if cfg.SMTP.Host != "" {
		mailer, mailErr := email.NewMailer(&cfg.SMTP, tokenTTL)
		if mailErr != nil {
			return fmt.Errorf("failed to create mailer: %w", mailErr)
		}
		mail = mailer
	} else {
		slog.Warn("SMTP not configured, outbound mail will be logged")
		mail = email.NewLogNotifier()
	}

	tokens := token.NewService(repo, mail, cfg.Server.BaseURL, tokenTTL)
	codec := session.NewCodec(cfg.Auth.SigningSecret, sessionTTL)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, repo, tokens, codec, mail)

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(e *echo.Echo, repo *repository.Repository, tokens *token.Service, codec *session.Codec, mail notifier) {
	authH := handlers.NewAuth(tokens, codec)
	memberH := handlers.NewMembers(repo, mail)
	eventH := handlers.NewEvents(repo)
	reportH := handlers.NewReports(repo)

	e.GET("/health", handlers.Health)

	api := e.Group("/api")

	// Public auth endpoints
	api.POST("/auth/request-login", authH.RequestLogin)
	api.GET("/auth/verify", authH.VerifyLogin)

	// Everything else requires a valid session credential
	protected := api.Group("", authmw.RequireAuth(codec))
	protected.GET("/auth/me", authH.Me)

	protected.GET("/members", memberH.List)
	protected.POST("/members", memberH.Create)
	protected.GET("/members/:id", memberH.Get)
	protected.PUT("/members/:id", memberH.Update)
	protected.DELETE("/members/:id", memberH.Delete)
	protected.GET("/roles", memberH.Roles)
	protected.GET("/workplaces", memberH.Workplaces)

	protected.GET("/events", eventH.List)
	protected.POST("/events", eventH.Create)
	protected.GET("/events/:id", eventH.Get)
	protected.PUT("/events/:id", eventH.Update)
	protected.DELETE("/events/:id", eventH.Delete)
	protected.POST("/events/:id/checkin", eventH.CheckIn)

	protected.GET("/reports/membership", reportH.Membership)
	protected.GET("/reports/attendance", reportH.Attendance)
	protected.GET("/reports/dashboard", reportH.Dashboard)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	// Setup TLS
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	// Channel for server errors
	errChan := make(chan error, 2)

	// HTTP redirect server for ACME mode
	var httpServer *http.Server

	switch tlsResult.Mode {
	case TLSModeOff:
		// Plain HTTP on configured port
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		// HTTPS on :443
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// HTTP redirect server on :80
		httpServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("HTTP→HTTPS redirect active", "addr", ":80")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeSelfSigned, TLSModeManual:
		// HTTPS on configured port
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown main server", "error", err)
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP redirect server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}
