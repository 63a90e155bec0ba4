// Package app assembles the credential authority from configuration. It is
// the composition root for the in-process service library: the HTTP layer
// calls New once at startup and holds the returned App for the process
// lifetime. Configuration defects surface here, not per request.
package app

import (
	"context"
	"database/sql"
	"fmt"

	accountrepo "sdms/backend/internal/account/repository"
	"sdms/backend/internal/account/service"
	"sdms/backend/internal/audit"
	auditrepo "sdms/backend/internal/audit/repository"
	"sdms/backend/internal/config"
	"sdms/backend/internal/db"
	"sdms/backend/internal/extauth"
	"sdms/backend/internal/security"
	startuprepo "sdms/backend/internal/startup/repository"
)

// App holds the wired credential authority and its collaborators.
type App struct {
	DB       *sql.DB
	Auth     *service.AuthService
	Accounts *accountrepo.PostgresRepository
	Startups *startuprepo.PostgresRepository
	Audit    *audit.Logger
	Bridge   *extauth.Bridge
}

// New opens the database, loads the signing secret, and wires the credential
// authority. ipExtractor may be nil when the caller has no transport context.
// Any configuration defect is returned here; nothing is retried per request.
func New(ctx context.Context, cfg *config.Config, ipExtractor audit.IPExtractor) (*App, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("app: DATABASE_URL is not set")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app: open database: %w", err)
	}

	secret, err := security.LoadSigningSecret(cfg.JWTSecret)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("app: signing secret: %w", err)
	}
	tokens, err := security.NewTokenProvider(secret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("app: token provider: %w", err)
	}

	bridge := extauth.NewBridge()
	if cfg.GoogleClientID != "" {
		v, err := extauth.NewGoogleVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("app: google verifier: %w", err)
		}
		bridge.Register("google", v)
	}
	if cfg.AppleClientID != "" {
		v, err := extauth.NewAppleVerifier(ctx, cfg.AppleClientID)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("app: apple verifier: %w", err)
		}
		bridge.Register("apple", v)
	}

	accounts := accountrepo.NewPostgresRepository(conn)
	startups := startuprepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn), ipExtractor)

	auth, err := service.NewAuthService(
		accounts,
		startups,
		bridge,
		security.NewHasher(cfg.HashIterations),
		tokens,
		auditLogger,
		cfg.ResetTTL(),
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("app: auth service: %w", err)
	}

	return &App{
		DB:       conn,
		Auth:     auth,
		Accounts: accounts,
		Startups: startups,
		Audit:    auditLogger,
		Bridge:   bridge,
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.DB.Close()
}
