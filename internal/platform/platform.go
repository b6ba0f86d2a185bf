// Package platform builds the client context of the console: the auth session
// provider and the database storage, constructed once from configuration and
// handed to the components that need them.
package platform

import (
	"accessgate/internal/authsession"
	"accessgate/internal/config"
	"accessgate/pkg/logger"
	"accessgate/pkg/storage/postgres"
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Platform holds the process wide clients.
type Platform struct {
	Storage  *postgres.PgSQL
	Verifier *authsession.TokenVerifier
	Auth     *authsession.Manager
}

// StorageOptions maps the database settings of cfg to postgres.Options.
func StorageOptions(cfg *config.Config) postgres.Options {
	return postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	}
}

// NewVerifier returns a verifier for the configured PEM public key if one is
// set, and one backed by the JWKS URL otherwise.
func NewVerifier(ctx context.Context, cfg *config.Config, httpClient *http.Client) (*authsession.TokenVerifier, error) {
	if cfg.Auth.PublicKey != "" {
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.Auth.PublicKey))
		if err != nil {
			return nil, fmt.Errorf("could not parse RSA public key: %w", err)
		}

		return authsession.NewStaticVerifier(pub, cfg.Auth.PublicKeyID, cfg.Auth.ProjectID), nil
	}

	v, err := authsession.NewJWKSVerifier(ctx, httpClient, cfg.Auth.JWKSURL, cfg.Auth.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("could not create JWKS verifier: %w", err)
	}

	return v, nil
}

// NewAuth starts the session manager. The initial session is restored from
// the state file; the manager starts in memory mode until the bootstrap
// requests the configured persistence.
func NewAuth(ctx context.Context,
	cfg *config.Config,
	verifier authsession.Verifier,
	httpClient *http.Client) (*authsession.Manager, error) {
	identity := authsession.NewClient(httpClient, authsession.ClientOptions{
		APIKey:      cfg.Auth.APIKey,
		IdentityURL: cfg.Auth.IdentityURL,
		TokenURL:    cfg.Auth.TokenURL,
	})

	m, err := authsession.New(ctx, authsession.Options{
		Identity: identity,
		Verifier: verifier,
		Local:    authsession.NewFileStore(cfg.Auth.StatePath),
		Mode:     authsession.ModeMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create auth session manager: %w", err)
	}

	return m, nil
}

// New connects to the database and starts the session manager. The manager
// outlives ctx cancellation; it stops on Close.
func New(ctx context.Context, cfg *config.Config) (*Platform, error) {
	strg, err := postgres.New(ctx, StorageOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("could not create postgres storage: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Auth.RequestTimeout}

	verifier, err := NewVerifier(ctx, cfg, httpClient)
	if err != nil {
		_ = strg.Close()

		return nil, err
	}

	auth, err := NewAuth(context.WithoutCancel(ctx), cfg, verifier, httpClient)
	if err != nil {
		verifier.Close()
		_ = strg.Close()

		return nil, err
	}

	return &Platform{
		Storage:  strg,
		Verifier: verifier,
		Auth:     auth,
	}, nil
}

// Close stops the session manager and releases the clients.
func (p *Platform) Close(ctx context.Context) {
	logger.Info(ctx, "stopping auth session manager...")
	p.Auth.Close()
	p.Verifier.Close()

	logger.Info(ctx, "closing postgres client...")
	if err := p.Storage.Close(); err != nil {
		logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
	}
}
