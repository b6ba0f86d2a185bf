// Package config loads the console configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Persistence modes accepted by Auth.Persistence.
const (
	PersistenceLocal  = "local"
	PersistenceMemory = "memory"
)

// Config represents the application configuration structure.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains the host server settings
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// CORSOrigin is the allowed cross-origin caller; empty allows any origin
		CORSOrigin string `env:"HTTP_CORS_ORIGIN" env-default:"" yaml:"corsOrigin"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"accessgate" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"accessgate" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"accessgate" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"2" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Auth configures the identity service and the operator session
	Auth struct {
		// APIKey is the web API key of the identity project
		APIKey string `env:"AUTH_API_KEY" yaml:"apiKey"`
		// ProjectID is the identity project id; it is the ID token audience
		ProjectID string `env:"AUTH_PROJECT_ID" yaml:"projectId"`
		// IdentityURL is the Identity Toolkit base URL (point it at an emulator in development)
		IdentityURL string `env:"AUTH_IDENTITY_URL" env-default:"https://identitytoolkit.googleapis.com" yaml:"identityUrl"`
		// TokenURL is the Secure Token service base URL used to refresh ID tokens
		TokenURL string `env:"AUTH_TOKEN_URL" env-default:"https://securetoken.googleapis.com" yaml:"tokenUrl"`
		// JWKSURL serves the public keys that sign ID tokens
		JWKSURL string `env:"AUTH_JWKS_URL" env-default:"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com" yaml:"jwksUrl"` //nolint: lll
		// PublicKey is an optional PEM RSA public key used instead of JWKSURL
		PublicKey string `env:"AUTH_PUBLIC_KEY" yaml:"publicKey"`
		// PublicKeyID is the key id (kid) PublicKey is registered under
		PublicKeyID string `env:"AUTH_PUBLIC_KEY_ID" env-default:"static" yaml:"publicKeyId"`
		// Persistence is the session persistence mode requested at startup (local or memory)
		Persistence string `env:"AUTH_PERSISTENCE" env-default:"local" yaml:"persistence"`
		// StatePath is the file holding the persisted session credential
		StatePath string `env:"AUTH_STATE_PATH" env-default:".accessgate/session.json" yaml:"statePath"`
		// RequestTimeout bounds every identity service request
		RequestTimeout time.Duration `env:"AUTH_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
	} `yaml:"auth"`

	// Router configures client-side style routing
	Router struct {
		// BasePath is the path prefix all console routes live under
		BasePath string `env:"ROUTER_BASE_PATH" env-default:"/" yaml:"basePath"`
	} `yaml:"router"`

	// Worker configures the background job worker
	Worker struct {
		// MaxWorkers is the number of concurrent access event jobs
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"4" yaml:"maxWorkers"`
	} `yaml:"worker"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Validate reports configuration values that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Auth.Persistence {
	case PersistenceLocal, PersistenceMemory:
	default:
		return fmt.Errorf("unknown auth persistence %q", c.Auth.Persistence)
	}
	if c.Auth.ProjectID == "" {
		return fmt.Errorf("auth projectId is required")
	}
	if c.Auth.StatePath == "" {
		return fmt.Errorf("auth statePath is required")
	}
	if c.Worker.MaxWorkers <= 0 {
		return fmt.Errorf("worker maxWorkers must be positive, got %d", c.Worker.MaxWorkers)
	}

	return nil
}

// Load receives the path for yaml config file and returns a filled, validated Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
