package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (HIRAFIE_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (HIRAFIE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	ClientURL   string `default:"http://localhost:3000" usage:"Frontend base URL used in email links" flag:"client-url"`
	JWT         JWTConfig
	SMTP        SMTPConfig
	S3          S3Config
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// JWTConfig controls token signing and lifetimes.
type JWTConfig struct {
	Secret           string        `usage:"HMAC secret for signing JWTs (HIRAFIE_JWT_SECRET)" flag:"jwt-secret"`
	AccessTTL        time.Duration `default:"30m" usage:"Access token lifetime" flag:"jwt-access-ttl"`
	VerifyEmailTTL   time.Duration `default:"10m" usage:"Email verification token lifetime" flag:"jwt-verify-email-ttl"`
	ResetPasswordTTL time.Duration `default:"10m" usage:"Password reset token lifetime" flag:"jwt-reset-password-ttl"`
}

// SMTPConfig controls outgoing email.
type SMTPConfig struct {
	Host      string `usage:"SMTP server host"`
	Port      int    `default:"587" usage:"SMTP server port"`
	Username  string `usage:"SMTP username"`
	Password  string `usage:"SMTP password"`
	From      string `default:"no-reply@hirafie.app" usage:"From address for outgoing email"`
	QueueSize int    `default:"64" usage:"Outgoing email queue size" flag:"smtp-queue-size"`
}

// S3Config controls post media storage.
type S3Config struct {
	Bucket        string `usage:"S3 bucket for post media"`
	Region        string `default:"eu-west-1" usage:"S3 region"`
	Endpoint      string `usage:"Custom S3 endpoint for compatible providers (MinIO, R2)"`
	PublicBaseURL string `usage:"Public base URL media objects are served from" flag:"s3-public-base-url"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "HIRAFIE",
		Files:     []string{"config.yaml", "/etc/hirafie/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set HIRAFIE_DATABASE_URL or DATABASE_URL")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT secret is required: set HIRAFIE_JWT_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's HIRAFIE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
