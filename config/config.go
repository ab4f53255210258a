package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/staffhub-api/logger"
)

// Config holds the process configuration, read once at startup
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTAccessSecret       string        `env:"JWT_ACCESS_TOKEN_SECRET,required"`
	JWTAccessTTL          time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRE" envDefault:"1h"`
	JWTRefreshSecret      string        `env:"JWT_REFRESH_TOKEN_SECRET,required"`
	JWTRefreshTTL         time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRE" envDefault:"168h"`
	JWTForgotSecret       string        `env:"JWT_FORGOT_PASSWORD_SECRET,required"`
	JWTForgotTTL          time.Duration `env:"JWT_FORGOT_PASSWORD_EXPIRE" envDefault:"15m"`
	JWTRegistrationSecret string        `env:"JWT_REGISTRATION_SECRET,required"`
	JWTRegistrationTTL    time.Duration `env:"JWT_REGISTRATION_EXPIRE" envDefault:"1h"`
	RefreshCookieSecure   bool          `env:"REFRESH_COOKIE_SECURE" envDefault:"true"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@staffhub.local"`
	AdminContact string `env:"ADMIN_CONTACT_EMAIL"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	// Status id that projects may not be created with
	CancelledStatusID string `env:"CANCELLED_STATUS_ID" envDefault:"6f0c1e2a-5b7d-4c1e-9a3f-0c0ffee0cafe"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@staffhub.local"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogOutput     string `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogPath       string `env:"LOG_PATH" envDefault:"logs"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"30"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// LoadEnv loads environment variables from .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
}

// Load reads .env (if present) and parses the environment into a Config
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// Logging extracts the logger settings
func (c *Config) Logging() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		Output:     c.LogOutput,
		Path:       c.LogPath,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
		Compress:   c.LogCompress,
	}
}

// AllowedOrigins splits CORSOrigins on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// AllowAllOrigins reports whether CORS is open to every origin
func (c *Config) AllowAllOrigins() bool {
	origins := c.AllowedOrigins()
	return len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
}

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
