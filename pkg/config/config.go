package config

import (
	"fmt"
	"os"
	"time"

	"go-staff-permissions/pkg/validator"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DatabaseOptions is used when DATABASE_URL is not set.
type DatabaseOptions struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"staff_permissions"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`
}

func (d DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

// ServerConfig configures the permission API server (cmd/api, cmd/issue-token).
type ServerConfig struct {
	Port        string        `env:"PORT" envDefault:"3000" validate:"required,numeric"`
	DatabaseURL string        `env:"DATABASE_URL"`
	DB          DatabaseOptions
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"your-super-secret-key-change-in-production" validate:"required"`
	TokenTTL    time.Duration `env:"JWT_TTL" envDefault:"24h" validate:"gt=0"`
	PageSize    int           `env:"CATALOG_PAGE_SIZE" envDefault:"20" validate:"min=1,max=100"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// DSN returns DATABASE_URL when set, otherwise a DSN assembled from the DB_* variables.
func (c *ServerConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DB.ConnectionString()
}

// ClientConfig configures permctl and any other consumer of the permission API.
type ClientConfig struct {
	BaseURL  string        `env:"PERMISSIONS_API_URL" envDefault:"http://localhost:3000/api/v1" validate:"required,url"`
	Token    string        `env:"PERMISSIONS_API_TOKEN"`
	Timeout  time.Duration `env:"PERMISSIONS_API_TIMEOUT" envDefault:"0s" validate:"gte=0"`
	LogLevel string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// LoadEnv loads the given dotenv files, skipping the ones that do not exist.
// It returns how many files were loaded.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(cfg interface{}) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if errs := validator.ValidateStruct(cfg); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("config: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	return nil
}
