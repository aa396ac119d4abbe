package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Port    string  `env:"PORT" envDefault:"8080"`
	Env     string  `env:"APP_ENV" envDefault:"development"`
	Mongo   Mongo   `envPrefix:"MONGO_"`
	JWT     JWT     `envPrefix:"JWT_"`
	Upload  Upload  `envPrefix:"UPLOAD_"`
	Archive Archive `envPrefix:"MINIO_"`
}

// Production reports whether the server runs in a production deployment.
// Destructive maintenance endpoints are disabled when it returns true.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Mongo contains database connection parameters.
type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DB" envDefault:"sales_dashboard"`
}

// JWT contains bearer token parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"4h"`
}

// Upload contains spreadsheet upload parameters.
type Upload struct {
	MaxBytes int64  `env:"MAX_BYTES" envDefault:"5242880"`
	Dir      string `env:"DIR" envDefault:"uploads"`
}

// Archive contains object storage parameters for archiving imported
// spreadsheets. Archiving is off unless explicitly enabled.
type Archive struct {
	Enabled   bool   `env:"ENABLED" envDefault:"false"`
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"sales-imports"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
