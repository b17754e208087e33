package config

import (
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinSecretLength is the length below which the signing secret is reported as weak.
const MinSecretLength = 32

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	Port        int    `env:"PORT,required,notEmpty"`
	FrontendURL string `env:"FRONTEND_URL,required,notEmpty"`
	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`

	Admin AdminAccount

	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	UploadDir      string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`
	HashWorkers    int           `env:"HASH_WORKERS" envDefault:"0"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	DBMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"user_events"`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX" envDefault:"users"`
}

// AdminAccount is the administrator guaranteed to exist after startup.
type AdminAccount struct {
	Firstname string `env:"ADMIN_FIRSTNAME,required,notEmpty"`
	Lastname  string `env:"ADMIN_LASTNAME,required,notEmpty"`
	Email     string `env:"ADMIN_EMAIL,required,notEmpty"`
	Password  string `env:"ADMIN_PASSWORD,required,notEmpty"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return Parse(env.Options{})
}

func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.JWTSecret) < MinSecretLength {
		slog.Warn("JWT_SECRET is shorter than recommended", "min_length", MinSecretLength)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LogValue keeps secrets and credentials out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("port", c.Port),
		slog.String("frontend_url", c.FrontendURL),
		slog.String("log_level", c.LogLevel),
		slog.String("upload_dir", c.UploadDir),
		slog.Int("bcrypt_cost", c.BcryptCost),
		slog.Int("db_max_open_conns", c.DBMaxOpenConns),
		slog.Bool("kafka_enabled", len(c.KafkaBrokers) > 0),
		slog.Bool("elasticsearch_enabled", c.ESURL != ""),
		slog.String("admin_email", c.Admin.Email),
	)
}
