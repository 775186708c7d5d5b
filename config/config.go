package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hassam391/stead-backend/models"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port string `env:"PORT,default=5000"`

	StoreDriver string `env:"STORE_DRIVER,default=postgres"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBPort      string `env:"DB_PORT,default=5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"`
	DBSSLMode   string `env:"DB_SSLMODE,default=disable"`

	JWTSecret         string `env:"JWT_SECRET"`
	AuthPublicKeyFile string `env:"AUTH_PUBLIC_KEY_FILE"`
	AuthIssuer        string `env:"AUTH_ISSUER"`
	AuthAudience      string `env:"AUTH_AUDIENCE"`

	// comma separated
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	LogFormat      string `env:"LOG_FORMAT,default=text"`

	RedisURL            string        `env:"REDIS_URL"`
	LeaderboardCacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL,default=30s"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=10"`

	AWSRegion       string `env:"AWS_REGION,default=us-east-1"`
	SESEmail        string `env:"SES_EMAIL"`
	FeedbackEmailTo string `env:"FEEDBACK_EMAIL_TO"`
}

// Load reads an optional .env file and decodes the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBUser == "" || c.DBName == "" {
			return errors.New("DB_USER and DB_NAME are required for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" && c.AuthPublicKeyFile == "" {
		return errors.New("one of JWT_SECRET or AUTH_PUBLIC_KEY_FILE is required")
	}
	return nil
}

func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// InitDB connects to PostgreSQL and migrates the schema.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Metric{},
		&models.ActivityLog{},
		&models.Feedback{},
	)
	if err != nil {
		return nil, fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return db, nil
}
