package app

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/curalinkhq/curalink/internal/ehr/rpc"
	"github.com/curalinkhq/curalink/pkg/jwtx"
)

type Config struct {
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	HTTPPort   int    `mapstructure:"HTTP_PORT"`
	SocketAddr string `mapstructure:"SOCKET_ADDR"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN    string `mapstructure:"DATABASE_DSN"`

	JWTSecretKey string `mapstructure:"JWT_SECRET_KEY"`
	Issuer       string `mapstructure:"EHR_ISSUER"`
	PepperFile   string `mapstructure:"EHR_PEPPER_FILE"`

	AccessTokenTTL      time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	StorageTimeout      time.Duration `mapstructure:"STORAGE_TIMEOUT"`
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`

	SeedDemoData bool `mapstructure:"SEED_DEMO_DATA"`
}

// LoadConfig reads configuration from an optional .env file and the process
// environment. Environment variables win over file values.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("SOCKET_ADDR", rpc.DefaultSocketAddr)
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "ehr.db")
	v.SetDefault("EHR_ISSUER", "curalink-ehr")
	v.SetDefault("EHR_PEPPER_FILE", "pepper")
	v.SetDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL)
	v.SetDefault("STORAGE_TIMEOUT", 5*time.Second)
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second)
	v.SetDefault("SEED_DEMO_DATA", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FORMAT")
	v.BindEnv("HTTP_PORT")
	v.BindEnv("SOCKET_ADDR")
	v.BindEnv("DATABASE_DRIVER")
	v.BindEnv("DATABASE_DSN")
	v.BindEnv("JWT_SECRET_KEY")
	v.BindEnv("EHR_ISSUER")
	v.BindEnv("EHR_PEPPER_FILE")
	v.BindEnv("ACCESS_TOKEN_TTL")
	v.BindEnv("STORAGE_TIMEOUT")
	v.BindEnv("SHUTDOWN_GRACE_PERIOD")
	v.BindEnv("SEED_DEMO_DATA")

	// Try reading .env but don't fail if it is missing
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}

func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

// Validate checks that the configuration is safe to run with. Production
// must bring its own signing key; dev may fall back to an ephemeral one.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be \"sqlite\" or \"postgres\", got %q", c.DatabaseDriver)
	}

	if c.IsProduction() && c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required when ENV=prod; refusing to start with an ephemeral key")
	}
	if c.JWTSecretKey != "" && len(c.JWTSecretKey) < jwtx.MinHS256KeySize {
		return fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes, got %d", jwtx.MinHS256KeySize, len(c.JWTSecretKey))
	}

	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT must be positive, got %s", c.StorageTimeout)
	}

	return nil
}
