package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver string
		URI    string
		Name   string
		Path   string
	}
	Auth struct {
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int
	}
	Storage struct {
		Bucket         string
		KeyPrefix      string
		Region         string
		Endpoint       string
		MaxUploadBytes int64
		URLTTL         time.Duration
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file in the working directory.
func Load() (Config, error) {
	// variables already present in the environment win over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "projectshelf")
	v.SetDefault("database.path", "data/projectshelf.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 0)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "portfolio-media")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.maxuploadbytes", 10<<20)
	v.SetDefault("storage.urlttl", 24*time.Hour)
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")

	// names used by existing deployments
	_ = v.BindEnv("database.uri", "SHELF_DATABASE_URI", "MONGO_URL")
	_ = v.BindEnv("auth.jwtsecret", "SHELF_AUTH_JWTSECRET", "JWT_SECRET")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		host, _, err := net.SplitHostPort(cfg.Server.Addr)
		if err != nil {
			host = "0.0.0.0"
		}
		cfg.Server.Addr = net.JoinHostPort(host, port)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth jwt secret is required"))
	}
	if c.Auth.TokenTTL < 0 {
		errs = append(errs, errors.New("auth token ttl must not be negative"))
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" {
			errs = append(errs, errors.New("database uri is required for the mongo driver"))
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if c.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("storage max upload bytes must be positive"))
	}
	return errors.Join(errs...)
}
