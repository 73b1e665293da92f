package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr   string
		Prefix string
	}
	Database struct {
		Driver       string
		DSN          string
		MaxOpenConns int
		LogLevel     string
	}
	Auth struct {
		Algorithm       string
		JWTSecret       string
		PrivateKeyPath  string
		PublicKeyPath   string
		TokenTTLMinutes int
		Directory       string
		InactiveUsers   []string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// .env is optional; variables already present in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AUTHDEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.prefix", "/api/v1/demo-auth")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/demo.db")
	v.SetDefault("database.maxopenconns", 1)
	v.SetDefault("database.loglevel", "warn")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.privatekeypath", "")
	v.SetDefault("auth.publickeypath", "")
	v.SetDefault("auth.tokenttlminutes", 15)
	v.SetDefault("auth.directory", "memory")
	v.SetDefault("auth.inactiveusers", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Auth.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Auth.Algorithm))
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Auth.Directory = strings.ToLower(strings.TrimSpace(cfg.Auth.Directory))

	inactive := cfg.Auth.InactiveUsers[:0]
	for _, name := range cfg.Auth.InactiveUsers {
		if name = strings.TrimSpace(name); name != "" {
			inactive = append(inactive, name)
		}
	}
	cfg.Auth.InactiveUsers = inactive

	return cfg, nil
}

// Validate checks the settings the auth server cannot start without.
func (c Config) Validate() error {
	switch c.Auth.Algorithm {
	case "HS256":
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			return fmt.Errorf("auth jwt secret is required for %s", c.Auth.Algorithm)
		}
	case "RS256":
		if c.Auth.PrivateKeyPath == "" || c.Auth.PublicKeyPath == "" {
			return fmt.Errorf("auth private and public key paths are required for %s", c.Auth.Algorithm)
		}
	default:
		return fmt.Errorf("unsupported auth algorithm %q", c.Auth.Algorithm)
	}

	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}

	switch c.Auth.Directory {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unsupported user directory %q", c.Auth.Directory)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Auth.Directory == "sqlite" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("sqlite user directory requires the sqlite database driver")
	}
	return nil
}
