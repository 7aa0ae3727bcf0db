// Package config loads and validates shelfstack's environment configuration.
// Load reads the environment exactly once and returns an explicit struct;
// there is no package-level state, so tests may construct isolated
// configurations.
package config

import (
	"fmt"

	"github.com/shelfstack/shelfstack/internal/db"

	"github.com/spf13/viper"
)

const (
	keyEnvironment = "NODE_ENV"
	keyPort        = "PORT"
	keyJWTSecret   = "JWT_SECRET"

	keyPGHost     = "PG_HOST"
	keyPGUser     = "PG_USER"
	keyPGDB       = "PG_DB"
	keyPGPassword = "PG_PASSWORD"
	keyPGPort     = "PG_PORT"
	keyPGSSL      = "PG_SSL"

	keyLocalPGHost     = "LOCAL_PG_HOST"
	keyLocalPGUser     = "LOCAL_PG_USER"
	keyLocalPGDB       = "LOCAL_PG_DB"
	keyLocalPGPassword = "LOCAL_PG_PASSWORD"
	keyLocalPGPort     = "LOCAL_PG_PORT"
)

// Environment names a connection profile.
type Environment string

const (
	EnvLocal      Environment = "local"
	EnvProduction Environment = "production"
)

// Config is the validated configuration for one process.
type Config struct {
	Env       Environment
	Port      int
	JWTSecret string
	Database  db.Config
}

// Load reads the process environment and returns a validated Config. A
// missing signing secret or an incomplete production database profile is an
// error here, at startup, never per-request.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	loadDefaults(v)

	env := EnvLocal
	if v.GetString(keyEnvironment) == "production" {
		env = EnvProduction
	}

	cfg := &Config{
		Env:       env,
		Port:      v.GetInt(keyPort),
		JWTSecret: v.GetString(keyJWTSecret),
		Database:  database(v, env),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, 4000)
	v.SetDefault(keyLocalPGHost, "localhost")
	v.SetDefault(keyLocalPGUser, "postgres")
	v.SetDefault(keyLocalPGDB, "postgres")
	v.SetDefault(keyLocalPGPassword, "postgres")
	v.SetDefault(keyLocalPGPort, 5432)
	v.SetDefault(keyPGPort, 5432)
}

func database(v *viper.Viper, env Environment) db.Config {
	if env == EnvProduction {
		return db.Config{
			Host:     v.GetString(keyPGHost),
			Port:     v.GetInt(keyPGPort),
			User:     v.GetString(keyPGUser),
			Password: v.GetString(keyPGPassword),
			Database: v.GetString(keyPGDB),
			SSL:      v.GetBool(keyPGSSL),
		}
	}
	return db.Config{
		Host:     v.GetString(keyLocalPGHost),
		Port:     v.GetInt(keyLocalPGPort),
		User:     v.GetString(keyLocalPGUser),
		Password: v.GetString(keyLocalPGPassword),
		Database: v.GetString(keyLocalPGDB),
	}
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("configuration invalid; %s is empty", keyJWTSecret)
	}

	if c.Env == EnvProduction {
		switch {
		case c.Database.Host == "":
			return fmt.Errorf("configuration invalid; %s is empty", keyPGHost)
		case c.Database.User == "":
			return fmt.Errorf("configuration invalid; %s is empty", keyPGUser)
		case c.Database.Password == "":
			return fmt.Errorf("configuration invalid; %s is empty", keyPGPassword)
		case c.Database.Database == "":
			return fmt.Errorf("configuration invalid; %s is empty", keyPGDB)
		}
	}
	return nil
}
