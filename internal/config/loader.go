// Package config loads service settings from config.yaml with environment
// overrides.
package config

import (
	"log/slog"
	"strings"

	"sheetdrop/internal/db"
	"sheetdrop/internal/storage"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

// LoggingConfig selects slog level and output format.
type LoggingConfig struct {
	Level  string
	Format string
}

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Blob     storage.Config
	Logging  LoggingConfig
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: db.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads config.yaml from configPath and applies environment overrides
// (SHEETDROP_DATABASE_HOST, SHEETDROP_BLOB_BUCKET, ...). A missing file is not
// an error; defaults and env vars apply.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("SHEETDROP")
	// Maps database.host to SHEETDROP_DATABASE_HOST; dots are not valid in
	// shell variable names.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("server.port")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("blob.endpoint")
	v.BindEnv("blob.region")
	v.BindEnv("blob.bucket")
	v.BindEnv("blob.key_id")
	v.BindEnv("blob.secret")
	v.BindEnv("blob.public_base_url")
	v.BindEnv("logging.level")
	v.BindEnv("logging.format")

	if err := v.ReadInConfig(); err != nil {
		slog.Info("no config.yaml found, using defaults and env vars")
	} else {
		slog.Info("loaded config.yaml", "path", v.ConfigFileUsed())
	}

	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("blob.endpoint") {
		cfg.Blob.Endpoint = v.GetString("blob.endpoint")
	}
	if v.IsSet("blob.region") {
		cfg.Blob.Region = v.GetString("blob.region")
	}
	if v.IsSet("blob.bucket") {
		cfg.Blob.Bucket = v.GetString("blob.bucket")
	}
	if v.IsSet("blob.key_id") {
		cfg.Blob.KeyID = v.GetString("blob.key_id")
	}
	if v.IsSet("blob.secret") {
		cfg.Blob.Secret = v.GetString("blob.secret")
	}
	if v.IsSet("blob.public_base_url") {
		cfg.Blob.PublicBaseURL = v.GetString("blob.public_base_url")
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.format") {
		cfg.Logging.Format = v.GetString("logging.format")
	}

	return cfg, nil
}
