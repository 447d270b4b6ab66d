package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"daily-reconciliation/internal/matching"
)

type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS"`
	Environment   string `env:"ENVIRONMENT"`
	Database      DatabaseConfig
	Migration     MigrationConfig
	Log           LogConfig
	Report        ReportConfig
	Matching      MatchingConfig
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST"`
	Port     int    `env:"DB_PORT"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	Params   string `env:"DB_PARAMS"`
}

type MigrationConfig struct {
	Dir string `env:"MIGRATION_DIR"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"`  // debug, info, warn, error
	Format string `env:"LOG_FORMAT"` // text, json
}

type ReportConfig struct {
	Dir string `env:"REPORT_DIR"`
}

type MatchingConfig struct {
	// InvoiceUTCOffsetSeconds is the invoicing ledger's clock offset east of UTC.
	InvoiceUTCOffsetSeconds int `env:"INVOICE_UTC_OFFSET_SECONDS"`
}

// LoadConfig reads .env from the working directory, then the environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads the dotenv file at path, if present. Environment
// variables override file values and defaults fill the rest.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := &Config{
		ServerAddress: v.GetString("SERVER_ADDRESS"),
		Environment:   v.GetString("ENVIRONMENT"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Params:   v.GetString("DB_PARAMS"),
		},
		Migration: MigrationConfig{
			Dir: v.GetString("MIGRATION_DIR"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Report: ReportConfig{
			Dir: v.GetString("REPORT_DIR"),
		},
		Matching: MatchingConfig{
			InvoiceUTCOffsetSeconds: v.GetInt("INVOICE_UTC_OFFSET_SECONDS"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_PARAMS", "parseTime=true")
	v.SetDefault("MIGRATION_DIR", "migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("REPORT_DIR", "reports")
	v.SetDefault("INVOICE_UTC_OFFSET_SECONDS", matching.DefaultInvoiceUTCOffsetSeconds)
}

// GetDSN returns the MySQL DSN string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Params,
	)
}

// GetMigrationDBURL returns the database URL for migrations
func (c *Config) GetMigrationDBURL() string {
	return "mysql://" + c.GetDSN()
}

// EngineOptions maps the matching settings onto engine options.
func (c *Config) EngineOptions() matching.Options {
	return matching.Options{InvoiceUTCOffsetSeconds: c.Matching.InvoiceUTCOffsetSeconds}
}
