package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Dataset source kinds.
const (
	SourceFile = "file"
	SourceHTTP = "http"
	SourceS3   = "s3"
)

// Key-value store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Store    StoreConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DataConfig describes where the base GeoJSON collections are read from.
type DataConfig struct {
	Source       string
	Dir          string
	BaseURL      string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3Prefix     string
	S3PathStyle  bool
	PlotsFile    string
	SectionsFile string
	BlocksFile   string
	LoadTimeout  time.Duration
}

// StoreConfig selects the persistent key-value store.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_SOURCE", SourceFile)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DATA_S3_REGION", "us-east-1")
	v.SetDefault("DATA_S3_PATH_STYLE", false)
	v.SetDefault("PLOTS_FILE", "Lots.geojson")
	v.SetDefault("SECTIONS_FILE", "Cemetery_Sections.geojson")
	v.SetDefault("BLOCKS_FILE", "Cemetery_Blocks.geojson")
	v.SetDefault("LOAD_TIMEOUT", "30s")
	v.SetDefault("STORE_DRIVER", StoreSQLite)
	v.SetDefault("SQLITE_PATH", "./data/plotpilot.db")
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "plotpilot")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Data: DataConfig{
			Source:       strings.ToLower(v.GetString("DATA_SOURCE")),
			Dir:          v.GetString("DATA_DIR"),
			BaseURL:      v.GetString("DATA_BASE_URL"),
			S3Bucket:     v.GetString("DATA_S3_BUCKET"),
			S3Region:     v.GetString("DATA_S3_REGION"),
			S3Endpoint:   v.GetString("DATA_S3_ENDPOINT"),
			S3Prefix:     v.GetString("DATA_S3_PREFIX"),
			S3PathStyle:  v.GetBool("DATA_S3_PATH_STYLE"),
			PlotsFile:    v.GetString("PLOTS_FILE"),
			SectionsFile: v.GetString("SECTIONS_FILE"),
			BlocksFile:   v.GetString("BLOCKS_FILE"),
			LoadTimeout:  v.GetDuration("LOAD_TIMEOUT"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(v.GetString("STORE_DRIVER")),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Data.validate(); err != nil {
		return err
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		// Database settings only matter when postgres backs the store.
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, sqlite, postgres (got %q)", c.Store.Driver)
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// UsesPostgres reports whether a database pool must be opened.
func (c *Config) UsesPostgres() bool {
	return c.Store.Driver == StorePostgres
}

func (d DataConfig) validate() error {
	switch d.Source {
	case SourceFile:
		if d.Dir == "" {
			return fmt.Errorf("DATA_DIR is required for the file source")
		}
	case SourceHTTP:
		if d.BaseURL == "" {
			return fmt.Errorf("DATA_BASE_URL is required for the http source")
		}
	case SourceS3:
		if d.S3Bucket == "" {
			return fmt.Errorf("DATA_S3_BUCKET is required for the s3 source")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of file, http, s3 (got %q)", d.Source)
	}
	if d.PlotsFile == "" || d.SectionsFile == "" || d.BlocksFile == "" {
		return fmt.Errorf("PLOTS_FILE, SECTIONS_FILE and BLOCKS_FILE are required")
	}
	if d.LoadTimeout <= 0 {
		return fmt.Errorf("LOAD_TIMEOUT must be positive")
	}
	return nil
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
