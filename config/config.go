// Package config loads the bot configuration from defaults, an optional YAML
// file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/logging"
	"github.com/iqbalri06/bot-jadwal/media"
)

const (
	StoreMemory   = "memory"
	StoreDatabase = "database"
)

type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	WhatsApp     WhatsAppConfig     `yaml:"whatsapp"`
	Media        MediaConfig        `yaml:"media"`
	SuperAdmin   SuperAdminConfig   `yaml:"superadmin"`
	Conversation ConversationConfig `yaml:"conversation"`
	Admin        AdminConfig        `yaml:"admin"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type WhatsAppConfig struct {
	// SessionDSN is the sqlite3 address of the whatsmeow device store.
	SessionDSN string `yaml:"session_dsn"`
	LogLevel   string `yaml:"log_level"`
}

type MediaConfig struct {
	Dir             string `yaml:"dir"`
	MaxImageBytes   int    `yaml:"max_image_bytes"`
	DownloadTimeout string `yaml:"download_timeout"`
}

type SuperAdminConfig struct {
	Phone string `yaml:"phone"`
	Name  string `yaml:"name"`
}

type ConversationConfig struct {
	// Store is "memory" or "database".
	Store string `yaml:"store"`
}

type AdminConfig struct {
	// Listen is the admin HTTP address. Empty disables the server.
	Listen string `yaml:"listen"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: db.DriverSQLite,
			DSN:    "tasks.db",
		},
		WhatsApp: WhatsAppConfig{
			SessionDSN: "file:session.db?_foreign_keys=on",
			LogLevel:   "warn",
		},
		Media: MediaConfig{
			Dir:             "media",
			MaxImageBytes:   media.MaxImageBytes,
			DownloadTimeout: media.DefaultDownloadTimeout.String(),
		},
		SuperAdmin: SuperAdminConfig{
			Name: "Super Admin",
		},
		Conversation: ConversationConfig{
			Store: StoreMemory,
		},
		Admin: AdminConfig{
			Listen: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error. A .env file in the working directory is
// loaded into the environment first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	// A hosted postgres URL wins over the local sqlite file.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.Driver = db.DriverPostgres
		c.Database.DSN = url
	} else if path := os.Getenv("TASKBOT_DB"); path != "" {
		c.Database.Driver = db.DriverSQLite
		c.Database.DSN = path
	}

	if phone := os.Getenv("SUPERADMIN_PHONE"); phone != "" {
		c.SuperAdmin.Phone = phone
	}
	if name := os.Getenv("SUPERADMIN_NAME"); name != "" {
		c.SuperAdmin.Name = name
	}
	if addr, ok := os.LookupEnv("ADMIN_LISTEN"); ok {
		c.Admin.Listen = addr
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if dir := os.Getenv("MEDIA_DIR"); dir != "" {
		c.Media.Dir = dir
	}
	if store := os.Getenv("CONVERSATION_STORE"); store != "" {
		c.Conversation.Store = strings.ToLower(store)
	}
	if n, err := strconv.Atoi(os.Getenv("MEDIA_MAX_IMAGE_BYTES")); err == nil && n > 0 {
		c.Media.MaxImageBytes = n
	}
}

// GetDownloadTimeout returns the image download bound, falling back to the
// default when the configured value does not parse.
func (c *Config) GetDownloadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Media.DownloadTimeout)
	if err != nil || d <= 0 {
		return media.DefaultDownloadTimeout
	}
	return d
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("invalid database driver: %s (valid: %s, %s)", c.Database.Driver, db.DriverSQLite, db.DriverPostgres)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn not configured")
	}
	if c.WhatsApp.SessionDSN == "" {
		return fmt.Errorf("whatsapp session_dsn not configured")
	}
	switch c.Conversation.Store {
	case StoreMemory, StoreDatabase:
	default:
		return fmt.Errorf("invalid conversation store: %s (valid: %s, %s)", c.Conversation.Store, StoreMemory, StoreDatabase)
	}
	if c.Media.Dir == "" {
		return fmt.Errorf("media dir not configured")
	}
	if c.Media.MaxImageBytes <= 0 {
		return fmt.Errorf("media max_image_bytes must be positive, got %d", c.Media.MaxImageBytes)
	}
	if c.Media.MaxImageBytes > media.MaxFileBytes {
		return fmt.Errorf("media max_image_bytes must not exceed %d", media.MaxFileBytes)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
