package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Documents DocumentsConfig `yaml:"documents"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid delivery settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret              string `yaml:"secret"`
	AccessTokenMinutes  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenMinutes int    `yaml:"refresh_token_expiry_minutes"`
}

// DocumentsConfig locates the document store and the external
// generation/signing services
type DocumentsConfig struct {
	RootDir      string `yaml:"root_dir"`
	GeneratorURL string `yaml:"generator_url"`
	SignerURL    string `yaml:"signer_url"`
	SignerToken  string `yaml:"signer_token"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendRequestReminders string `yaml:"send_request_reminders"`
	PurgeExpiredSessions string `yaml:"purge_expired_sessions"`
	ReminderAgeDays      int    `yaml:"reminder_age_days"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Documents
	if val := os.Getenv("DOCUMENTS_ROOT_DIR"); val != "" {
		c.Documents.RootDir = val
	}
	if val := os.Getenv("DOCUMENT_SIGNER_URL"); val != "" {
		c.Documents.SignerURL = val
	}
	if val := os.Getenv("DOCUMENT_SIGNER_TOKEN"); val != "" {
		c.Documents.SignerToken = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Email.APIKey == "" {
		return fmt.Errorf("email API key is required")
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenMinutes == 0 {
		c.JWT.AccessTokenMinutes = 60
	}
	if c.JWT.RefreshTokenMinutes == 0 {
		c.JWT.RefreshTokenMinutes = 60 * 24 * 7
	}

	if c.Documents.RootDir == "" {
		return fmt.Errorf("documents root directory is required")
	}
	if c.Documents.SignerURL == "" {
		return fmt.Errorf("document signer URL is required")
	}

	// Scheduler defaults
	if c.Scheduler.SendRequestReminders == "" {
		c.Scheduler.SendRequestReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.PurgeExpiredSessions == "" {
		c.Scheduler.PurgeExpiredSessions = "0 30 2 * * *" // 2:30 AM UTC
	}
	if c.Scheduler.ReminderAgeDays == 0 {
		c.Scheduler.ReminderAgeDays = 7
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
