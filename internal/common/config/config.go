package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Email    EmailConfig    `mapstructure:"email"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig locates the embedded SQLite store. A single file holds
// the applications and file_uploads tables.
type DatabaseConfig struct {
	Path        string `mapstructure:"path"`
	BusyTimeout int    `mapstructure:"busy_timeout"` // milliseconds
}

// DSN returns the SQLite connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", d.Path, d.BusyTimeout)
}

type UploadsConfig struct {
	Dir               string   `mapstructure:"dir"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// EmailConfig drives the notification dispatcher. Provider selects the
// transport: "smtp" (default) or "ses".
type EmailConfig struct {
	Provider  string     `mapstructure:"provider"`
	From      string     `mapstructure:"from"`
	Recipient string     `mapstructure:"recipient"`
	SMTP      SMTPConfig `mapstructure:"smtp"`
	SES       SESConfig  `mapstructure:"ses"`
	SNS       SNSConfig  `mapstructure:"sns"`
}

type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SESConfig struct {
	Region string `mapstructure:"region"`
}

// SNSConfig enables an optional best-effort SMS alert to the reviewer
// after a successful email notification.
type SNSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Phone   string `mapstructure:"phone"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
