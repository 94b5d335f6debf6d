// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Sheets  SheetsConfig  `mapstructure:"sheets"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Relay   RelayConfig   `mapstructure:"relay"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port          int           `mapstructure:"port"`
	Host          string        `mapstructure:"host"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	EnableMetrics bool          `mapstructure:"enable_metrics"`
}

// SheetsConfig contains Google Sheets entry store configuration.
// CredentialsJSON holds the service account key inline; CredentialsFile
// points to a key file and is used when the inline value is empty.
type SheetsConfig struct {
	Backend         string        `mapstructure:"backend"` // sheets, memory
	CredentialsJSON string        `mapstructure:"credentials_json"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	SpreadsheetName string        `mapstructure:"spreadsheet_name"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// NotifyConfig contains outbound SMS channel configuration
type NotifyConfig struct {
	Channel        string        `mapstructure:"channel"` // sms, log
	SendURL        string        `mapstructure:"send_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// RelayConfig contains webhook relay behavior configuration
type RelayConfig struct {
	Secret         string `mapstructure:"secret"`
	SummaryCount   int    `mapstructure:"summary_count"`
	CheckinMessage string `mapstructure:"checkin_message"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
	Output string `mapstructure:"output"` // stdout, file
	File   string `mapstructure:"file"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./internal/config")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("HEALTH_RELAY")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override with environment variables if present. These names predate
	// the HEALTH_RELAY prefix and are what the hosting platform injects.
	if creds := os.Getenv("GOOGLE_CREDENTIALS"); creds != "" {
		config.Sheets.CredentialsJSON = creds
	}
	if sendURL := os.Getenv("ANDROID_SEND_URL"); sendURL != "" {
		config.Notify.SendURL = sendURL
	}
	if secret := os.Getenv("CRON_SECRET"); secret != "" {
		config.Relay.Secret = secret
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "health-sms-relay")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	// Server defaults
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.enable_metrics", true)

	// Sheets defaults
	viper.SetDefault("sheets.backend", "sheets")
	viper.SetDefault("sheets.spreadsheet_name", "HealthLog")
	viper.SetDefault("sheets.request_timeout", "30s")

	// Notify defaults
	viper.SetDefault("notify.channel", "sms")
	viper.SetDefault("notify.request_timeout", "30s")

	// Relay defaults
	viper.SetDefault("relay.summary_count", 3)
	viper.SetDefault("relay.checkin_message",
		"How were your symptoms today? Rate urgency (1-10) and describe.")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration. Missing credentials, send URL or
// trigger secret are not validation errors: the corresponding operation
// degrades to failure at call time instead.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in (0, 65535]")
	}
	if c.Sheets.SpreadsheetName == "" {
		return fmt.Errorf("sheets spreadsheet name is required")
	}
	if c.Sheets.Backend != "sheets" && c.Sheets.Backend != "memory" {
		return fmt.Errorf("unsupported sheets backend: %s", c.Sheets.Backend)
	}
	if c.Notify.Channel != "sms" && c.Notify.Channel != "log" {
		return fmt.Errorf("unsupported notify channel: %s", c.Notify.Channel)
	}
	if c.Relay.SummaryCount <= 0 {
		return fmt.Errorf("relay summary count must be positive")
	}
	if c.Relay.CheckinMessage == "" {
		return fmt.Errorf("relay check-in message is required")
	}
	return nil
}
