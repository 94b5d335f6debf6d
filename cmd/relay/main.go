// File: cmd/relay/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smartdevs17/health-sms-relay/internal/config"
	"github.com/smartdevs17/health-sms-relay/internal/metrics"
	"github.com/smartdevs17/health-sms-relay/internal/notify"
	"github.com/smartdevs17/health-sms-relay/internal/relay"
	"github.com/smartdevs17/health-sms-relay/internal/server"
	"github.com/smartdevs17/health-sms-relay/internal/store"
	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// AppVersion contains the application version
const AppVersion = "1.0.0"

// Application represents the main application
type Application struct {
	config         *config.Config
	store          store.EntryStore
	notifier       notify.Notifier
	relay          *relay.Relay
	metricsManager *metrics.Manager
	server         *server.HTTPServer
}

// NewApplication creates a new application instance
func NewApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		config: cfg,
	}

	// Initialize logger
	logCfg := cfg.Logging
	if err := utils.InitLogger(logCfg.Level, logCfg.Format, logCfg.Output, logCfg.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize components
	if err := app.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return app, nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	logger := utils.GetLogger()

	// Entry store. A connect failure is not fatal: credentials may be
	// absent or wrong and the affected operations degrade at call time.
	entryStore, err := store.NewEntryStore(&app.config.Sheets)
	if err != nil {
		return fmt.Errorf("failed to create entry store: %w", err)
	}
	if err := entryStore.Connect(); err != nil {
		logger.Warn("Entry store not reachable at startup", map[string]interface{}{"error": err})
	}
	app.store = entryStore

	// Outbound notifier
	notifier, err := notify.NewNotifier(&app.config.Notify)
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}
	app.notifier = notifier

	// Metrics
	if app.config.Server.EnableMetrics {
		app.metricsManager = metrics.NewManager()
	}

	// Relay
	relayCfg := &relay.RelayConfig{
		Secret:         app.config.Relay.Secret,
		SummaryCount:   app.config.Relay.SummaryCount,
		CheckinMessage: app.config.Relay.CheckinMessage,
	}
	app.relay = relay.NewRelay(relayCfg, app.store, app.notifier, app.metricsManager)

	// HTTP server
	serverCfg := &server.ServerConfig{
		Port:          app.config.Server.Port,
		Host:          app.config.Server.Host,
		ReadTimeout:   app.config.Server.ReadTimeout,
		WriteTimeout:  app.config.Server.WriteTimeout,
		EnableMetrics: app.config.Server.EnableMetrics,
	}
	app.server, err = server.NewHTTPServer(serverCfg, app.relay, app.metricsManager)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return nil
}

// Start starts the application
func (app *Application) Start() error {
	logger := utils.GetLogger()
	logger.Info("Starting health SMS relay", map[string]interface{}{
		"version":     AppVersion,
		"environment": app.config.App.Environment,
	})

	if app.metricsManager != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		app.metricsManager.GetPrometheusMetrics().
			UpdateComponentHealth("entry_store", app.store.Ping(ctx) == nil)
		cancel()
	}

	if err := app.server.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	logger.Info("Health SMS relay started", map[string]interface{}{
		"server_address": fmt.Sprintf("%s:%d", app.config.Server.Host, app.config.Server.Port),
		"spreadsheet":    app.config.Sheets.SpreadsheetName,
		"notify_channel": app.config.Notify.Channel,
	})

	return nil
}

// Stop stops the application gracefully
func (app *Application) Stop() error {
	logger := utils.GetLogger()
	logger.Info("Stopping health SMS relay")

	if app.server != nil {
		if err := app.server.Stop(); err != nil {
			logger.Error("Failed to stop HTTP server", map[string]interface{}{"error": err})
		}
	}

	if app.store != nil {
		if err := app.store.Close(); err != nil {
			logger.Error("Failed to close entry store", map[string]interface{}{"error": err})
		}
	}

	logger.Info("Health SMS relay stopped")
	return nil
}

// CLI Commands

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "health-sms-relay",
	Short:   "Personal Health SMS Bot",
	Long:    `A webhook relay that logs daily health symptom ratings sent via SMS to a Google Sheets spreadsheet and answers simple retrieval queries.`,
	Version: AppVersion,
	RunE:    runRelay,
}

// runRelay is the main command to run the relay
func runRelay(cmd *cobra.Command, args []string) error {
	// Load configuration
	configPath := viper.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create application
	app, err := NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Set up signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	// Start application
	if err := app.Start(); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	// Wait for shutdown signal
	<-signalChan
	fmt.Println("\nReceived shutdown signal, stopping application...")

	// Stop application
	if err := app.Stop(); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}

	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Personal Health SMS Bot %s\n", AppVersion)
	},
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

// validateConfigCmd validates the configuration
var validateConfigCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		fmt.Printf("Configuration is valid!\n")
		fmt.Printf("Environment: %s\n", cfg.App.Environment)
		fmt.Printf("Spreadsheet: %s\n", cfg.Sheets.SpreadsheetName)
		fmt.Printf("Notify channel: %s\n", cfg.Notify.Channel)
		fmt.Printf("Secret configured: %v\n", cfg.Relay.Secret != "")

		return nil
	},
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		fmt.Println("Testing health SMS relay connectivity...")

		// Test the entry store
		fmt.Printf("Testing entry store (%s: %s)...\n",
			cfg.Sheets.Backend, cfg.Sheets.SpreadsheetName)
		entryStore, err := store.NewEntryStore(&cfg.Sheets)
		if err != nil {
			return fmt.Errorf("failed to create entry store: %w", err)
		}
		if err := entryStore.Connect(); err != nil {
			return fmt.Errorf("failed to connect to entry store: %w", err)
		}
		if err := entryStore.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("failed to ping entry store: %w", err)
		}
		fmt.Println("✓ Entry store reachable")

		// Exercise the notifier through the log channel so no real SMS
		// goes out during a connectivity check.
		fmt.Println("Testing notifier (log channel)...")
		logNotifier := notify.NewLogNotifier()
		if err := logNotifier.Send(cmd.Context(), "health-sms-relay connectivity test"); err != nil {
			return fmt.Errorf("failed to send test notification: %w", err)
		}
		fmt.Println("✓ Notifier working")

		if cfg.Notify.Channel == "sms" && cfg.Notify.SendURL == "" {
			fmt.Println("! SMS send URL is not configured; sends will fail at call time")
		}
		if cfg.Relay.Secret == "" {
			fmt.Println("! Trigger secret is not configured; check-in triggers will be rejected")
		}

		fmt.Println("\nAll connectivity tests passed! ✓")
		return nil
	},
}

// init initializes the CLI commands
func init() {
	// Add persistent flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(testCmd)
	configCmd.AddCommand(validateConfigCmd)
}

// main is the entry point
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
