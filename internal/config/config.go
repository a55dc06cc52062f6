// Package config loads application configuration from config.yaml and the
// environment, and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Enrich EnrichConfig `yaml:"enrich" mapstructure:"enrich"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Sheets SheetsConfig `yaml:"sheets" mapstructure:"sheets"`
	Notion NotionConfig `yaml:"notion" mapstructure:"notion"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the lead table backend.
type StoreConfig struct {
	// Driver is csv, sqlite, or postgres.
	Driver      string `yaml:"driver" mapstructure:"driver"`
	CSVPath     string `yaml:"csv_path" mapstructure:"csv_path"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DSN returns the data source for the configured driver.
func (s StoreConfig) DSN() string {
	switch s.Driver {
	case "sqlite":
		return s.SQLitePath
	case "postgres":
		return s.DatabaseURL
	default:
		return s.CSVPath
	}
}

// EnrichConfig configures site scanning.
type EnrichConfig struct {
	Pages         []string `yaml:"pages" mapstructure:"pages"`
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DelayMillis   int      `yaml:"delay_millis" mapstructure:"delay_millis"`
	UserAgent     string   `yaml:"user_agent" mapstructure:"user_agent"`
	RespectRobots bool     `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// ExportConfig selects the export backend.
type ExportConfig struct {
	// Backend is mock, sheets, or notion.
	Backend string `yaml:"backend" mapstructure:"backend"`
	// MockPath is where the mock backend writes its CSV.
	MockPath string `yaml:"mock_path" mapstructure:"mock_path"`
}

// SheetsConfig holds Google Sheets credentials and target.
type SheetsConfig struct {
	ServiceAccountJSON string `yaml:"service_account_json" mapstructure:"service_account_json"`
	SpreadsheetID      string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	WorksheetName      string `yaml:"worksheet_name" mapstructure:"worksheet_name"`
}

// NotionConfig holds Notion API credentials and the lead database ID.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "csv")
	v.SetDefault("store.csv_path", "data/leads.csv")
	v.SetDefault("store.sqlite_path", "data/leads.db")
	v.SetDefault("enrich.timeout_secs", 5)
	v.SetDefault("enrich.delay_millis", 1500)
	v.SetDefault("enrich.respect_robots", true)
	v.SetDefault("export.backend", "mock")
	v.SetDefault("export.mock_path", "data/exports/latest_export.csv")
	v.SetDefault("sheets.service_account_json", "./service_account.json")
	v.SetDefault("sheets.worksheet_name", "Leads")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
