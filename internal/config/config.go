// =============================================================================
// Ledger Import - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// RESOLUTION ORDER (later wins):
//   1. Built-in defaults
//   2. The YAML configuration file (config.yaml unless --config is given)
//   3. A .env file in the working directory
//   4. Environment variables prefixed with LEDGER_, with "." replaced by "_"
//      (e.g. LEDGER_DIRECTORY_PASSWORD, LEDGER_ORDER_COMPANY_CODE)
//   5. Command-line flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigFile is used when --config is not given. It may be absent.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEDGER"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where the generated XML is written when no explicit output
	// path is given. Empty means next to the input file.
	OutputDir string `mapstructure:"output_dir"`

	// OutputNameFormat defines the output file name.
	// Placeholders:
	//   {stem}      - input file name without extension
	//   {uuid}      - a random UUID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - current date (YYYYMMDD)
	// Default: "{stem}_ledger.xml"
	OutputNameFormat string `mapstructure:"output_name_format"`

	// AuditFileName is the audit trail written next to the XML output.
	// Default: "xml_import_debug.csv"
	AuditFileName string `mapstructure:"audit_file_name"`

	// XMLIndent is the indentation of the generated XML. Empty disables
	// pretty printing. Default: two spaces.
	XMLIndent string `mapstructure:"xml_indent"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is "console" (human readable, default) or "json".
	LogFormat string `mapstructure:"log_format"`

	// =========================================================================
	// DOMAIN SETTINGS
	// =========================================================================

	Order     OrderConfig     `mapstructure:"order"`
	Input     InputConfig     `mapstructure:"input"`
	Columns   ColumnsConfig   `mapstructure:"columns"`
	Directory DirectoryConfig `mapstructure:"directory"`

	// FallbackAccountsFile is the YAML account table used when the external
	// directory is unavailable or empty. Empty means no fallback accounts.
	FallbackAccountsFile string `mapstructure:"fallback_accounts_file"`
}

// OrderConfig holds the order header fields supplied by the user.
type OrderConfig struct {
	// CompanyCode is the company the order is booked for. Required.
	CompanyCode string `mapstructure:"company_code"`

	// Type is the order type name; its numeric id comes from the order type table.
	Type string `mapstructure:"type"`

	// Note is the order note and external number. Blank falls back to the
	// default note.
	Note string `mapstructure:"note"`
}

// InputConfig controls how the journal file is read.
type InputConfig struct {
	// Sheet is the workbook sheet to read. Empty means the first sheet.
	Sheet string `mapstructure:"sheet"`

	// RawCellValues reads stored cell values instead of display-formatted
	// ones, so dates arrive as serial numbers and are never month-first.
	RawCellValues bool `mapstructure:"raw_cell_values"`

	// Delimiter is the CSV field separator. Common values: ",", ";", "tab".
	Delimiter string `mapstructure:"delimiter"`

	// Encoding is the CSV character encoding.
	// Valid values: "UTF-8", "windows-1250", "windows-1252", "ISO-8859-2"
	Encoding string `mapstructure:"encoding"`
}

// ColumnsConfig extends the built-in header synonyms.
type ColumnsConfig struct {
	// Synonyms maps a field name (e.g. "konto") to extra accepted headers.
	Synonyms map[string][]string `mapstructure:"synonyms"`
}

// DirectoryConfig describes the external account directory database.
type DirectoryConfig struct {
	// Enabled turns the external directory on. When off, only the fallback
	// table is used.
	Enabled bool `mapstructure:"enabled"`

	// Driver is "sqlserver" or "pgx".
	Driver string `mapstructure:"driver"`

	// DSN, when set, is passed to the driver unchanged and the connection
	// fields below are ignored. Required for the pgx driver.
	DSN string `mapstructure:"dsn"`

	Server   string `mapstructure:"server"`
	Instance string `mapstructure:"instance"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`

	// WindowsAuth uses integrated authentication instead of Username/Password.
	WindowsAuth bool   `mapstructure:"windows_auth"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`

	// Timeout bounds connecting and querying. Default: 5s.
	Timeout time.Duration `mapstructure:"timeout"`

	// AccountsQuery must return (id, code, name) rows. Empty means the
	// driver's default query.
	AccountsQuery string `mapstructure:"accounts_query"`

	// CompaniesQuery must return (id, code, name) rows.
	CompaniesQuery string `mapstructure:"companies_query"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

var defaults = map[string]any{
	"output_dir":                "",
	"output_name_format":        "{stem}_ledger.xml",
	"audit_file_name":           "xml_import_debug.csv",
	"xml_indent":                "  ",
	"log_level":                 "info",
	"log_format":                "console",
	"order.company_code":        "",
	"order.type":                "Tekući promet",
	"order.note":                "Generisano iz XLSX",
	"input.sheet":               "",
	"input.raw_cell_values":     true,
	"input.delimiter":           ",",
	"input.encoding":            "UTF-8",
	"columns.synonyms":          map[string][]string{},
	"directory.enabled":         false,
	"directory.driver":          "sqlserver",
	"directory.dsn":             "",
	"directory.server":          "GTRS24MPP",
	"directory.instance":        "",
	"directory.port":            1433,
	"directory.database":        "mAS2",
	"directory.windows_auth":    true,
	"directory.username":        "sa",
	"directory.password":        "",
	"directory.timeout":         "5s",
	"directory.accounts_query":  "",
	"directory.companies_query": "",
	"fallback_accounts_file":    "",
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validDrivers = map[string]bool{"sqlserver": true, "pgx": true}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration. configPath may be empty or point
// to a missing DefaultConfigFile, in which case only defaults and the
// environment apply. An explicitly named file that does not exist is an error.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// A missing .env is the normal case; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		_, statErr := os.Stat(configPath)
		switch {
		case statErr == nil:
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		case errors.Is(statErr, os.ErrNotExist) && configPath == DefaultConfigFile:
			// optional default file
		default:
			return nil, fmt.Errorf("failed to read config file: %w", statErr)
		}
	}

	var cfg MainConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyMainConfigDefaults(&cfg)

	if err := validateMainConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyMainConfigDefaults repairs values that were explicitly set to blank.
func applyMainConfigDefaults(cfg *MainConfig) {
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "{stem}_ledger.xml"
	}
	if cfg.AuditFileName == "" {
		cfg.AuditFileName = "xml_import_debug.csv"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = "UTF-8"
	}
	if cfg.Directory.Driver == "" {
		cfg.Directory.Driver = "sqlserver"
	}
	if cfg.Directory.Timeout == 0 {
		cfg.Directory.Timeout = 5 * time.Second
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Directory.Driver = strings.ToLower(cfg.Directory.Driver)
}

// validateMainConfig validates the configuration.
func validateMainConfig(cfg *MainConfig) error {
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return fmt.Errorf("unknown log_format %q", cfg.LogFormat)
	}
	if !validDrivers[cfg.Directory.Driver] {
		return fmt.Errorf("unknown directory.driver %q", cfg.Directory.Driver)
	}
	if cfg.Directory.Timeout < 0 {
		return fmt.Errorf("directory.timeout must be positive")
	}
	if cfg.Directory.Enabled && cfg.Directory.Driver == "pgx" && cfg.Directory.DSN == "" {
		return fmt.Errorf("directory.dsn is required for the pgx driver")
	}
	if !IsKnownEncoding(cfg.Input.Encoding) {
		return fmt.Errorf("unknown input.encoding %q", cfg.Input.Encoding)
	}

	return nil
}

// IsKnownEncoding reports whether a CSV encoding name is supported.
func IsKnownEncoding(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8", "windows-1250", "cp1250", "windows-1252", "cp1252", "iso-8859-2", "latin2":
		return true
	default:
		return false
	}
}
