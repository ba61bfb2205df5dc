package app

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/sheetsync"
	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Sync configuration. List settings are semicolon separated.
	SpreadsheetID         string
	Sheets                string
	Endpoints             string
	BackupPaths           string
	CredentialsFile       string
	EndpointAuth          string
	EndpointToken         string
	UpdateTimestampColumn bool
	AppendOnly            bool
	AuditMessage          string
	HistoryDB             string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// envBindings maps config keys to the environment variables they are read
// from, first match wins.
var envBindings = map[string][]string{
	"spreadsheet_id":          {"GOOGLE_SHEET_ID", "SPREADSHEET_ID"},
	"sheets":                  {"SHEETS"},
	"endpoints":               {"ENDPOINT", "ENDPOINTS"},
	"backup_paths":            {"BACKUP_PATHS"},
	"credentials_file":        {"CREDENTIALS_FILE"},
	"endpoint_auth":           {"ENDPOINT_AUTH"},
	"endpoint_token":          {"ENDPOINT_TOKEN"},
	"update_timestamp_column": {"UPDATE_TIMESTAMP_COLUMN"},
	"append_only":             {"APPEND_ONLY"},
	"audit_message":           {"AUDIT_MESSAGE"},
	"history_db":              {"HISTORY_DB"},
	"output":                  {"OUTPUT"},
	"no-color":                {"NO_COLOR"},
	"verbose":                 {"VERBOSE"},
	"quiet":                   {"QUIET"},
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or .sheetsync.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.NewConfigError(key, "failed to bind environment", err)
		}
	}

	v.SetDefault("credentials_file", constants.DefaultCredentialsFile)
	v.SetDefault("audit_message", constants.DefaultAuditMessage)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config is fine; an explicit or broken one is not.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", err.Error(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Output:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		SpreadsheetID:         v.GetString("spreadsheet_id"),
		Sheets:                v.GetString("sheets"),
		Endpoints:             v.GetString("endpoints"),
		BackupPaths:           v.GetString("backup_paths"),
		CredentialsFile:       v.GetString("credentials_file"),
		EndpointAuth:          v.GetString("endpoint_auth"),
		EndpointToken:         v.GetString("endpoint_token"),
		UpdateTimestampColumn: v.GetBool("update_timestamp_column"),
		AppendOnly:            v.GetBool("append_only"),
		AuditMessage:          v.GetString("audit_message"),
		HistoryDB:             v.GetString("history_db"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Sheetsync resolves the list settings into pairs and returns the validated
// library configuration.
func (c *Config) Sheetsync() (sheetsync.Config, error) {
	pairs, err := sheetsync.ParsePairLists(c.Endpoints, c.Sheets, c.BackupPaths)
	if err != nil {
		return sheetsync.Config{}, err
	}
	cfg := sheetsync.Config{
		SpreadsheetID:         c.SpreadsheetID,
		Pairs:                 pairs,
		CredentialsFile:       c.CredentialsFile,
		EndpointAuth:          c.EndpointAuth,
		EndpointToken:         c.EndpointToken,
		UpdateTimestampColumn: c.UpdateTimestampColumn,
		AppendOnly:            c.AppendOnly,
		AuditMessage:          c.AuditMessage,
		HistoryDB:             c.HistoryDB,
	}
	if err := cfg.Validate(); err != nil {
		return sheetsync.Config{}, err
	}
	return cfg, nil
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides a variable that is already set, so .env.local is loaded first
// to take precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
