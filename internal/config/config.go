package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/erf-digest/")
	v.AddConfigPath("$HOME/.erf-digest")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("ERF_DIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Workbook defaults: the full scored column list and the two mandatory
	// columns of an ERF export
	v.SetDefault("workbook.required_columns", []string{
		"Plnt", "Ship-To-Plant", "ERF Nr", "Item", "Entered by",
		"Material", "Material Description", "Unit", "ERF Itm Qty",
		"ERF Date", "ERF Sched Line Status", "END", "PO Due Date",
		"Expeditor", "Expeditor Status", "Expeditor Remarks",
	})
	v.SetDefault("workbook.status_column", "ERF Sched Line Status")
	v.SetDefault("workbook.requester_column", "Entered by")

	// Sheet-selection heuristics
	v.SetDefault("selector.unnamed_column_ratio", 0.70)
	v.SetDefault("selector.empty_first_row_ratio", 0.80)
	v.SetDefault("selector.pivot_scan_rows", 5)
	v.SetDefault("selector.pivot_scan_cols", 5)
	v.SetDefault("selector.pivot_markers", []string{
		"column labels", "row labels", "count of", "sum of", "grand total",
	})

	// Status filter defaults
	v.SetDefault("filter.target_statuses", []string{"On order", "Received"})

	// Mapping source defaults
	v.SetDefault("mapping.path", "email_mapping.xlsx")
	v.SetDefault("mapping.manual_path", "")

	// Resolver defaults
	v.SetDefault("resolver.directory_enabled", true)
	v.SetDefault("resolver.directory_pace", "250ms")

	// Directory defaults
	v.SetDefault("directory.type", "static")
	v.SetDefault("directory.sqlite_path", "/data/contacts.db")
	v.SetDefault("directory.mysql_dsn", "user:password@tcp(localhost:3306)/directory")
	v.SetDefault("directory.contacts", map[string]string{})

	// Transport defaults
	v.SetDefault("transport.type", "console")
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 25)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "erf-digest@example.com")
	v.SetDefault("smtp.from_name", "ERF Digest")
	v.SetDefault("smtp.timeout", "30s")

	// Digest defaults
	v.SetDefault("digest.subject_template", "ERF Status Update - %d Items")
	v.SetDefault("digest.display_columns", []string{
		"ERF Nr", "Material", "Material Description", "ERF Itm Qty", "Unit",
		"ERF Sched Line Status", "END", "PO Due Date", "Expeditor",
		"Expeditor Status", "Expeditor Remarks",
	})
	v.SetDefault("digest.test_addresses", []string{})
	v.SetDefault("digest.demo_group_limit", 5)
	v.SetDefault("digest.team_name", "Proto4Lab Team")
	v.SetDefault("digest.contact_lines", []string{})

	// Export defaults
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.unmapped_action", "Add to email mapping file or verify username")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetStringMapString gets a string map value from the configuration
func (c *Config) GetStringMapString(key string) map[string]string {
	return c.v.GetStringMapString(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
