package config

// WorkbookConfig represents the column configuration of an ERF export
type WorkbookConfig struct {
	RequiredColumns []string
	StatusColumn    string
	RequesterColumn string
}

// SelectorConfig represents the sheet-selection heuristics
type SelectorConfig struct {
	UnnamedColumnRatio float64
	EmptyFirstRowRatio float64
	PivotScanRows      int
	PivotScanCols      int
	PivotMarkers       []string
}

// FilterConfig represents the status filter configuration
type FilterConfig struct {
	TargetStatuses []string
}

// MappingConfig represents the email mapping source configuration
type MappingConfig struct {
	Path       string
	ManualPath string
}

// DirectoryConfig represents the external directory configuration
type DirectoryConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
	Contacts   map[string]string
}

// SMTPConfig represents the SMTP transport configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// DigestConfig represents the digest content configuration
type DigestConfig struct {
	SubjectTemplate string
	DisplayColumns  []string
	TestAddresses   []string
	DemoGroupLimit  int
	TeamName        string
	ContactLines    []string
}

// ExportConfig represents the unmapped export configuration
type ExportConfig struct {
	Dir            string
	UnmappedAction string
}

// GetWorkbook returns the workbook configuration
func (c *Config) GetWorkbook() WorkbookConfig {
	return WorkbookConfig{
		RequiredColumns: c.GetStringSlice("workbook.required_columns"),
		StatusColumn:    c.GetString("workbook.status_column"),
		RequesterColumn: c.GetString("workbook.requester_column"),
	}
}

// GetSelector returns the sheet-selection configuration
func (c *Config) GetSelector() SelectorConfig {
	return SelectorConfig{
		UnnamedColumnRatio: c.GetFloat64("selector.unnamed_column_ratio"),
		EmptyFirstRowRatio: c.GetFloat64("selector.empty_first_row_ratio"),
		PivotScanRows:      c.GetInt("selector.pivot_scan_rows"),
		PivotScanCols:      c.GetInt("selector.pivot_scan_cols"),
		PivotMarkers:       c.GetStringSlice("selector.pivot_markers"),
	}
}

// GetFilter returns the status filter configuration
func (c *Config) GetFilter() FilterConfig {
	return FilterConfig{
		TargetStatuses: c.GetStringSlice("filter.target_statuses"),
	}
}

// GetMapping returns the mapping source configuration
func (c *Config) GetMapping() MappingConfig {
	return MappingConfig{
		Path:       c.GetString("mapping.path"),
		ManualPath: c.GetString("mapping.manual_path"),
	}
}

// GetDirectory returns the external directory configuration
func (c *Config) GetDirectory() DirectoryConfig {
	return DirectoryConfig{
		Type:       c.GetString("directory.type"),
		SQLitePath: c.GetString("directory.sqlite_path"),
		MySQLDSN:   c.GetString("directory.mysql_dsn"),
		Contacts:   c.GetStringMapString("directory.contacts"),
	}
}

// GetSMTP returns the SMTP transport configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Host:     c.GetString("smtp.host"),
		Port:     c.GetInt("smtp.port"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
		FromName: c.GetString("smtp.from_name"),
	}
}

// GetDigest returns the digest content configuration
func (c *Config) GetDigest() DigestConfig {
	return DigestConfig{
		SubjectTemplate: c.GetString("digest.subject_template"),
		DisplayColumns:  c.GetStringSlice("digest.display_columns"),
		TestAddresses:   c.GetStringSlice("digest.test_addresses"),
		DemoGroupLimit:  c.GetInt("digest.demo_group_limit"),
		TeamName:        c.GetString("digest.team_name"),
		ContactLines:    c.GetStringSlice("digest.contact_lines"),
	}
}

// GetExport returns the unmapped export configuration
func (c *Config) GetExport() ExportConfig {
	return ExportConfig{
		Dir:            c.GetString("export.dir"),
		UnmappedAction: c.GetString("export.unmapped_action"),
	}
}
