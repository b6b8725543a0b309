// =============================================================================
// InventoryGen - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the configuration
// file. It holds the directory layout, the XML output settings, the manifest
// parsing settings and the field transformation rules.
//
// CONFIGURATION FILE:
//   config.yaml: Global application settings. Every key is optional; a
//   missing file at the default location simply means "use the defaults".
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ginjaninja78/inventorygen/internal/inventory"
	"github.com/ginjaninja78/inventorygen/internal/xmlwriter"
	"gopkg.in/yaml.v3"
)

// Rule targets besides the PaperInfo element names.
const (
	RuleFieldID        = "id"
	RuleFieldLanguages = "languages"
)

// Timestamp zones accepted by XMLSettings.TimestampZone.
const (
	TimestampZoneUTC   = "utc"
	TimestampZoneLocal = "local"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for manifests when no manifest is
	// named on the command line.
	// Default: "./manifests"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where generated inventory files are placed.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where manifests are moved after their inventory has
	// been written. Empty disables archival.
	// Default: ""
	InputArchiveDir string `yaml:"input_archive_dir"`

	// ArchiveTimestampSubdirs files archived manifests under dated
	// subdirectories, e.g. input_archive/2024/01/15/batch.csv.
	// Default: false
	ArchiveTimestampSubdirs bool `yaml:"archive_timestamp_subdirs"`

	// ManifestPatterns are the glob patterns matched against file names in
	// InputDir.
	// Default: ["*.yaml", "*.yml", "*.csv", "*.xlsx"]
	ManifestPatterns []string `yaml:"manifest_patterns"`

	// =========================================================================
	// INVENTORY SETTINGS
	// =========================================================================

	// Project is the project name used when a manifest does not declare one.
	// If both are empty, the manifest's file name is used.
	Project string `yaml:"project"`

	// OutputFileFormat defines the names of generated files.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {project}   - Project name
	//   {original}  - Manifest file name without extension
	//   {ext}       - Manifest extension without the dot (e.g. "csv")
	// Two manifests of a run may not resolve to the same file; the second
	// one fails instead of overwriting the first.
	// Default: "{original}.xml"
	OutputFileFormat string `yaml:"output_file_format"`

	// GenerateMissingIDs assigns a random UUID to documents without an id.
	// When false, such documents get an empty <id/>.
	GenerateMissingIDs bool `yaml:"generate_missing_ids"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. Empty logs to stderr.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of manifests processed at once.
	// Each manifest builds its own inventory, so they never share state.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// StopOnError stops scheduling further manifests after the first failure.
	// Default: false
	StopOnError bool `yaml:"stop_on_error"`

	// XML contains the output serialization settings.
	XML XMLSettings `yaml:"xml"`

	// CSVSettings contains settings for CSV manifests.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// TransformationRules rewrite manifest values before the inventory is
	// built. Rules are applied in order.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`
}

// =============================================================================
// XML SETTINGS STRUCTURE
// =============================================================================

// XMLSettings controls how inventories are written.
type XMLSettings struct {
	// Indent is the indentation unit.
	// Default: "  " (two spaces)
	Indent string `yaml:"indent"`

	// Compact writes the document on a single line and ignores Indent.
	Compact bool `yaml:"compact"`

	// OmitDeclaration drops the <?xml ...?> line.
	OmitDeclaration bool `yaml:"omit_declaration"`

	// Encoding is the output character encoding.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// TimestampZone selects how <creationDate> is stamped.
	//   "utc"   - the current time converted to UTC
	//   "local" - local wall-clock time, still suffixed with "Z", as older
	//             inventories were
	// Default: "utc"
	TimestampZone string `yaml:"timestamp_zone"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV manifests.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// LanguageSeparator splits the "languages" column into codes.
	// Default: ";"
	LanguageSeparator string `yaml:"language_separator"`

	// Encoding is the character encoding of the file.
	// Common values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a specific field.
type TransformationRule struct {
	// Field is the PaperInfo element name (e.g. "month"), "id", or
	// "languages" to rewrite each language code.
	Field string `yaml:"field"`

	// Actions is a list of transformations to apply to this field.
	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply. With Field "languages"
	// each code is rewritten; a document without languages counts as one
	// empty code, so "if_empty_use_default" can add a default language.
	// Supported types:
	//   - "prepend_string"       : Add Value to the beginning
	//   - "append_string"        : Add Value to the end
	//   - "trim"                 : Remove leading and trailing whitespace
	//   - "uppercase"            : Convert to uppercase
	//   - "lowercase"            : Convert to lowercase
	//   - "replace"              : Replace Find with Value
	//   - "regex_replace"        : Replace pattern Find with Value
	//   - "pad_zeros_to_length"  : Left-pad with zeros to length Value
	//   - "remove_leading_zeros" : Strip leading zeros
	//   - "format_date"          : Reformat a date, Value is "in|out"
	//   - "lookup"               : Replace through LookupTable
	//   - "lookup_with_default"  : Like lookup, Value when not found
	//   - "if_empty_use_default" : Use Value when the field is empty
	Type string `yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `yaml:"value"`

	// Find is used for "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable is used for "lookup" transformations.
	// Example:
	//   lookup_table:
	//     "french": "fr"
	//     "german": "de"
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// LoadMainConfigOrDefault is LoadMainConfig, except that a file that does
// not exist yields Default().
func LoadMainConfigOrDefault(configPath string) (*MainConfig, error) {
	config, err := LoadMainConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// ParseMainConfig parses YAML configuration data.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./manifests"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if len(config.ManifestPatterns) == 0 {
		config.ManifestPatterns = []string{"*.yaml", "*.yml", "*.csv", "*.xlsx"}
	}
	if config.OutputFileFormat == "" {
		config.OutputFileFormat = "{original}.xml"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}

	// XML defaults.
	if config.XML.Indent == "" {
		config.XML.Indent = "  "
	}
	if config.XML.Encoding == "" {
		config.XML.Encoding = "UTF-8"
	}
	if config.XML.TimestampZone == "" {
		config.XML.TimestampZone = TimestampZoneUTC
	}
	config.XML.TimestampZone = strings.ToLower(config.XML.TimestampZone)

	// CSV settings defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.LanguageSeparator == "" {
		config.CSVSettings.LanguageSeparator = ";"
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.XML.TimestampZone {
	case TimestampZoneUTC, TimestampZoneLocal:
	default:
		return fmt.Errorf("xml.timestamp_zone must be %q or %q, got %q",
			TimestampZoneUTC, TimestampZoneLocal, config.XML.TimestampZone)
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}

	for i, rule := range config.TransformationRules {
		if rule.Field == "" {
			return fmt.Errorf("transformation_rules[%d]: field is required", i)
		}
		if !isRuleTarget(rule.Field) {
			return fmt.Errorf("transformation_rules[%d]: unknown field %q", i, rule.Field)
		}
	}

	return nil
}

// isRuleTarget reports whether a transformation rule may name field.
func isRuleTarget(field string) bool {
	return field == RuleFieldID || field == RuleFieldLanguages || inventory.IsFieldName(field)
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// XMLOptions returns the serializer options described by the XML settings.
func (c *MainConfig) XMLOptions() xmlwriter.Options {
	options := xmlwriter.Options{
		Indent:             c.XML.Indent,
		IncludeDeclaration: !c.XML.OmitDeclaration,
		Encoding:           c.XML.Encoding,
	}
	if c.XML.Compact {
		options.Indent = ""
	}
	return options
}

// LocalTimestamp reports whether creation dates use local wall-clock time.
func (c *MainConfig) LocalTimestamp() bool {
	return c.XML.TimestampZone == TimestampZoneLocal
}
