package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "./manifests", c.InputDir)
	assert.Equal(t, "./output", c.OutputDir)
	assert.Empty(t, c.InputArchiveDir)
	assert.Equal(t, []string{"*.yaml", "*.yml", "*.csv", "*.xlsx"}, c.ManifestPatterns)
	assert.Equal(t, "{original}.xml", c.OutputFileFormat)
	assert.Equal(t, 4, c.MaxConcurrency)
	assert.Equal(t, ",", c.CSVSettings.Delimiter)
	assert.Equal(t, ";", c.CSVSettings.LanguageSeparator)
	assert.False(t, c.LocalTimestamp())

	options := c.XMLOptions()
	assert.Equal(t, "  ", options.Indent)
	assert.True(t, options.IncludeDeclaration)
	assert.Equal(t, "UTF-8", options.Encoding)
}

func TestParseMainConfig(t *testing.T) {
	data := `
input_dir: ./in
output_dir: ./out
project: BnL
output_file_format: "{project}_{uuid}.xml"
generate_missing_ids: true
max_concurrency: 2
xml:
  compact: true
  omit_declaration: true
  encoding: ISO-8859-1
  timestamp_zone: LOCAL
csv_settings:
  delimiter: ";"
  language_separator: "|"
transformation_rules:
  - field: month
    actions:
      - type: pad_zeros_to_length
        value: "2"
  - field: languages
    actions:
      - type: lookup
        lookup_table:
          french: fr
`
	c, err := ParseMainConfig([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "./in", c.InputDir)
	assert.Equal(t, "BnL", c.Project)
	assert.True(t, c.GenerateMissingIDs)
	assert.Equal(t, 2, c.MaxConcurrency)
	assert.True(t, c.LocalTimestamp())
	assert.Equal(t, "|", c.CSVSettings.LanguageSeparator)

	options := c.XMLOptions()
	assert.Empty(t, options.Indent)
	assert.False(t, options.IncludeDeclaration)
	assert.Equal(t, "ISO-8859-1", options.Encoding)

	require.Len(t, c.TransformationRules, 2)
	assert.Equal(t, "month", c.TransformationRules[0].Field)
	assert.Equal(t, "pad_zeros_to_length", c.TransformationRules[0].Actions[0].Type)
	assert.Equal(t, "fr", c.TransformationRules[1].Actions[0].LookupTable["french"])
}

func TestParseMainConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad yaml", data: "input_dir: [unclosed"},
		{name: "bad zone", data: "xml:\n  timestamp_zone: mars\n"},
		{name: "bad log level", data: "log_level: loud\n"},
		{name: "negative concurrency", data: "max_concurrency: -1\n"},
		{name: "rule without field", data: "transformation_rules:\n  - actions: []\n"},
		{name: "rule with unknown field", data: "transformation_rules:\n  - field: titel\n    actions: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMainConfig([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestRuleTargets(t *testing.T) {
	for _, field := range []string{"id", "languages", "title", "yearNumber"} {
		_, err := ParseMainConfig([]byte("transformation_rules:\n  - field: " + field + "\n"))
		assert.NoError(t, err, field)
	}

	_, err := ParseMainConfig([]byte("transformation_rules:\n  - field: Title\n"))
	assert.ErrorContains(t, err, `unknown field "Title"`)
}

func TestLoadMainConfigOrDefault(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadMainConfigOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: Eluxemburgensia\n"), 0644))

	c, err = LoadMainConfigOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "Eluxemburgensia", c.Project)

	_, err = LoadMainConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
