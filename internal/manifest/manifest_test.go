package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func defaultSettings() config.CSVSettings {
	return config.Default().CSVSettings
}

func TestParseYAML(t *testing.T) {
	data := `
project: BnL
documents:
  - id: doc-1
    paperInfo:
      title: Le Journal
      year: 1912
      callNumber: LB-42
      languages: [fr, de]
  - id: doc-2
`
	m, err := ParseYAML([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "BnL", m.Project)
	require.Len(t, m.Entries, 2)

	first := m.Entries[0]
	assert.Equal(t, "doc-1", first.ID)
	assert.Equal(t, 1, first.SourceRow)
	assert.Equal(t, "Le Journal", first.Fields["title"])
	assert.Equal(t, "1912", first.Fields["year"])
	assert.Equal(t, "LB-42", first.Fields["callNumber"])
	assert.Equal(t, []string{"fr", "de"}, first.Languages)

	second := m.Entries[1]
	assert.Equal(t, "doc-2", second.ID)
	assert.Empty(t, second.Fields)
	assert.Empty(t, second.Languages)
}

func TestParseYAMLNormalizesFieldCase(t *testing.T) {
	m, err := ParseYAML([]byte("documents:\n  - paperInfo:\n      SUBTITLE: x\n"))
	require.NoError(t, err)
	assert.Equal(t, "x", m.Entries[0].Fields["subTitle"])
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown field", data: "documents:\n  - paperInfo:\n      author: Hugo\n"},
		{name: "id inside paperInfo", data: "documents:\n  - paperInfo:\n      id: x\n"},
		{name: "malformed", data: "documents: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestReadCSV(t *testing.T) {
	data := "\ufeffID, Title ,year,Languages,\n" +
		"doc-1,Le Journal,1912,fr; de,ignored\n" +
		",,,,\n" +
		"doc-2,L'Indépendance,,,\n"

	m, err := ReadCSV(strings.NewReader(data), defaultSettings())
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	first := m.Entries[0]
	assert.Equal(t, "doc-1", first.ID)
	assert.Equal(t, 2, first.SourceRow)
	assert.Equal(t, map[string]string{"title": "Le Journal", "year": "1912"}, first.Fields)
	assert.Equal(t, []string{"fr", "de"}, first.Languages)

	second := m.Entries[1]
	assert.Equal(t, 4, second.SourceRow)
	assert.Equal(t, "L'Indépendance", second.Fields["title"])
	assert.Nil(t, second.Languages)
}

func TestReadCSVDelimiterAndSeparator(t *testing.T) {
	settings := defaultSettings()
	settings.Delimiter = "tab"
	settings.LanguageSeparator = "|"

	m, err := ReadCSV(strings.NewReader("id\tlanguages\nx\tlb|fr|lb\n"), settings)
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, []string{"lb", "fr", "lb"}, m.Entries[0].Languages)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "unknown column", data: "id,author\n1,Hugo\n"},
		{name: "duplicate column", data: "title,Title\na,b\n"},
		{name: "blank header", data: ",,\na,b,c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data), defaultSettings())
			assert.Error(t, err)
		})
	}
}

func TestLoadCSVLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.csv")
	content := append([]byte("id,title\n1,Luxembourg "), 0xE9, 'd', '.', '\n')
	require.NoError(t, os.WriteFile(path, content, 0644))

	settings := defaultSettings()
	settings.Encoding = "ISO-8859-1"

	m, err := Load(path, settings)
	require.NoError(t, err)
	assert.Equal(t, path, m.SourceFile)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "Luxembourg éd.", m.Entries[0].Fields["title"])
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"id", "title", "publisher", "languages"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"doc-1", "Luxemburger Wort", "Saint-Paul", "de;fr"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"doc-2", "Tageblatt"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	m, err := Load(path, defaultSettings())
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	assert.Equal(t, "doc-1", m.Entries[0].ID)
	assert.Equal(t, "Saint-Paul", m.Entries[0].Fields["publisher"])
	assert.Equal(t, []string{"de", "fr"}, m.Entries[0].Languages)
	assert.Equal(t, "Tageblatt", m.Entries[1].Fields["title"])
	assert.Empty(t, m.Entries[1].Fields["publisher"])
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yml")
	require.NoError(t, os.WriteFile(path, []byte("project: BnL\ndocuments:\n  - id: a\n"), 0644))

	m, err := Load(path, defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, path, m.SourceFile)
	assert.Equal(t, "BnL", m.Project)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("manifest.json", defaultSettings())
	assert.Error(t, err)
}
