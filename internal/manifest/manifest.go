// =============================================================================
// InventoryGen - Manifest Readers
// =============================================================================
//
// A manifest is a source file listing the documents of one inventory. This
// package reads manifests into types.Manifest; it does not build the XML.
//
// SUPPORTED FORMATS:
//   .yaml/.yml : project name plus a list of documents
//   .csv       : one document per row, header row of column names
//   .xlsx      : first sheet, same layout as CSV
//
// TABULAR COLUMNS:
//   id, languages, and the PaperInfo element names (type, paperID, ...).
//   Header matching ignores case and surrounding whitespace. A column that
//   is none of these is an error so that typos do not silently produce empty
//   elements.
//
// =============================================================================

package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/inventory"
	"github.com/ginjaninja78/inventorygen/internal/types"
)

// Column names that are not PaperInfo fields.
const (
	ColumnID        = "id"
	ColumnLanguages = "languages"
)

// Load reads the manifest at path, choosing the reader by file extension.
func Load(path string, settings config.CSVSettings) (*types.Manifest, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".csv":
		return LoadCSV(path, settings)
	case ".xlsx":
		return LoadXLSX(path, settings)
	default:
		return nil, fmt.Errorf("unsupported manifest type %q", filepath.Ext(path))
	}
}

// =============================================================================
// TABULAR HELPERS
// =============================================================================

// columnIndex maps normalized header names to their canonical spelling.
var columnIndex = func() map[string]string {
	index := map[string]string{
		ColumnID:        ColumnID,
		ColumnLanguages: ColumnLanguages,
		"language":      ColumnLanguages,
	}
	for _, name := range inventory.FieldNames() {
		index[strings.ToLower(name)] = name
	}
	return index
}()

// canonicalColumn returns the canonical name of a header cell.
func canonicalColumn(header string) (string, bool) {
	name, ok := columnIndex[strings.ToLower(strings.TrimSpace(header))]
	return name, ok
}

// resolveHeaders turns a header row into canonical column names. Blank
// header cells map to "" and their column is ignored.
func resolveHeaders(row []string) ([]string, error) {
	headers := make([]string, len(row))
	seen := make(map[string]bool)

	for i, cell := range row {
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		if strings.TrimSpace(cell) == "" {
			continue
		}

		name, ok := canonicalColumn(cell)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", cell)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", cell)
		}
		seen[name] = true
		headers[i] = name
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("header row has no recognised columns")
	}

	return headers, nil
}

// rowToEntry converts one data row into an entry. rowNumber is 1-based.
func rowToEntry(headers, row []string, rowNumber int, languageSeparator string) types.Entry {
	entry := types.Entry{
		Fields:    make(map[string]string),
		SourceRow: rowNumber,
	}

	for i, name := range headers {
		if name == "" {
			continue
		}

		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}

		switch name {
		case ColumnID:
			entry.ID = value
		case ColumnLanguages:
			entry.Languages = splitLanguages(value, languageSeparator)
		default:
			if value != "" {
				entry.Fields[name] = value
			}
		}
	}

	return entry
}

// splitLanguages splits a cell into language codes, dropping blanks.
func splitLanguages(value, separator string) []string {
	if value == "" {
		return nil
	}
	if separator == "" {
		separator = ";"
	}

	var codes []string
	for _, part := range strings.Split(value, separator) {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowsToManifest converts a header row plus data rows into a manifest.
func rowsToManifest(path string, rows [][]string, settings config.CSVSettings) (*types.Manifest, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("manifest is empty")
	}

	headers, err := resolveHeaders(rows[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	m := &types.Manifest{SourceFile: path}
	for i := 1; i < len(rows); i++ {
		if isRowEmpty(rows[i]) {
			continue
		}
		m.Entries = append(m.Entries, rowToEntry(headers, rows[i], i+1, settings.LanguageSeparator))
	}

	return m, nil
}
