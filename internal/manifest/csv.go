package manifest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/types"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// LoadCSV reads a CSV manifest.
//
// PARSING PROCESS:
//   1. Open the file, decoding it to UTF-8 when settings.Encoding says so
//   2. Configure the CSV reader with the configured delimiter
//   3. Resolve the header row to column names
//   4. Convert every non-empty row into an entry
func LoadCSV(path string, settings config.CSVSettings) (*types.Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader, err := decodingReader(bufio.NewReader(file), settings.Encoding)
	if err != nil {
		return nil, err
	}

	m, err := ReadCSV(reader, settings)
	if err != nil {
		return nil, err
	}
	m.SourceFile = path
	return m, nil
}

// ReadCSV reads a UTF-8 CSV manifest from r.
func ReadCSV(r io.Reader, settings config.CSVSettings) (*types.Manifest, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return rowsToManifest("", rows, settings)
}

// decodingReader wraps r so that it yields UTF-8.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	if isUTF8(encoding) {
		return r, nil
	}

	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported manifest encoding %q: %w", encoding, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	// Handle special cases for common delimiters.
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports from spreadsheets often have ragged rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

func isUTF8(encoding string) bool {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
