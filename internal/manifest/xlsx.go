package manifest

import (
	"fmt"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/types"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first sheet of a workbook as a manifest. The sheet
// uses the same columns as a CSV manifest; only the language separator is
// taken from settings.
func LoadXLSX(path string, settings config.CSVSettings) (*types.Manifest, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	return rowsToManifest(path, rows, settings)
}
