// =============================================================================
// InventoryGen - Main Entry Point
// =============================================================================
//
// USAGE:
//   inventorygen generate   - Generate inventory files from manifests
//   inventorygen validate   - Check manifests without writing anything
//   inventorygen version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/inventory  : The inventory document model
//   - internal/xmlwriter  : XML serialization
//   - internal/manifest   : YAML, CSV and XLSX manifest readers
//   - internal/converter  : Manifest to inventory pipeline
//   - pkg/utils           : File system helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/inventorygen/cmd"
)

func main() {
	cmd.Execute()
}
