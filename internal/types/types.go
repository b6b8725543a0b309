// =============================================================================
// InventoryGen - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - manifest
//   - validation
//   - converter
//
// =============================================================================

package types

// =============================================================================
// MANIFEST TYPES
// =============================================================================

// Manifest is the content of one source file, before it becomes an
// inventory.
type Manifest struct {
	// Project is the project name declared by the source, if any.
	Project string

	// SourceFile is the path the manifest was read from.
	SourceFile string

	// Entries are the documents to list, in source order.
	Entries []Entry
}

// Entry is one document described by a manifest.
type Entry struct {
	// ID is the document identifier. It may be empty.
	ID string

	// Fields holds PaperInfo values keyed by element name
	// (e.g. "title", "paperID"). Missing keys are written as empty elements.
	Fields map[string]string

	// Languages are the language codes in source order.
	Languages []string

	// SourceRow is the 1-based row or list position in the source file.
	// Useful for error reporting.
	SourceRow int
}
