// =============================================================================
// InventoryGen - Manifest Validation
// =============================================================================
//
// This module lints manifests before they become inventories. It never
// changes what is written: the inventory format accepts any string in any
// field, so every finding here is advisory unless it makes the manifest
// useless (no documents at all).
//
// CHECKS:
//   - Manifest-level: empty project name, no documents
//   - Entry-level: missing or duplicate ids
//   - Field-level: day/month/year must look like numbers in range
//
// ERROR HANDLING:
//   - Findings are collected, not returned one by one
//   - Each finding carries the entry index and source row
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/inventorygen/internal/inventory"
	"github.com/ginjaninja78/inventorygen/internal/types"
)

// Severities, from most to least serious.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is one of SeverityError, SeverityWarning, SeverityInfo.
	Severity string

	// Field is the name of the field concerned, if any.
	Field string

	// Value is the offending value.
	Value string

	// Rule is a short machine-friendly name of the violated check.
	Rule string

	// Message is a human-readable description.
	Message string

	// EntryIndex is the 1-based position of the entry in the manifest.
	// Zero for manifest-level findings.
	EntryIndex int

	// RowNumber is the source row of the entry (for error reporting).
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var location string
	switch {
	case e.EntryIndex == 0:
		location = "Manifest"
	case e.RowNumber > 0:
		location = fmt.Sprintf("Document %d (row %d)", e.EntryIndex, e.RowNumber)
	default:
		location = fmt.Sprintf("Document %d", e.EntryIndex)
	}

	msg := fmt.Sprintf("[%s] %s", strings.ToUpper(e.Severity), location)
	if e.Field != "" {
		msg += fmt.Sprintf(", Field '%s'", e.Field)
	}
	msg += ": " + e.Message
	if e.Value != "" {
		msg += fmt.Sprintf(" (value: '%s')", e.Value)
	}
	return msg
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors (or, with
	// TreatWarningsAsErrors, no warnings either).
	IsValid bool

	// Errors contains all findings in the order they were found.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// EntriesValidated is the number of entries checked.
	EntriesValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning invalidate the manifest.
	TreatWarningsAsErrors bool

	// MissingIDsGenerated lowers missing-id findings to info, for runs that
	// fill in ids themselves.
	MissingIDsGenerated bool
}

// Validator checks manifests.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate checks m with default options.
func Validate(m *types.Manifest, project string) *ValidationResult {
	return NewValidator().ValidateManifest(m, project)
}

// ValidateManifest checks m. project is the name the inventory will carry,
// after defaults have been applied.
func (v *Validator) ValidateManifest(m *types.Manifest, project string) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		EntriesValidated: len(m.Entries),
	}

	if strings.TrimSpace(project) == "" {
		v.add(result, &ValidationError{
			Severity: SeverityWarning,
			Field:    "project",
			Rule:     "project_empty",
			Message:  "project name is empty",
		})
	}

	if len(m.Entries) == 0 {
		v.add(result, &ValidationError{
			Severity: SeverityError,
			Rule:     "no_documents",
			Message:  "manifest lists no documents",
		})
	}

	firstSeen := make(map[string]int)
	for i := range m.Entries {
		entry := &m.Entries[i]
		for _, finding := range v.ValidateEntry(entry) {
			finding.EntryIndex = i + 1
			finding.RowNumber = entry.SourceRow
			v.add(result, finding)
		}

		if entry.ID == "" {
			continue
		}
		if first, exists := firstSeen[entry.ID]; exists {
			v.add(result, &ValidationError{
				Severity:   SeverityWarning,
				Field:      "id",
				Value:      entry.ID,
				Rule:       "duplicate_id",
				Message:    fmt.Sprintf("id already used by document %d", first),
				EntryIndex: i + 1,
				RowNumber:  entry.SourceRow,
			})
			continue
		}
		firstSeen[entry.ID] = i + 1
	}

	return result
}

// ValidateEntry checks a single entry in isolation.
func (v *Validator) ValidateEntry(entry *types.Entry) []*ValidationError {
	var findings []*ValidationError

	if strings.TrimSpace(entry.ID) == "" {
		severity := SeverityWarning
		message := "document has no id"
		if v.options.MissingIDsGenerated {
			severity = SeverityInfo
			message = "document has no id, one will be generated"
		}
		findings = append(findings, &ValidationError{
			Severity: severity,
			Field:    "id",
			Rule:     "id_missing",
			Message:  message,
		})
	}

	ranges := []struct {
		field    string
		min, max int
	}{
		{inventory.FieldDay, 1, 31},
		{inventory.FieldMonth, 1, 12},
		{inventory.FieldYear, 0, 9999},
	}
	for _, r := range ranges {
		value, ok := entry.Fields[r.field]
		if !ok || value == "" {
			continue
		}
		if msg := validateRange(value, r.min, r.max); msg != "" {
			findings = append(findings, &ValidationError{
				Severity: SeverityWarning,
				Field:    r.field,
				Value:    value,
				Rule:     "date_part",
				Message:  msg,
			})
		}
	}

	return findings
}

func (v *Validator) add(result *ValidationResult, finding *ValidationError) {
	result.Errors = append(result.Errors, finding)

	switch finding.Severity {
	case SeverityError:
		result.ErrorCount++
		result.IsValid = false
	case SeverityWarning:
		result.WarningCount++
		if v.options.TreatWarningsAsErrors {
			result.IsValid = false
		}
	}
}

// validateRange checks that value is an integer within [min, max].
func validateRange(value string, min, max int) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Sprintf("Value '%s' is not a valid integer", value)
	}
	if n < min || n > max {
		return fmt.Sprintf("Value %d is outside %d..%d", n, min, max)
	}
	return ""
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
