// =============================================================================
// InventoryGen - Transformation Engine
// =============================================================================
//
// This module rewrites manifest values before they become PaperInfo fields.
// Typical uses are normalizing catalogue exports: zero-padding day and month,
// mapping language names to codes, trimming stray whitespace.
//
// RULE TARGETS:
//   - any PaperInfo element name (e.g. "month")
//   - "id"
//   - "languages": the actions are applied to every code in turn; a code
//     that becomes empty is dropped. A document without languages is
//     treated as having one empty code.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/inventorygen/internal/config"
	"github.com/ginjaninja78/inventorygen/internal/manifest"
	"github.com/ginjaninja78/inventorygen/internal/types"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles field value transformations.
type Transformer struct {
	rules []config.TransformationRule
}

// NewTransformer creates a new Transformer with the given rules.
func NewTransformer(rules []config.TransformationRule) *Transformer {
	return &Transformer{
		rules: rules,
	}
}

// Transform applies every rule for fieldName, in configuration order.
func (t *Transformer) Transform(fieldName, value string) (string, error) {
	result := value
	for _, rule := range t.rules {
		if rule.Field != fieldName {
			continue
		}
		for _, action := range rule.Actions {
			var err error
			result, err = ApplyTransformation(result, action)
			if err != nil {
				return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
			}
		}
	}
	return result, nil
}

// TransformEntry rewrites an entry in place.
func (t *Transformer) TransformEntry(entry *types.Entry) error {
	if len(t.rules) == 0 {
		return nil
	}

	id, err := t.Transform(manifest.ColumnID, entry.ID)
	if err != nil {
		return fmt.Errorf("field %q: %w", manifest.ColumnID, err)
	}
	entry.ID = id

	done := make(map[string]bool)
	for _, rule := range t.rules {
		field := rule.Field
		if done[field] || field == manifest.ColumnID || field == manifest.ColumnLanguages {
			continue
		}
		done[field] = true

		value, err := t.Transform(field, entry.Fields[field])
		if err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		if value == "" {
			delete(entry.Fields, field)
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]string)
		}
		entry.Fields[field] = value
	}

	codes := entry.Languages
	if len(codes) == 0 {
		// No languages reads as one empty code.
		codes = []string{""}
	}

	languages := entry.Languages[:0:0]
	for _, code := range codes {
		code, err := t.Transform(manifest.ColumnLanguages, code)
		if err != nil {
			return fmt.Errorf("field %q: %w", manifest.ColumnLanguages, err)
		}
		if code != "" {
			languages = append(languages, code)
		}
	}
	entry.Languages = languages

	return nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// ApplyTransformation applies a single transformation action.
func ApplyTransformation(value string, action config.TransformationAction) (string, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "replace":
		// EXAMPLE:
		//   Input: "Imprimerie-Worré"
		//   Action: replace with find "-" and value " "
		//   Output: "Imprimerie Worré"
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		if action.Find == "" {
			return value, nil
		}
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.ReplaceAllString(value, action.Value), nil

	// =========================================================================
	// NUMERIC FORMATTING
	// =========================================================================

	case "pad_zeros_to_length":
		// EXAMPLE:
		//   Input: "4"
		//   Action: pad_zeros_to_length with value "2"
		//   Output: "04"
		// Empty values stay empty so that unset fields remain unset.
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 || value == "" {
			return value, nil
		}
		return PadLeft(value, targetLength, '0'), nil

	case "remove_leading_zeros":
		if value == "" {
			return value, nil
		}
		result := strings.TrimLeft(value, "0")
		if result == "" {
			return "0", nil
		}
		return result, nil

	// =========================================================================
	// DATE/TIME CONVERSIONS
	// =========================================================================

	case "format_date":
		// VALUE FORMAT: "input_format|output_format" in Go layout syntax.
		// Values that do not parse are left untouched.
		parts := strings.Split(action.Value, "|")
		if len(parts) != 2 {
			return value, nil
		}
		t, err := time.Parse(strings.TrimSpace(parts[0]), value)
		if err != nil {
			return value, nil
		}
		return t.Format(strings.TrimSpace(parts[1])), nil

	// =========================================================================
	// LOOKUP TABLE REPLACEMENTS
	// =========================================================================

	case "lookup":
		// EXAMPLE:
		//   Input: "french"
		//   Action: lookup with lookup_table {"french": "fr"}
		//   Output: "fr"
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case "lookup_with_default":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return action.Value, nil

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown transformation type %q", action.Type)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// PadLeft pads a string on the left to a specified length.
func PadLeft(s string, length int, padChar rune) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-len(s)) + s
}
