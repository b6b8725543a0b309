// =============================================================================
// InventoryGen - Inventory Model
// =============================================================================
//
// This package is the object model of an inventory file. Each type mirrors
// one element of the target schema and renders itself to an xmlwriter
// Element; the tree is only built when it is serialized.
//
// OWNERSHIP:
//   Inventory -> Document (many) -> PaperInfo (one) -> Languages (one)
//
//   Values are copied when they enter a parent, so no two trees ever share
//   storage and appending to one Inventory can never change another.
//
// =============================================================================

package inventory

import (
	"github.com/ginjaninja78/inventorygen/internal/xmlwriter"
)

// Languages is an ordered list of language codes. Codes are opaque strings:
// they are neither validated nor deduplicated.
type Languages struct {
	codes []string
}

// NewLanguages creates a list holding codes in the given order.
func NewLanguages(codes ...string) Languages {
	var l Languages
	for _, code := range codes {
		l.Add(code)
	}
	return l
}

// Add appends one language code.
func (l *Languages) Add(code string) {
	l.codes = append(l.codes, code)
}

// Codes returns a copy of the codes in insertion order.
func (l Languages) Codes() []string {
	return l.clone().codes
}

// Len returns the number of codes.
func (l Languages) Len() int {
	return len(l.codes)
}

// Element renders the list as <languages><language>..</language>...</languages>.
func (l Languages) Element() xmlwriter.Element {
	children := make([]xmlwriter.Element, 0, len(l.codes))
	for _, code := range l.codes {
		children = append(children, xmlwriter.Text("language", code))
	}
	return xmlwriter.Container("languages", children...)
}

func (l Languages) clone() Languages {
	if l.codes == nil {
		return Languages{}
	}
	codes := make([]string, len(l.codes))
	copy(codes, l.codes)
	return Languages{codes: codes}
}
