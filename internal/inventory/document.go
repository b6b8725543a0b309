package inventory

import (
	"github.com/ginjaninja78/inventorygen/internal/xmlwriter"
)

// Document is one catalog entry: an identifier and its paper metadata.
type Document struct {
	id        string
	paperInfo PaperInfo
}

// NewDocument creates a document. A nil info yields a PaperInfo with every
// field empty. The document keeps its own copy of info.
func NewDocument(id string, info *PaperInfo) Document {
	d := Document{id: id}
	if info != nil {
		d.paperInfo = info.clone()
	}
	return d
}

// SetID replaces the identifier. Uniqueness across an inventory is up to
// the caller.
func (d *Document) SetID(id string) {
	d.id = id
}

// ID returns the identifier.
func (d Document) ID() string {
	return d.id
}

// PaperInfo returns a copy of the document's metadata.
func (d Document) PaperInfo() PaperInfo {
	return d.paperInfo.clone()
}

// Element renders <document> with <id> followed by <paperInfo>.
func (d Document) Element() xmlwriter.Element {
	return xmlwriter.Container("document",
		xmlwriter.Text("id", d.id),
		d.paperInfo.Element(),
	)
}

func (d Document) clone() Document {
	d.paperInfo = d.paperInfo.clone()
	return d
}
