package inventory

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ginjaninja78/inventorygen/internal/xmlwriter"
)

// CreationDateLayout is the layout of the <creationDate> element.
const CreationDateLayout = "2006-01-02T15:04:05Z"

// Option configures an Inventory at construction.
type Option func(*settings)

type settings struct {
	clock func() time.Time
	local bool
}

// WithClock sets the time source sampled for the creation date.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocalTimestamp formats the creation date in the clock's own location
// instead of converting it to UTC. The trailing "Z" is written either way;
// this exists for consumers of older inventories that were stamped with
// local time.
func WithLocalTimestamp() Option {
	return func(s *settings) {
		s.local = true
	}
}

// Inventory is the top-level document: when it was created, for which
// project, and the documents it lists.
//
// An Inventory is not safe for concurrent use. Callers appending from
// several goroutines must serialize access themselves, otherwise the order
// of documents is undefined.
type Inventory struct {
	creationDate string
	project      string
	documents    []Document
}

// New creates an empty inventory for project. The creation date is taken
// once, here, and never refreshed.
func New(project string, opts ...Option) *Inventory {
	s := settings{clock: time.Now}
	for _, opt := range opts {
		opt(&s)
	}

	now := s.clock()
	if !s.local {
		now = now.UTC()
	}

	return &Inventory{
		creationDate: now.Format(CreationDateLayout),
		project:      project,
	}
}

// AddDocument appends a document built from id and info. A nil info adds a
// document with empty metadata.
func (inv *Inventory) AddDocument(id string, info *PaperInfo) {
	inv.documents = append(inv.documents, NewDocument(id, info))
}

// AppendDocument appends a copy of doc.
func (inv *Inventory) AppendDocument(doc Document) {
	inv.documents = append(inv.documents, doc.clone())
}

// Project returns the project name.
func (inv *Inventory) Project() string {
	return inv.project
}

// CreationDate returns the formatted creation timestamp.
func (inv *Inventory) CreationDate() string {
	return inv.creationDate
}

// Len returns the number of documents.
func (inv *Inventory) Len() int {
	return len(inv.documents)
}

// Documents returns copies of the documents in append order.
func (inv *Inventory) Documents() []Document {
	docs := make([]Document, len(inv.documents))
	for i, d := range inv.documents {
		docs[i] = d.clone()
	}
	return docs
}

// Element renders the whole tree rooted at <inventory>.
func (inv *Inventory) Element() xmlwriter.Element {
	documents := make([]xmlwriter.Element, 0, len(inv.documents))
	for _, d := range inv.documents {
		documents = append(documents, d.Element())
	}

	return xmlwriter.Container("inventory",
		xmlwriter.Text("creationDate", inv.creationDate),
		xmlwriter.Text("project", inv.project),
		xmlwriter.Container("documents", documents...),
	)
}

// Encode serializes the inventory to w.
func (inv *Inventory) Encode(w io.Writer, options xmlwriter.Options) error {
	return xmlwriter.Encode(w, inv.Element(), options)
}

// Write serializes the inventory to filename with the default options.
func (inv *Inventory) Write(filename string) error {
	return inv.WriteWithOptions(filename, xmlwriter.DefaultOptions())
}

// WriteWithOptions serializes the inventory to filename.
//
// The document is rendered in memory first, so an encoding failure never
// touches the file. Errors from the file system are returned as they are;
// the inventory is unchanged and the call may be retried.
func (inv *Inventory) WriteWithOptions(filename string, options xmlwriter.Options) error {
	data, err := xmlwriter.Marshal(inv.Element(), options)
	if err != nil {
		return fmt.Errorf("failed to serialize inventory: %w", err)
	}

	return os.WriteFile(filename, data, 0644)
}
