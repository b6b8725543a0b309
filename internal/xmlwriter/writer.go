// =============================================================================
// InventoryGen - XML Writer Module
// =============================================================================
//
// This module turns an Element tree into XML bytes. Every model type in the
// inventory package renders itself to an Element; nothing here knows about
// inventories, documents or paper metadata.
//
// XML STRUCTURE:
//   Elements carry either a text value or child elements. Attributes are not
//   used by the inventory schema and are not modelled.
//
//   <paperInfo>
//     <type/>                      <!-- Empty value: self-closing element -->
//     <title>Le Journal</title>    <!-- Text value -->
//     <languages>                  <!-- Children -->
//       <language>fr</language>
//     </languages>
//   </paperInfo>
//
// ENCODING:
//   Output is UTF-8 unless Options.Encoding names another charset, in which
//   case the text is converted on the fly and the declaration says so.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	xw "github.com/shabbyrobe/xmlwriter"
	"golang.org/x/text/encoding/htmlindex"
)

// =============================================================================
// ELEMENT TREE
// =============================================================================

// Element is a single XML element. An Element with neither Value nor
// Children is written as an empty, self-closing element.
type Element struct {
	// Name is the local element name.
	Name string

	// Value is the text content. Ignored when Children is not empty.
	Value string

	// Children are written in slice order.
	Children []Element
}

// Text creates an element holding a text value.
func Text(name, value string) Element {
	return Element{Name: name, Value: value}
}

// Container creates an element holding the given children in order.
func Container(name string, children ...Element) Element {
	return Element{Name: name, Children: children}
}

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// Options controls how a tree is serialized.
type Options struct {
	// Indent is the string used for one level of indentation.
	// An empty string writes the document on a single line.
	// Default: "  " (two spaces)
	Indent string

	// IncludeDeclaration writes the <?xml ...?> declaration.
	// Default: true
	IncludeDeclaration bool

	// Encoding is the output character encoding, by its IANA or WHATWG name.
	// Default: "UTF-8"
	Encoding string
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		Indent:             "  ",
		IncludeDeclaration: true,
		Encoding:           "UTF-8",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Marshal serializes root into a byte slice.
func Marshal(root Element, options Options) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, root, options); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Encode serializes root to out.
//
// The writer is buffered; nothing is guaranteed to reach out unless Encode
// returns nil.
func Encode(out io.Writer, root Element, options Options) error {
	if root.Name == "" {
		return fmt.Errorf("root element has no name")
	}

	w, err := open(out, options)
	if err != nil {
		return err
	}

	if options.IncludeDeclaration {
		if err := w.Start(xw.Doc{}); err != nil {
			return fmt.Errorf("failed to write XML declaration: %w", err)
		}
	}

	if err := w.Write(toNode(root)); err != nil {
		return fmt.Errorf("failed to write element %q: %w", root.Name, err)
	}

	if err := w.EndAllFlush(); err != nil {
		return fmt.Errorf("failed to flush XML: %w", err)
	}

	return nil
}

// open creates the underlying stream writer for the requested encoding.
func open(out io.Writer, options Options) (*xw.Writer, error) {
	var writerOptions []xw.Option
	if options.Indent != "" {
		writerOptions = append(writerOptions, xw.WithIndentString(options.Indent))
	}

	if isUTF8(options.Encoding) {
		return xw.Open(out, writerOptions...), nil
	}

	enc, err := htmlindex.Get(options.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported output encoding %q: %w", options.Encoding, err)
	}

	return xw.OpenEncoding(out, options.Encoding, enc.NewEncoder(), writerOptions...), nil
}

// toNode converts an Element into the stream writer's node tree.
func toNode(element Element) xw.Elem {
	node := xw.Elem{Name: element.Name}

	switch {
	case len(element.Children) > 0:
		node.Content = make([]xw.Writable, 0, len(element.Children))
		for _, child := range element.Children {
			node.Content = append(node.Content, toNode(child))
		}
	case element.Value != "":
		node.Content = []xw.Writable{xw.Text(element.Value)}
	}

	return node
}

func isUTF8(encoding string) bool {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
