package inventory

import (
	"github.com/ginjaninja78/inventorygen/internal/xmlwriter"
)

// Element names of the PaperInfo fields, in schema order.
const (
	FieldType            = "type"
	FieldPaperID         = "paperID"
	FieldCallNumber      = "callNumber"
	FieldTitle           = "title"
	FieldTitleCollection = "titleCollection"
	FieldSubTitle        = "subTitle"
	FieldPrinter         = "printer"
	FieldPublisher       = "publisher"
	FieldDay             = "day"
	FieldMonth           = "month"
	FieldYear            = "year"
	FieldIssueNumber     = "issueNumber"
	FieldPages           = "pages"
	FieldYearNumber      = "yearNumber"
)

// fieldNames is the order downstream consumers expect. Do not reorder.
var fieldNames = []string{
	FieldType,
	FieldPaperID,
	FieldCallNumber,
	FieldTitle,
	FieldTitleCollection,
	FieldSubTitle,
	FieldPrinter,
	FieldPublisher,
	FieldDay,
	FieldMonth,
	FieldYear,
	FieldIssueNumber,
	FieldPages,
	FieldYearNumber,
}

// FieldNames returns the PaperInfo element names in schema order.
func FieldNames() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}

// IsFieldName reports whether name is one of the PaperInfo element names.
func IsFieldName(name string) bool {
	for _, n := range fieldNames {
		if n == name {
			return true
		}
	}
	return false
}

// PaperInfo is the descriptive metadata of one paper item.
//
// Every field is optional. Unset fields are still written, as empty
// elements, because consumers of the inventory expect all of them. Dates and
// numbers are kept as the caller gave them.
type PaperInfo struct {
	Type            string
	PaperID         string
	CallNumber      string
	Title           string
	TitleCollection string
	SubTitle        string
	Printer         string
	Publisher       string
	Day             string
	Month           string
	Year            string
	IssueNumber     string
	Pages           string
	YearNumber      string

	Languages Languages
}

// NewPaperInfoFromFields builds a PaperInfo from values keyed by element
// name (see FieldNames). Keys that are not field names are ignored.
func NewPaperInfoFromFields(values map[string]string, languages ...string) PaperInfo {
	p := PaperInfo{
		Type:            values[FieldType],
		PaperID:         values[FieldPaperID],
		CallNumber:      values[FieldCallNumber],
		Title:           values[FieldTitle],
		TitleCollection: values[FieldTitleCollection],
		SubTitle:        values[FieldSubTitle],
		Printer:         values[FieldPrinter],
		Publisher:       values[FieldPublisher],
		Day:             values[FieldDay],
		Month:           values[FieldMonth],
		Year:            values[FieldYear],
		IssueNumber:     values[FieldIssueNumber],
		Pages:           values[FieldPages],
		YearNumber:      values[FieldYearNumber],
	}
	p.Languages = NewLanguages(languages...)
	return p
}

// Values returns the field values in schema order.
func (p PaperInfo) Values() []string {
	return []string{
		p.Type,
		p.PaperID,
		p.CallNumber,
		p.Title,
		p.TitleCollection,
		p.SubTitle,
		p.Printer,
		p.Publisher,
		p.Day,
		p.Month,
		p.Year,
		p.IssueNumber,
		p.Pages,
		p.YearNumber,
	}
}

// Element renders <paperInfo>: the fourteen fields, then <languages>.
func (p PaperInfo) Element() xmlwriter.Element {
	values := p.Values()
	children := make([]xmlwriter.Element, 0, len(fieldNames)+1)
	for i, name := range fieldNames {
		children = append(children, xmlwriter.Text(name, values[i]))
	}
	children = append(children, p.Languages.Element())
	return xmlwriter.Container("paperInfo", children...)
}

func (p PaperInfo) clone() PaperInfo {
	p.Languages = p.Languages.clone()
	return p
}
