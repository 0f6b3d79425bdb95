package weather

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	timestampSelector   = "th.meteoSI-header"
	rowSelector         = "table.meteoSI-table > tbody > tr"
	stationNameSelector = "td.meteoSI-th"
)

// Document is a parsed observation page.
type Document struct {
	doc *goquery.Document
}

// Row is one observation table row.
type Row struct {
	sel *goquery.Selection
}

// ParseDocument builds a queryable tree from raw HTML.
func ParseDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Document{doc: doc}, nil
}

// ParseDocumentBytes is ParseDocument over an in-memory body.
func ParseDocumentBytes(body []byte) (*Document, error) {
	return ParseDocument(bytes.NewReader(body))
}

// Timestamp returns the text of the report's timestamp header.
func (d *Document) Timestamp() (string, error) {
	th := d.doc.Find(timestampSelector).First()
	if th.Length() == 0 {
		return "", fmt.Errorf("%w: datetime not found", ErrParse)
	}
	return strings.TrimSpace(th.Text()), nil
}

// Rows returns every observation row in document order. Header or footer
// rows that match the same structure are passed through as-is.
func (d *Document) Rows() []Row {
	sel := d.doc.Find(rowSelector)
	rows := make([]Row, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		rows = append(rows, Row{sel: s})
	})
	return rows
}

// cell returns the trimmed text of the first cell matching m, and false when
// the row has no such cell.
func (r Row) cell(m goquery.Matcher) (string, bool) {
	if r.sel == nil {
		return "", false
	}
	c := r.sel.FindMatcher(m).First()
	if c.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(c.Text()), true
}
