package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
)

// CSVParser reads pre-extracted lines as page,italic,text rows. An optional
// header row starting with "page" is skipped. Page numbers must not decrease;
// skipped numbers become empty pages.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]doctree.Page, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 3

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "page") {
		records = records[1:]
	}

	var pg pager
	for i, rec := range records {
		n, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("csv row %d: bad page number %q", i+1, rec[0])
		}
		if n < len(pg.pages) {
			return nil, fmt.Errorf("csv row %d: page %d after page %d", i+1, n, len(pg.pages))
		}
		italic, err := parseFlag(rec[1])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		for len(pg.pages) < n {
			pg.next()
		}
		pg.add(rec[2], italic)
	}
	return pg.pages, nil
}

func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("bad italic flag %q", s)
	}
	return b, nil
}
