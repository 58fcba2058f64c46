package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/poker-board/internal/tournament"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseCSV reads a header row followed by records. Rows with only blank
// cells are skipped, short rows leave their missing columns absent and
// surplus cells without a header are dropped.
func ParseCSV(r io.Reader) ([]tournament.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []tournament.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing CSV header: %w", err)
	}
	columns := headerColumns(header)

	rows := make([]tournament.Row, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
		if row, ok := makeRow(columns, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ParseHTMLTable reads the first table of a published sheet page. The
// header is the first row naming a known column, or the first row when none
// does. Header cells in rows that also hold data cells are ignored.
func ParseHTMLTable(r io.Reader) ([]tournament.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("parsing HTML: no table found")
	}

	var records [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// Data rows use td; a th beside them is a row label.
		sel := tr.Find("td")
		if sel.Length() == 0 {
			sel = tr.Find("th")
		}
		var cells []string
		sel.Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		if len(cells) > 0 {
			records = append(records, cells)
		}
	})
	if len(records) == 0 {
		return []tournament.Row{}, nil
	}

	headerAt := 0
	for i, rec := range records {
		if namesKnownColumn(rec) {
			headerAt = i
			break
		}
	}
	columns := headerColumns(records[headerAt])

	rows := make([]tournament.Row, 0, len(records)-headerAt-1)
	for _, rec := range records[headerAt+1:] {
		if row, ok := makeRow(columns, rec); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// cellText keeps line breaks from <br> so multi-line prize text survives.
func cellText(cell *goquery.Selection) string {
	cell.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(cell.Text())
}

var knownColumns = map[string]bool{
	tournament.ColDate:             true,
	tournament.ColStartTime:        true,
	tournament.ColLateRegistration: true,
	tournament.ColEntryFee:         true,
	tournament.ColAddOn:            true,
	tournament.ColGuaranteed:       true,
	tournament.ColTotalPrize:       true,
	tournament.ColPrizeList:        true,
	tournament.ColPrizeText:        true,
	tournament.ColTitle:            true,
	tournament.ColShopName:         true,
	tournament.ColArea:             true,
	tournament.ColLink:             true,
}

func namesKnownColumn(cells []string) bool {
	for _, c := range cells {
		if knownColumns[strings.TrimSpace(c)] {
			return true
		}
	}
	return false
}

func headerColumns(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	return columns
}

// makeRow maps a record onto the header. ok is false when every cell is
// blank.
func makeRow(columns, record []string) (tournament.Row, bool) {
	row := make(tournament.Row, len(columns))
	blank := true
	for i, col := range columns {
		if col == "" || i >= len(record) {
			continue
		}
		row[col] = record[i]
		if strings.TrimSpace(record[i]) != "" {
			blank = false
		}
	}
	return row, !blank
}
