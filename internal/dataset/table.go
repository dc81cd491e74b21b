package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"vivienda/server/internal/models"
)

// table is a header row plus data rows, every row padded to the header width.
type table struct {
	source string
	header []string
	rows   [][]string
	lines  []int // source line of each row, 1-based
	index  map[string]int

	// set for workbooks, whose date cells arrive as serial numbers
	serialDates bool
	date1904    bool
}

// record is one row of the source together with its 1-based line number.
type record struct {
	line   int
	fields []string
}

// readTable reads a comma separated or xlsx file, chosen by extension.
func readTable(path string) (*table, error) {
	var (
		records  []record
		workbook bool
		date1904 bool
		err      error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		workbook = true
		records, date1904, err = readWorkbook(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrDataUnavailable, path, err)
	}

	t, err := newTable(path, records)
	if err != nil {
		return nil, err
	}
	t.serialDates = workbook
	t.date1904 = date1904
	return t, nil
}

func readCSV(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	// rows must match the header width
	reader.FieldsPerRecord = 0

	var records []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
}

// readWorkbook returns the raw, unformatted rows of the first sheet and
// whether the workbook uses the 1904 date system.
func readWorkbook(path string) ([]record, bool, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, false, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	records := make([]record, len(rows))
	for i, row := range rows {
		records[i] = record{line: i + 1, fields: row}
	}
	return records, date1904, nil
}

func newTable(source string, records []record) (*table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header row", models.ErrDataUnavailable, source)
	}

	t := &table{source: source, index: make(map[string]int)}
	for i, name := range records[0].fields {
		key := normalizeColumn(name)
		if key == "" {
			continue
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate column %q", models.ErrDataUnavailable, source, name)
		}
		t.index[key] = i
		t.header = append(t.header, name)
	}

	width := len(records[0].fields)
	for _, rec := range records[1:] {
		if isBlank(rec.fields) {
			continue
		}
		if len(rec.fields) > width {
			return nil, fmt.Errorf("%w: %s: line %d has %d fields, header has %d",
				models.ErrDataUnavailable, source, rec.line, len(rec.fields), width)
		}
		row := make([]string, width)
		copy(row, rec.fields)
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, rec.line)
	}
	return t, nil
}

// require checks the named columns exist.
func (t *table) require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := t.index[normalizeColumn(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s: missing columns %s", models.ErrDataUnavailable, t.source, strings.Join(missing, ", "))
	}
	return nil
}

// get returns the cell of row i in column, which must have been checked with require.
func (t *table) get(i int, column string) string {
	return t.rows[i][t.index[normalizeColumn(column)]]
}

// line returns the source line number of row i.
func (t *table) line(i int) int {
	return t.lines[i]
}

// date parses the date cell of row i. Workbook cells holding a date serial
// are converted with the workbook's date system.
func (t *table) date(i int) (time.Time, error) {
	raw := strings.TrimSpace(t.get(i, ColDate))
	if t.serialDates {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			d, err := excelize.ExcelDateToTime(serial, t.date1904)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: %s: line %d column %s: %v",
					models.ErrDataUnavailable, t.source, t.line(i), ColDate, err)
			}
			y, m, day := d.Date()
			return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), nil
		}
	}

	d, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: line %d column %s: %v",
			models.ErrDataUnavailable, t.source, t.line(i), ColDate, err)
	}
	return d, nil
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
