package portfolio

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// normalizedTable is the typed, column-oriented form of a mapped table.
// Numeric columns hold nil for missing cells; string columns hold "".
type normalizedTable struct {
	fields []Field
	length int
	strs   map[Field][]string
	nums   map[Field][]*float64
}

func (t *normalizedTable) hasColumn(f Field) bool {
	for _, field := range t.fields {
		if field == f {
			return true
		}
	}
	return false
}

// setNumColumn replaces or adds a numeric column.
func (t *normalizedTable) setNumColumn(f Field, values []*float64) {
	if !t.hasColumn(f) {
		t.fields = append(t.fields, f)
	}
	t.nums[f] = values
}

// setStrColumn replaces or adds a string column.
func (t *normalizedTable) setStrColumn(f Field, values []string) {
	if !t.hasColumn(f) {
		t.fields = append(t.fields, f)
	}
	t.strs[f] = values
}

// hasMissing reports whether a numeric column is absent or has any nil cell.
func (t *normalizedTable) hasMissing(f Field) bool {
	col, ok := t.nums[f]
	if !ok {
		return true
	}
	for _, v := range col {
		if v == nil {
			return true
		}
	}
	return false
}

// normalize coerces the mapped table's raw string cells into typed columns.
// Numeric cleanup failures and unparseable dates turn the cell into a missing
// value; they never fail the file. The code column is always kept as a string
// so leading zeros and alphanumeric tickers survive.
func normalize(mapped *mappedTable) *normalizedTable {
	t := &normalizedTable{
		fields: append([]Field(nil), mapped.fields...),
		length: len(mapped.rows),
		strs:   make(map[Field][]string),
		nums:   make(map[Field][]*float64),
	}

	numeric := make(map[Field]struct{}, len(numericFields))
	for _, f := range numericFields {
		numeric[f] = struct{}{}
	}

	for _, f := range t.fields {
		if _, isNum := numeric[f]; isNum {
			col := make([]*float64, t.length)
			for i, row := range mapped.rows {
				col[i] = parseNumericCell(row[f])
			}
			t.nums[f] = col
			continue
		}

		col := make([]string, t.length)
		for i, row := range mapped.rows {
			col[i] = normalizeStringCell(f, row[f])
		}
		t.strs[f] = col
	}

	return t
}

// parseNumericCell strips thousands separators and coerces to float64,
// returning nil for cells that cannot be coerced.
func parseNumericCell(cell string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

func normalizeStringCell(f Field, cell string) string {
	value := strings.TrimSpace(cell)

	switch f {
	case FieldAcquisitionDate:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return ""
		}
		return value
	case FieldMarket:
		if value == "" {
			return ""
		}
		if _, ok := knownMarkets[value]; !ok {
			return TagOther
		}
		return value
	case FieldSector:
		if value == "" {
			return ""
		}
		if _, ok := knownSectors[value]; !ok {
			return TagOther
		}
		return value
	default:
		return value
	}
}
