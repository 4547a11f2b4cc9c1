package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumericCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"plain integer", "2500", ptr(2500)},
		{"decimal", "28.5", ptr(28.5)},
		{"thousands separators", "1,234,500", ptr(1234500)},
		{"padded", " 320 ", ptr(320)},
		{"negative", "-1,200", ptr(-1200)},
		{"empty is missing", "", nil},
		{"garbage is missing", "N/A", nil},
		{"mixed text is missing", "100株", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNumericCell(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestNormalize_CodeStaysString(t *testing.T) {
	mapped := &mappedTable{
		fields: []Field{FieldCode, FieldQuantity},
		rows: []map[Field]string{
			{FieldCode: "7203", FieldQuantity: "100"},
			{FieldCode: "0123", FieldQuantity: "50"},
			{FieldCode: "BRK.B", FieldQuantity: "10"},
		},
	}

	n := normalize(mapped)

	// Numeric-looking codes keep their string form, including leading zeros.
	assert.Equal(t, []string{"7203", "0123", "BRK.B"}, n.strs[FieldCode])
	require.NotNil(t, n.nums[FieldQuantity][0])
	assert.Equal(t, 100.0, *n.nums[FieldQuantity][0])
}

func TestNormalize_AcquisitionDate(t *testing.T) {
	mapped := &mappedTable{
		fields: []Field{FieldAcquisitionDate},
		rows: []map[Field]string{
			{FieldAcquisitionDate: "2024-03-15"},
			{FieldAcquisitionDate: "15/03/2024"},
			{FieldAcquisitionDate: "not a date"},
			{FieldAcquisitionDate: ""},
		},
	}

	n := normalize(mapped)

	// Only the fixed YYYY-MM-DD layout parses; failures become missing.
	assert.Equal(t, []string{"2024-03-15", "", "", ""}, n.strs[FieldAcquisitionDate])
}

func TestNormalize_MarketAndSectorTags(t *testing.T) {
	mapped := &mappedTable{
		fields: []Field{FieldMarket, FieldSector},
		rows: []map[Field]string{
			{FieldMarket: "東証プライム", FieldSector: "輸送用機器"},
			{FieldMarket: "独自市場", FieldSector: "謎セクター"},
			{FieldMarket: "", FieldSector: ""},
		},
	}

	n := normalize(mapped)

	assert.Equal(t, []string{"東証プライム", TagOther, ""}, n.strs[FieldMarket])
	assert.Equal(t, []string{"輸送用機器", TagOther, ""}, n.strs[FieldSector])
}

func TestNormalize_CoercionFailureIsPerCell(t *testing.T) {
	mapped := &mappedTable{
		fields: []Field{FieldCurrentPrice},
		rows: []map[Field]string{
			{FieldCurrentPrice: "3,200"},
			{FieldCurrentPrice: "—"},
			{FieldCurrentPrice: "1500"},
		},
	}

	n := normalize(mapped)

	col := n.nums[FieldCurrentPrice]
	require.Len(t, col, 3)
	assert.Equal(t, 3200.0, *col[0])
	assert.Nil(t, col[1])
	assert.Equal(t, 1500.0, *col[2])
}

func ptr(v float64) *float64 { return &v }
