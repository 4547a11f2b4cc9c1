package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapColumns_DropsUnmappedColumns(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"銘柄コード", "銘柄名", "社内メモ"},
		Rows: []map[string]string{
			{"銘柄コード": "7203", "銘柄名": "トヨタ自動車", "社内メモ": "注目"},
		},
	}

	mapped := mapColumns(raw, DefaultCatalog().standard())

	assert.Equal(t, []Field{FieldCode, FieldName}, mapped.fields)
	require.Len(t, mapped.rows, 1)
	assert.Equal(t, "7203", mapped.rows[0][FieldCode])
	assert.NotContains(t, mapped.rows[0], Field("社内メモ"))
}

func TestMapColumns_LaterDuplicateMappingWins(t *testing.T) {
	// Template quirk: two distinct headers feeding the same canonical field.
	// The later template entry overwrites the earlier.
	tpl := BrokerTemplate{
		Name: "dup",
		Mappings: []HeaderMapping{
			{"price_old", FieldCurrentPrice},
			{"price_new", FieldCurrentPrice},
		},
	}
	raw := &RawTable{
		Headers: []string{"price_old", "price_new"},
		Rows: []map[string]string{
			{"price_old": "100", "price_new": "200"},
		},
	}

	mapped := mapColumns(raw, tpl)

	assert.Equal(t, []Field{FieldCurrentPrice}, mapped.fields)
	assert.Equal(t, "200", mapped.rows[0][FieldCurrentPrice])
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name        string
		fields      []Field
		wantMissing []Field
	}{
		{
			name:   "all present",
			fields: []Field{FieldCode, FieldName, FieldQuantity, FieldCostPrice, FieldCurrentPrice},
		},
		{
			name:        "one missing",
			fields:      []Field{FieldCode, FieldName, FieldQuantity, FieldCostPrice},
			wantMissing: []Field{FieldCurrentPrice},
		},
		{
			name:        "several missing reported together",
			fields:      []Field{FieldName, FieldQuantity},
			wantMissing: []Field{FieldCode, FieldCostPrice, FieldCurrentPrice},
		},
		{
			name:        "everything missing",
			fields:      nil,
			wantMissing: []Field{FieldCode, FieldName, FieldQuantity, FieldCostPrice, FieldCurrentPrice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequired(&mappedTable{fields: tt.fields})
			if tt.wantMissing == nil {
				assert.NoError(t, err)
				return
			}

			var mre *MissingRequiredFieldError
			require.ErrorAs(t, err, &mre)
			assert.Equal(t, tt.wantMissing, mre.Fields)
		})
	}
}

func TestMissingRequiredFieldError_ListsHumanReadableLabels(t *testing.T) {
	err := &MissingRequiredFieldError{Fields: []Field{FieldCode, FieldCostPrice, FieldCurrentPrice}}
	assert.Contains(t, err.Error(), "銘柄コード")
	assert.Contains(t, err.Error(), "取得単価")
	assert.Contains(t, err.Error(), "現在価格")
}
