package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  string
		wantRows int
	}{
		{
			name:     "header and rows",
			input:    "code,name\n7203,Toyota\n9984,SoftBank\n",
			wantRows: 2,
		},
		{
			name:     "header only",
			input:    "code,name\n",
			wantRows: 0,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "empty input",
		},
		{
			name:    "whitespace only",
			input:   "  \n \n",
			wantErr: "empty input",
		},
		{
			name:    "inconsistent row width",
			input:   "code,name\n7203,Toyota,extra\n",
			wantErr: "inconsistent row width",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := readTable(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				var mte *MalformedTableError
				require.ErrorAs(t, err, &mte)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, table.Rows, tt.wantRows)
		})
	}
}

func TestReadTable_PreservesOrder(t *testing.T) {
	table, err := readTable("b,a,c\n1,2,3\n4,5,6\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, table.Headers)
	assert.Equal(t, "1", table.Rows[0]["b"])
	assert.Equal(t, "2", table.Rows[0]["a"])
	assert.Equal(t, "6", table.Rows[1]["c"])
}

func TestReadTable_TrimsHeaderWhitespace(t *testing.T) {
	table, err := readTable("code, name\n7203,Toyota\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "name"}, table.Headers)
}
