package tableconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrjais/tablesorter/internal/shape"
)

func TestCalcDomain(t *testing.T) {
	tests := []struct {
		name     string
		rows     []shape.Row
		expected Domain
	}{
		{
			name:     "ignores null values",
			rows:     []shape.Row{{"a": 10}, {"a": nil}, {"a": 100}},
			expected: Domain{10, 100},
		},
		{
			name:     "ignores missing values and order",
			rows:     []shape.Row{{"a": 100}, {"b": 1}, {"a": 10}},
			expected: Domain{10, 100},
		},
		{
			name:     "does not coerce strings",
			rows:     []shape.Row{{"a": "1000"}, {"a": 5}, {"a": 6.5}},
			expected: Domain{5, 6.5},
		},
		{
			name:     "negative values",
			rows:     []shape.Row{{"a": -3}, {"a": -10}},
			expected: Domain{-10, -3},
		},
		{
			name:     "single value",
			rows:     []shape.Row{{"a": 7}},
			expected: Domain{7, 7},
		},
		{
			name:     "no numeric value",
			rows:     []shape.Row{{"a": "x"}, {"a": nil}},
			expected: Domain{0, 0},
		},
		{
			name:     "no rows",
			rows:     nil,
			expected: Domain{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CalcDomain(tt.rows, "a")
			assert.Equal(t, tt.expected, d)
			assert.LessOrEqual(t, d.Min(), d.Max())
		})
	}
}

func TestDeriveColumns(t *testing.T) {
	columns := []shape.Column{
		{Name: "name", DisplayLabel: "Name"},
		{Name: "age", DisplayLabel: "Age", IsNumeric: true},
	}
	rows := []shape.Row{{"name": "a", "age": 30}, {"name": "b", "age": 20}}

	cols := DeriveColumns(columns, rows)

	require.Len(t, cols, 2)
	assert.Equal(t, ColumnDesc{Name: "name", Label: "Name", Type: shape.Text}, cols[0])
	assert.Equal(t, "age", cols[1].Name)
	assert.Equal(t, shape.Number, cols[1].Type)
	require.NotNil(t, cols[1].Domain)
	assert.Equal(t, Domain{20, 30}, *cols[1].Domain)
}
