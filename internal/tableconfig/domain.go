package tableconfig

import (
	"github.com/nrjais/tablesorter/internal/shape"
)

// CalcDomain returns the [min, max] of the numeric values of column across
// rows. Missing and non-numeric values are skipped; (0, 0) is returned when
// no numeric value exists.
func CalcDomain(rows []shape.Row, column string) Domain {
	var d Domain
	found := false
	for _, row := range rows {
		v, ok := row.Number(column)
		if !ok {
			continue
		}
		if !found {
			d = Domain{v, v}
			found = true
			continue
		}
		d[0] = min(d[0], v)
		d[1] = max(d[1], v)
	}
	return d
}

// DeriveColumns builds column descriptors for a dataset snapshot.
func DeriveColumns(columns []shape.Column, rows []shape.Row) []ColumnDesc {
	out := make([]ColumnDesc, 0, len(columns))
	for _, col := range columns {
		desc := ColumnDesc{
			Name:  col.Name,
			Label: col.Label(),
			Type:  col.Type(),
		}
		if col.IsNumeric {
			desc.Domain = CalcDomain(rows, col.Name).ptr()
		}
		out = append(out, desc)
	}
	return out
}
