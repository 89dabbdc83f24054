package tableconfig

import (
	"cmp"
	"slices"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/samber/lo"

	"github.com/nrjais/tablesorter/internal/shape"
)

var equateEmpty = cmpopts.EquateEmpty()

// HasLayoutChanged compares the user-authored parts of two layouts.
// Decoration columns generated by the grid are ignored at every depth.
func HasLayoutChanged(oldCfg, newCfg *Configuration) bool {
	if oldCfg == nil || newCfg == nil {
		return oldCfg != newCfg
	}
	return !gocmp.Equal(userLayout(oldCfg.Layout), userLayout(newCfg.Layout), equateEmpty)
}

// HasConfigurationChanged reports whether two configurations differ in sort,
// column set or layout. Column domains are not compared since they move with
// every data refresh.
func HasConfigurationChanged(oldCfg, newCfg *Configuration) bool {
	if oldCfg == nil || newCfg == nil {
		return oldCfg != newCfg
	}
	if !gocmp.Equal(oldCfg.Sort, newCfg.Sort, equateEmpty) {
		return true
	}
	if !slices.Equal(columnKeys(oldCfg.Columns), columnKeys(newCfg.Columns)) {
		return true
	}
	return HasLayoutChanged(oldCfg, newCfg)
}

func userLayout(nodes []LayoutColumn) []LayoutColumn {
	out := make([]LayoutColumn, 0, len(nodes))
	for _, n := range nodes {
		if n.IsDecoration() {
			continue
		}
		if n.Children != nil {
			n.Children = userLayout(n.Children)
		}
		out = append(out, n)
	}
	return out
}

type columnKey struct {
	name  string
	label string
	typ   shape.DataType
}

func columnKeys(cols []ColumnDesc) []columnKey {
	keys := lo.Map(cols, func(c ColumnDesc, _ int) columnKey {
		return columnKey{name: c.Name, label: c.Label, typ: c.Type}
	})
	slices.SortFunc(keys, func(a, b columnKey) int { return cmp.Compare(a.name, b.name) })
	return keys
}
