package tableconfig

import (
	"github.com/samber/lo"

	"github.com/nrjais/tablesorter/internal/shape"
)

// SyncLayoutColumns reconciles a persisted layout against a new column set.
// Nodes whose column disappeared are dropped, stacked groups keep only their
// surviving children, and applied numeric domains and range filters are
// rebound to the new data.
// oldCols is the column set the layout was last synchronized with; it decides
// whether an applied domain is a user filter or an untouched default.
// The input layout is never modified.
func SyncLayoutColumns(layout []LayoutColumn, newCols, oldCols []ColumnDesc) []LayoutColumn {
	s := syncer{
		newCols: lo.KeyBy(newCols, func(c ColumnDesc) string { return c.Name }),
		oldCols: lo.KeyBy(oldCols, func(c ColumnDesc) string { return c.Name }),
	}
	return s.nodes(layout)
}

type syncer struct {
	newCols map[string]ColumnDesc
	oldCols map[string]ColumnDesc
}

func (s syncer) nodes(nodes []LayoutColumn) []LayoutColumn {
	out := make([]LayoutColumn, 0, len(nodes))
	for _, node := range nodes {
		if synced, ok := s.node(node); ok {
			out = append(out, synced)
		}
	}
	return out
}

func (s syncer) node(node LayoutColumn) (LayoutColumn, bool) {
	if node.IsGroup() {
		children := s.nodes(node.Children)
		if len(children) == 0 {
			return LayoutColumn{}, false
		}
		synced := node
		synced.Domain = cloneDomain(node.Domain)
		synced.Filter = node.Filter.clone()
		synced.Children = children
		return synced, true
	}

	if node.IsDecoration() {
		return node.clone(), true
	}

	col, ok := s.newCols[node.Column]
	if !ok {
		return LayoutColumn{}, false
	}

	synced := node.clone()
	if isDataType(node.Type) && node.Type != string(col.Type) {
		synced.Type = string(col.Type)
	}

	if col.Type != shape.Number || col.Domain == nil {
		synced.Domain = nil
		if synced.Filter != nil && synced.Filter.Range != nil {
			synced.Filter = nil
		}
		return synced, true
	}

	previous := s.oldCols[node.Column].Domain
	if node.Domain != nil {
		synced.Domain = rebindDomain(*node.Domain, *col.Domain, previous).ptr()
	}
	if synced.Filter != nil && synced.Filter.Range != nil {
		synced.Filter.Range = rebindDomain(*node.Filter.Range, *col.Domain, previous).ptr()
	}
	return synced, true
}

// rebindDomain keeps a user filter clamped to the fresh domain and resets an
// untouched one. A filter is considered untouched when it equals the domain
// of the previous dataset.
func rebindDomain(applied, fresh Domain, previous *Domain) Domain {
	if previous == nil || applied == *previous {
		return fresh
	}

	clamped := Domain{max(fresh.Min(), applied.Min()), min(fresh.Max(), applied.Max())}
	if clamped.Min() > clamped.Max() {
		// disjoint ranges collapse onto the nearest bound
		if applied.Min() > fresh.Max() {
			return Domain{fresh.Max(), fresh.Max()}
		}
		return Domain{fresh.Min(), fresh.Min()}
	}
	return clamped
}

func isDataType(t string) bool {
	switch shape.DataType(t) {
	case shape.Text, shape.Number, shape.Categorical:
		return true
	}
	return false
}

func cloneDomain(d *Domain) *Domain {
	if d == nil {
		return nil
	}
	return d.ptr()
}
