package tableconfig

import (
	"slices"

	"github.com/nrjais/tablesorter/internal/shape"
)

// Layout node types generated by the grid itself rather than by the user.
const (
	TypeRank      = "rank"
	TypeSelection = "selection"
	TypeAggregate = "aggregate"
	TypeGroup     = "group"
	TypeStack     = "stack"
)

// Domain is a numeric [min, max] range.
type Domain [2]float64

func (d Domain) Min() float64 { return d[0] }
func (d Domain) Max() float64 { return d[1] }

func (d Domain) ptr() *Domain { return &d }

// ColumnDesc describes one raw data column.
type ColumnDesc struct {
	Name       string         `json:"name" validate:"required"`
	Label      string         `json:"label"`
	Type       shape.DataType `json:"type" validate:"required,oneof=string number categorical"`
	Domain     *Domain        `json:"domain,omitempty"`
	Categories []string       `json:"categories,omitempty"`
}

func (c ColumnDesc) clone() ColumnDesc {
	out := c
	if c.Domain != nil {
		out.Domain = c.Domain.ptr()
	}
	out.Categories = slices.Clone(c.Categories)
	return out
}

// Filter holds exactly one of a contains filter, a numeric range or a value set.
type Filter struct {
	Contains string   `json:"contains,omitempty"`
	Range    *Domain  `json:"range,omitempty"`
	Values   []string `json:"values,omitempty"`
}

func (f *Filter) clone() *Filter {
	if f == nil {
		return nil
	}
	out := *f
	if f.Range != nil {
		out.Range = f.Range.ptr()
	}
	out.Values = slices.Clone(f.Values)
	return &out
}

// LayoutColumn is the presentation state of one column in the persisted
// layout. Nodes with children are stacked groups.
type LayoutColumn struct {
	Column   string         `json:"column,omitempty"`
	Type     string         `json:"type" validate:"required"`
	Label    string         `json:"label,omitempty"`
	Width    float64        `json:"width,omitempty"`
	Weight   float64        `json:"weight,omitempty"`
	Domain   *Domain        `json:"domain,omitempty"`
	Filter   *Filter        `json:"filter,omitempty"`
	Children []LayoutColumn `json:"children,omitempty" validate:"omitempty,dive"`
}

// IsGroup reports whether the node is a stacked group.
func (l LayoutColumn) IsGroup() bool {
	return l.Type == TypeStack || l.Children != nil
}

// IsDecoration reports whether the node is generated by the grid and not
// bound to a data column.
func (l LayoutColumn) IsDecoration() bool {
	switch l.Type {
	case TypeRank, TypeSelection, TypeAggregate, TypeGroup:
		return true
	}
	return false
}

func (l LayoutColumn) clone() LayoutColumn {
	out := l
	if l.Domain != nil {
		out.Domain = l.Domain.ptr()
	}
	out.Filter = l.Filter.clone()
	out.Children = cloneLayout(l.Children)
	return out
}

func cloneLayout(nodes []LayoutColumn) []LayoutColumn {
	if nodes == nil {
		return nil
	}
	out := make([]LayoutColumn, len(nodes))
	for i, n := range nodes {
		out[i] = n.clone()
	}
	return out
}

type WeightedColumn struct {
	Column string  `json:"column" validate:"required"`
	Weight float64 `json:"weight"`
}

// Sort is either a single column sort or a stacked group sort.
type Sort struct {
	Column  string           `json:"column,omitempty"`
	Stack   string           `json:"stack,omitempty"`
	Weights []WeightedColumn `json:"weights,omitempty" validate:"omitempty,dive"`
	Asc     bool             `json:"asc"`
}

func (s *Sort) IsStack() bool {
	return s != nil && s.Stack != ""
}

func (s *Sort) clone() *Sort {
	if s == nil {
		return nil
	}
	out := *s
	out.Weights = slices.Clone(s.Weights)
	return &out
}

// Configuration is the unit of state persisted by the host.
type Configuration struct {
	PrimaryKey string         `json:"primaryKey" validate:"required"`
	Columns    []ColumnDesc   `json:"columns" validate:"required,min=1,unique=Name,dive"`
	Layout     []LayoutColumn `json:"layout,omitempty" validate:"omitempty,dive"`
	Sort       *Sort          `json:"sort,omitempty"`
}

// Clone returns a deep copy sharing no memory with c.
func (c *Configuration) Clone() *Configuration {
	if c == nil {
		return nil
	}
	out := &Configuration{
		PrimaryKey: c.PrimaryKey,
		Layout:     cloneLayout(c.Layout),
		Sort:       c.Sort.clone(),
	}
	if c.Columns != nil {
		out.Columns = make([]ColumnDesc, len(c.Columns))
		for i, col := range c.Columns {
			out.Columns[i] = col.clone()
		}
	}
	return out
}

// Column returns the descriptor with the given name.
func (c *Configuration) Column(name string) (ColumnDesc, bool) {
	for _, col := range c.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnDesc{}, false
}
