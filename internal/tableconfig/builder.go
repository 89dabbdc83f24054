package tableconfig

import (
	"errors"

	"github.com/samber/lo"

	"github.com/nrjais/tablesorter/internal/shape"
)

// Origin tells which path Build took to produce a configuration.
type Origin int

const (
	// OriginFresh means no previous configuration was supplied.
	OriginFresh Origin = iota
	// OriginRecovered means the previous configuration could not be parsed
	// and a fresh one was derived instead.
	OriginRecovered
	// OriginReconciled means the previous configuration was reconciled
	// against the dataset.
	OriginReconciled
)

func (o Origin) String() string {
	switch o {
	case OriginFresh:
		return "fresh"
	case OriginRecovered:
		return "recovered"
	case OriginReconciled:
		return "reconciled"
	}
	return "unknown"
}

type Result struct {
	Config   *Configuration
	Origin   Origin
	ParseErr error
}

// BuildConfiguration returns a configuration consistent with the dataset,
// reconciled from previous when it holds a valid persisted configuration.
func BuildConfiguration(columns []shape.Column, rows []shape.Row, previous string) *Configuration {
	return Build(columns, rows, previous).Config
}

// Build is BuildConfiguration reporting the path taken. A previous
// configuration that fails to parse is never returned as an error; it is
// reported in ParseErr and the fresh configuration is used.
func Build(columns []shape.Column, rows []shape.Row, previous string) Result {
	newCols := DeriveColumns(columns, rows)

	prev, err := Parse(previous)
	switch {
	case errors.Is(err, ErrEmptyConfiguration):
		return Result{Config: fresh(newCols), Origin: OriginFresh}
	case err != nil:
		return Result{Config: fresh(newCols), Origin: OriginRecovered, ParseErr: err}
	}
	return Result{Config: Reconcile(prev, newCols), Origin: OriginReconciled}
}

func fresh(newCols []ColumnDesc) *Configuration {
	cfg := &Configuration{Columns: newCols}
	if len(newCols) > 0 {
		cfg.PrimaryKey = newCols[0].Label
	}
	return cfg
}

// Reconcile updates a previous configuration for a new column set. prev is
// not modified.
func Reconcile(prev *Configuration, newCols []ColumnDesc) *Configuration {
	oldCols := prev.Clone().Columns
	cfg := prev.Clone()

	byName := lo.KeyBy(newCols, func(c ColumnDesc) string { return c.Name })
	newLabels := lo.SliceToMap(newCols, func(c ColumnDesc) (string, struct{}) { return c.Label, struct{}{} })

	// Columns survive by name and by label; kinds and domains always come
	// from the data.
	cfg.Columns = lo.FilterMap(cfg.Columns, func(col ColumnDesc, _ int) (ColumnDesc, bool) {
		current, ok := byName[col.Name]
		if !ok {
			return ColumnDesc{}, false
		}
		if _, ok := newLabels[col.Label]; !ok {
			return ColumnDesc{}, false
		}
		col.Type = current.Type
		col.Domain = cloneDomain(current.Domain)
		return col, true
	})

	if cfg.Layout != nil {
		cfg.Layout = SyncLayoutColumns(cfg.Layout, cfg.Columns, oldCols)
	}

	cfg.Sort = reconcileSort(cfg.Sort, cfg)

	appendNewColumns(cfg, newCols)

	if !lo.ContainsBy(cfg.Columns, func(c ColumnDesc) bool { return c.Label == cfg.PrimaryKey }) {
		cfg.PrimaryKey = ""
		if len(cfg.Columns) > 0 {
			cfg.PrimaryKey = cfg.Columns[0].Label
		}
	}
	return cfg
}

func reconcileSort(s *Sort, cfg *Configuration) *Sort {
	if s == nil {
		return nil
	}
	present := func(name string) bool {
		_, ok := cfg.Column(name)
		return ok
	}

	if !s.IsStack() {
		if !present(s.Column) {
			return nil
		}
		return s
	}

	s.Weights = lo.Filter(s.Weights, func(w WeightedColumn, _ int) bool { return present(w.Column) })
	if len(s.Weights) == 0 {
		return nil
	}
	if cfg.Layout != nil && !hasStack(cfg.Layout, s.Stack) {
		return nil
	}
	return s
}

func hasStack(nodes []LayoutColumn, label string) bool {
	for _, n := range nodes {
		if n.IsGroup() && (n.Label == label || hasStack(n.Children, label)) {
			return true
		}
	}
	return false
}

// appendNewColumns adds columns whose label is unknown to the configuration,
// in dataset order.
func appendNewColumns(cfg *Configuration, newCols []ColumnDesc) {
	labels := lo.SliceToMap(cfg.Columns, func(c ColumnDesc) (string, struct{}) { return c.Label, struct{}{} })
	names := lo.SliceToMap(cfg.Columns, func(c ColumnDesc) (string, struct{}) { return c.Name, struct{}{} })

	for _, col := range newCols {
		if _, ok := labels[col.Label]; ok {
			continue
		}
		if _, ok := names[col.Name]; ok {
			continue
		}
		cfg.Columns = append(cfg.Columns, col.clone())
		if cfg.Layout != nil {
			cfg.Layout = append(cfg.Layout, LayoutColumn{
				Column: col.Name,
				Type:   string(col.Type),
				Domain: cloneDomain(col.Domain),
			})
		}
		labels[col.Label] = struct{}{}
		names[col.Name] = struct{}{}
	}
}
