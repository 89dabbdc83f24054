package tableconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyConfiguration     = errors.New("configuration is empty")
	ErrMalformedConfiguration = errors.New("configuration is malformed")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateColumnDesc, ColumnDesc{})
	v.RegisterStructValidation(validateLayoutColumn, LayoutColumn{})
	v.RegisterStructValidation(validateFilter, Filter{})
	v.RegisterStructValidation(validateSort, Sort{})
	return v
}

func validateColumnDesc(sl validator.StructLevel) {
	col := sl.Current().Interface().(ColumnDesc)
	if col.Domain != nil && col.Domain.Min() > col.Domain.Max() {
		sl.ReportError(col.Domain, "Domain", "domain", "ordered", "")
	}
}

func validateLayoutColumn(sl validator.StructLevel) {
	node := sl.Current().Interface().(LayoutColumn)
	if node.Domain != nil && node.Domain.Min() > node.Domain.Max() {
		sl.ReportError(node.Domain, "Domain", "domain", "ordered", "")
	}
	if !node.IsGroup() && !node.IsDecoration() && node.Column == "" {
		sl.ReportError(node.Column, "Column", "column", "required", "")
	}
}

func validateFilter(sl validator.StructLevel) {
	f := sl.Current().Interface().(Filter)
	set := 0
	if f.Contains != "" {
		set++
	}
	if f.Range != nil {
		set++
		if f.Range.Min() > f.Range.Max() {
			sl.ReportError(f.Range, "Range", "range", "ordered", "")
		}
	}
	if f.Values != nil {
		set++
	}
	if set != 1 {
		sl.ReportError(f, "Filter", "filter", "exactlyone", "")
	}
}

func validateSort(sl validator.StructLevel) {
	s := sl.Current().Interface().(Sort)
	if (s.Column == "") == (s.Stack == "") {
		sl.ReportError(s, "Sort", "sort", "exactlyone", "")
	}
}

// Validate checks the structural invariants of a configuration.
func (c *Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedConfiguration, err)
	}
	return nil
}

// Parse decodes and validates a persisted configuration.
func Parse(raw string) (*Configuration, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyConfiguration
	}

	var cfg Configuration
	if err := sonic.UnmarshalString(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes a configuration for persistence.
func Marshal(cfg *Configuration) (string, error) {
	if cfg == nil {
		return "", ErrEmptyConfiguration
	}
	out, err := sonic.MarshalString(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return out, nil
}
