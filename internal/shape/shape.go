package shape

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type DataType string

const (
	Text        DataType = "string"
	Number      DataType = "number"
	Categorical DataType = "categorical"
)

// Column is a raw data column as described by the host.
type Column struct {
	Name         string `json:"name" validate:"required,min=1,max=255"`
	DisplayLabel string `json:"displayLabel" validate:"max=255"`
	IsNumeric    bool   `json:"isNumeric"`
}

// Label falls back to the column name when the host sent no display label.
func (c Column) Label() string {
	if c.DisplayLabel == "" {
		return c.Name
	}
	return c.DisplayLabel
}

func (c Column) Type() DataType {
	if c.IsNumeric {
		return Number
	}
	return Text
}

// Row is one record keyed by column name.
type Row map[string]any

// Number returns the numeric value stored under name. Strings are never
// coerced; missing, nil and NaN values report false.
func (r Row) Number(name string) (float64, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return 0, false
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Dataset is one snapshot delivered by a data source.
type Dataset struct {
	Columns []Column `json:"columns" validate:"required,min=1,unique=Name,dive"`
	Rows    []Row    `json:"rows"`
}

func (d Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}
	return nil
}
