package optionmatrix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LabelSeparator joins the values of a combination into its display label.
const LabelSeparator = " / "

var (
	ErrRowOutOfRange = errors.New("variant row out of range")
	ErrUnknownField  = errors.New("unknown variant field")
)

// Field names an editable numeric column of the variant table.
type Field string

const (
	FieldOriginalPrice Field = "originalPrice"
	FieldSalePrice     Field = "salePrice"
	FieldStock         Field = "stock"
)

// Valid reports whether f is one of the editable columns.
func (f Field) Valid() bool {
	switch f {
	case FieldOriginalPrice, FieldSalePrice, FieldStock:
		return true
	}
	return false
}

// OptionValue is one cell of a combination, tagged with the axis that
// produced it when the combination was generated.
type OptionValue struct {
	AxisName string `json:"axisName"`
	Value    string `json:"value"`
}

// Variant is one row of the generated matrix.
type Variant struct {
	OptionValues  []OptionValue `json:"optionValues"`
	DisplayLabel  string        `json:"displayLabel"`
	OriginalPrice int           `json:"originalPrice"`
	SalePrice     int           `json:"salePrice"`
	Stock         int           `json:"stock"`
}

// BuildVariants computes the Cartesian product of the axis values, earlier
// axes varying slowest. Every row starts with zero prices and stock, so
// calling it again discards any edits made to a previous result.
func BuildVariants(axes []Axis) []Variant {
	var combos [][]OptionValue
	for _, axis := range axes {
		values := axis.Values()
		if len(combos) == 0 {
			combos = make([][]OptionValue, 0, len(values))
			for _, v := range values {
				combos = append(combos, []OptionValue{{AxisName: axis.Name, Value: v}})
			}
			continue
		}

		next := make([][]OptionValue, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				row := make([]OptionValue, len(combo), len(combo)+1)
				copy(row, combo)
				next = append(next, append(row, OptionValue{AxisName: axis.Name, Value: v}))
			}
		}
		combos = next
	}

	variants := make([]Variant, 0, len(combos))
	for _, combo := range combos {
		variants = append(variants, Variant{
			OptionValues: combo,
			DisplayLabel: label(combo),
		})
	}
	return variants
}

func label(combo []OptionValue) string {
	values := make([]string, len(combo))
	for i, ov := range combo {
		values[i] = ov.Value
	}
	return strings.Join(values, LabelSeparator)
}

// UpdateVariantField returns a copy of variants with one cell replaced.
// raw is coerced with CoerceInt. On error the input slice is returned as is.
func UpdateVariantField(variants []Variant, row int, field Field, raw string) ([]Variant, error) {
	if row < 0 || row >= len(variants) {
		return variants, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(variants))
	}
	if !field.Valid() {
		return variants, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	out := make([]Variant, len(variants))
	copy(out, variants)

	value := CoerceInt(raw)
	switch field {
	case FieldOriginalPrice:
		out[row].OriginalPrice = value
	case FieldSalePrice:
		out[row].SalePrice = value
	case FieldStock:
		out[row].Stock = value
	}
	return out, nil
}

// RemoveVariant returns a copy of variants without the given row.
func RemoveVariant(variants []Variant, row int) ([]Variant, error) {
	if row < 0 || row >= len(variants) {
		return variants, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(variants))
	}
	out := make([]Variant, 0, len(variants)-1)
	out = append(out, variants[:row]...)
	return append(out, variants[row+1:]...), nil
}

// CoerceInt parses the leading integer of s the way a number input does:
// leading whitespace and a sign are accepted, parsing stops at the first
// non-digit, and text without a leading integer becomes 0. Values beyond
// the int range saturate.
func CoerceInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, _ := strconv.ParseInt(s[:end], 10, strconv.IntSize)
	return int(n)
}
