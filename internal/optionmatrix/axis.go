// Package optionmatrix turns merchant-entered option axes ("Size: S, M, L")
// into the variant matrix sent to the product-creation endpoint.
package optionmatrix

import "strings"

// ValueSeparator splits the raw option-values text typed by the merchant.
const ValueSeparator = ","

// Axis is one option dimension as entered in the product form.
type Axis struct {
	Name      string `json:"name"`
	RawValues string `json:"rawValues"`
}

// Values re-derives the axis values from RawValues.
func (a Axis) Values() []string {
	return ParseValues(a.RawValues)
}

// ParseValues splits raw on commas and trims each token. Empty tokens are
// kept, so "a,,b" yields three values and "" yields one empty value.
func ParseValues(raw string) []string {
	parts := strings.Split(raw, ValueSeparator)
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = strings.TrimSpace(p)
	}
	return values
}
