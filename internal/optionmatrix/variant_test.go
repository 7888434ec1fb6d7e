package optionmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeColor() []Axis {
	return []Axis{
		{Name: "Size", RawValues: "S, M, L"},
		{Name: "Color", RawValues: "Red,Blue"},
	}
}

func labels(variants []Variant) []string {
	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = v.DisplayLabel
	}
	return out
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"trims tokens", " S ,M,  L ", []string{"S", "M", "L"}},
		{"keeps empty tokens", "a,,b", []string{"a", "", "b"}},
		{"trailing comma", "a,", []string{"a", ""}},
		{"empty text", "", []string{""}},
		{"single value", "Gift box", []string{"Gift box"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValues(tt.raw))
		})
	}
}

func TestBuildVariants_Cardinality(t *testing.T) {
	variants := BuildVariants(sizeColor())
	assert.Len(t, variants, 6)

	three := append(sizeColor(), Axis{Name: "Pack", RawValues: "1,2"})
	assert.Len(t, BuildVariants(three), 12)
}

func TestBuildVariants_LastAxisVariesFastest(t *testing.T) {
	axes := []Axis{
		{Name: "A", RawValues: "a1,a2"},
		{Name: "B", RawValues: "b1,b2"},
	}
	variants := BuildVariants(axes)

	require.Len(t, variants, 4)
	assert.Equal(t, []string{"a1 / b1", "a1 / b2", "a2 / b1", "a2 / b2"}, labels(variants))
	assert.Equal(t, []OptionValue{{AxisName: "A", Value: "a2"}, {AxisName: "B", Value: "b1"}}, variants[2].OptionValues)
}

func TestBuildVariants_ZeroDefaults(t *testing.T) {
	for _, v := range BuildVariants(sizeColor()) {
		assert.Zero(t, v.OriginalPrice)
		assert.Zero(t, v.SalePrice)
		assert.Zero(t, v.Stock)
	}
}

func TestBuildVariants_ReapplyResetsEdits(t *testing.T) {
	axes := sizeColor()
	first := BuildVariants(axes)

	edited, err := UpdateVariantField(first, 1, FieldStock, "9")
	require.NoError(t, err)
	edited, err = UpdateVariantField(edited, 4, FieldSalePrice, "12900")
	require.NoError(t, err)

	second := BuildVariants(axes)
	assert.Equal(t, first, second)
	assert.Zero(t, second[1].Stock, "re-apply does not keep edited stock")
	assert.Zero(t, second[4].SalePrice, "re-apply does not keep edited sale price")
	assert.Equal(t, 9, edited[1].Stock)
}

func TestBuildVariants_NoAxes(t *testing.T) {
	variants := BuildVariants(nil)
	assert.NotNil(t, variants)
	assert.Empty(t, variants)
	assert.Empty(t, BuildVariants([]Axis{}))
}

func TestBuildVariants_SingleAxis(t *testing.T) {
	variants := BuildVariants([]Axis{{Name: "Packing", RawValues: "Gift,Regular"}})
	assert.Equal(t, []string{"Gift", "Regular"}, labels(variants))
	assert.Equal(t, []OptionValue{{AxisName: "Packing", Value: "Regular"}}, variants[1].OptionValues)
}

func TestBuildVariants_EmptyTokensProduceRows(t *testing.T) {
	variants := BuildVariants([]Axis{{Name: "Size", RawValues: "S,,L"}, {Name: "Color", RawValues: ""}})
	require.Len(t, variants, 3)
	assert.Equal(t, "S / ", variants[0].DisplayLabel)
	assert.Equal(t, " / ", variants[1].DisplayLabel)
}

func TestBuildVariants_DuplicateAxisNamesKeepPosition(t *testing.T) {
	axes := []Axis{
		{Name: "Option", RawValues: "x,y"},
		{Name: "Option", RawValues: "1,2,3"},
	}
	variants := BuildVariants(axes)
	require.Len(t, variants, 6)
	for _, v := range variants {
		require.Len(t, v.OptionValues, 2)
		assert.Contains(t, []string{"x", "y"}, v.OptionValues[0].Value)
		assert.Contains(t, []string{"1", "2", "3"}, v.OptionValues[1].Value)
	}
}

func TestUpdateVariantField_Isolation(t *testing.T) {
	original := BuildVariants(sizeColor())

	updated, err := UpdateVariantField(original, 2, FieldStock, "5")
	require.NoError(t, err)

	assert.Equal(t, 5, updated[2].Stock)
	assert.Zero(t, original[2].Stock, "input is not mutated")

	for i := range original {
		if i == 2 {
			want := original[i]
			want.Stock = 5
			assert.Equal(t, want, updated[i])
			continue
		}
		assert.Equal(t, original[i], updated[i])
	}
}

func TestUpdateVariantField_Fields(t *testing.T) {
	variants := BuildVariants(sizeColor())

	variants, err := UpdateVariantField(variants, 0, FieldOriginalPrice, "13900")
	require.NoError(t, err)
	variants, err = UpdateVariantField(variants, 0, FieldSalePrice, "12900")
	require.NoError(t, err)

	assert.Equal(t, 13900, variants[0].OriginalPrice)
	assert.Equal(t, 12900, variants[0].SalePrice)
	assert.Zero(t, variants[0].Stock)
}

func TestUpdateVariantField_Errors(t *testing.T) {
	variants := BuildVariants(sizeColor())

	out, err := UpdateVariantField(variants, 6, FieldStock, "1")
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	assert.Equal(t, variants, out)

	_, err = UpdateVariantField(variants, -1, FieldStock, "1")
	assert.ErrorIs(t, err, ErrRowOutOfRange)

	_, err = UpdateVariantField(variants, 0, Field("weight"), "1")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRemoveVariant(t *testing.T) {
	variants := BuildVariants(sizeColor())

	out, err := RemoveVariant(variants, 0)
	require.NoError(t, err)
	assert.Len(t, out, 5)
	assert.Equal(t, "S / Blue", out[0].DisplayLabel)
	assert.Len(t, variants, 6)

	_, err = RemoveVariant(variants, 6)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestCoerceInt(t *testing.T) {
	tests := map[string]int{
		"42":      42,
		"  7":     7,
		"-4":      -4,
		"+3":      3,
		"12abc":   12,
		"3.9":     3,
		"abc":     0,
		"":        0,
		"-":       0,
		"1,000":   1,
		"0012":    12,
		"\t15 ea": 15,
	}
	for in, want := range tests {
		assert.Equal(t, want, CoerceInt(in), "input %q", in)
	}
}
