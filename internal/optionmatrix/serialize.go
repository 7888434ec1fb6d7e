package optionmatrix

// OptionGroup is one axis as the product-creation endpoint expects it.
type OptionGroup struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// OptionValueRequest pairs a variant value with its option name.
type OptionValueRequest struct {
	OptionName  string `json:"optionName"`
	OptionValue string `json:"optionValue"`
}

// VariantRequest is one variant row on the wire.
type VariantRequest struct {
	OptionValues  []OptionValueRequest `json:"optionValues"`
	OriginalPrice int                  `json:"originalPrice"`
	SellingPrice  int                  `json:"sellingPrice"`
	Stock         int                  `json:"stock"`
}

// Submission is the option part of an option-product creation request.
type Submission struct {
	OptionGroups []OptionGroup    `json:"optionGroups"`
	Variants     []VariantRequest `json:"variants"`
}

// SerializeForSubmission converts axes and their generated variants into
// the request shape. Option names come from the tags recorded by
// BuildVariants. Consistency between axes and variants is not checked.
func SerializeForSubmission(axes []Axis, variants []Variant) Submission {
	sub := Submission{
		OptionGroups: make([]OptionGroup, 0, len(axes)),
		Variants:     make([]VariantRequest, 0, len(variants)),
	}
	for _, axis := range axes {
		sub.OptionGroups = append(sub.OptionGroups, OptionGroup{
			Name:   axis.Name,
			Values: axis.Values(),
		})
	}
	for _, v := range variants {
		values := make([]OptionValueRequest, len(v.OptionValues))
		for i, ov := range v.OptionValues {
			values[i] = OptionValueRequest{OptionName: ov.AxisName, OptionValue: ov.Value}
		}
		sub.Variants = append(sub.Variants, VariantRequest{
			OptionValues:  values,
			OriginalPrice: v.OriginalPrice,
			SellingPrice:  v.SalePrice,
			Stock:         v.Stock,
		})
	}
	return sub
}
