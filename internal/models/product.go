package models

import (
	"strings"

	"merchant-console/internal/optionmatrix"
)

// FulfillmentDeliveryOnly is the only fulfillment method the console offers
const FulfillmentDeliveryOnly = "DELIVERY_ONLY"

// ProductDetails are the fields shared by single and option products
type ProductDetails struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	DisplayCategoryID int64   `json:"displayCategoryId"`
	StoreCategoryIDs  []int64 `json:"storeCategoryIds"`
	FulfillmentMethod string  `json:"fulfillmentMethod"`
}

// CreateSingleProductRequest is the backend payload for a product without options
type CreateSingleProductRequest struct {
	ProductDetails
	ImageURLs     string `json:"imageUrls"`
	OriginalPrice int    `json:"originalPrice"`
	SellingPrice  int    `json:"sellingPrice"`
	Stock         int    `json:"stock"`
}

// SingleProductForm is what the console posts. Numbers arrive as typed text.
type SingleProductForm struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	DisplayCategoryID int64   `json:"displayCategoryId"`
	StoreCategoryIDs  []int64 `json:"storeCategoryIds"`
	ImageURLs         string  `json:"imageUrls"`
	FulfillmentMethod string  `json:"fulfillmentMethod"`
	OriginalPrice     string  `json:"originalPrice"`
	SellingPrice      string  `json:"sellingPrice"`
	Stock             string  `json:"stock"`
}

// ToRequest coerces the typed text into the backend payload
func (f SingleProductForm) ToRequest() CreateSingleProductRequest {
	method := f.FulfillmentMethod
	if method == "" {
		method = FulfillmentDeliveryOnly
	}
	storeCategoryIDs := f.StoreCategoryIDs
	if storeCategoryIDs == nil {
		storeCategoryIDs = []int64{}
	}
	return CreateSingleProductRequest{
		ProductDetails: ProductDetails{
			Name:              f.Name,
			Description:       f.Description,
			DisplayCategoryID: f.DisplayCategoryID,
			StoreCategoryIDs:  storeCategoryIDs,
			FulfillmentMethod: method,
		},
		ImageURLs:     f.ImageURLs,
		OriginalPrice: optionmatrix.CoerceInt(f.OriginalPrice),
		SellingPrice:  optionmatrix.CoerceInt(f.SellingPrice),
		Stock:         optionmatrix.CoerceInt(f.Stock),
	}
}

// CreateOptionProductRequest is the backend payload for a product with options
type CreateOptionProductRequest struct {
	ProductDetails
	optionmatrix.Submission
}

// Product is a product as listed by the backend
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Category      string `json:"category"`
	StoreCategory string `json:"storeCategory"`
	OriginalPrice int    `json:"originalPrice"`
	SellingPrice  int    `json:"sellingPrice"`
	Stock         int    `json:"stock"`
	Description   string `json:"description,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	OptionType    string `json:"optionType,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// StatusAll disables status filtering
const StatusAll = "ALL"

// ProductFilter mirrors the search panel of the product list
type ProductFilter struct {
	Status        string `form:"status"`
	Search        string `form:"search"`
	Category      string `form:"category"`
	StoreCategory string `form:"storeCategory"`
}

// FilterProducts applies the filter conjunctively. Empty criteria match everything.
func FilterProducts(products []Product, f ProductFilter) []Product {
	search := strings.ToLower(f.Search)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Status != "" && f.Status != StatusAll && p.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.StoreCategory != "" && p.StoreCategory != f.StoreCategory {
			continue
		}
		out = append(out, p)
	}
	return out
}
