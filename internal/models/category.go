package models

// Category is a node of the marketplace display category tree
type Category struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	ParentID *int64     `json:"parentId,omitempty"`
	Depth    int        `json:"depth,omitempty"`
	Children []Category `json:"children,omitempty"`
}

// HomeCategory is a store-defined grouping shown on the store home
type HomeCategory struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
}

type HomeCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
}
