package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notice is a store announcement managed from the console
type Notice struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	StoreID   int64     `json:"storeId" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null;size:200"`
	Content   string    `json:"content" gorm:"type:text"`
	IsActive  bool      `json:"isActive" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type CreateNoticeRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content"`
	IsActive *bool  `json:"isActive"`
}

type UpdateNoticeRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Content  *string `json:"content"`
	IsActive *bool   `json:"isActive"`
}

type BulkDeleteNoticesRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}
