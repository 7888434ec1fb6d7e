package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"merchant-console/internal/models"
)

var ErrNotFound = errors.New("not found")

// likeEscaper makes a search term match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// NoticeRepository handles store notices
type NoticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// List returns the store's notices, newest first, optionally filtered by a
// case-insensitive title substring
func (r *NoticeRepository) List(ctx context.Context, storeID int64, search string) ([]models.Notice, error) {
	notices := []models.Notice{}
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}
	err := query.Order("created_at DESC").Find(&notices).Error
	return notices, err
}

func (r *NoticeRepository) Get(ctx context.Context, storeID int64, id uuid.UUID) (*models.Notice, error) {
	var notice models.Notice
	err := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).First(&notice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notice, nil
}

func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

// Update applies the non-nil fields of req
func (r *NoticeRepository) Update(ctx context.Context, storeID int64, id uuid.UUID, req models.UpdateNoticeRequest) (*models.Notice, error) {
	notice, err := r.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return notice, nil
	}
	if err := r.db.WithContext(ctx).Model(notice).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, storeID, id)
}

func (r *NoticeRepository) Delete(ctx context.Context, storeID int64, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id).Delete(&models.Notice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkDelete removes the listed notices of the store and reports how many went
func (r *NoticeRepository) BulkDelete(ctx context.Context, storeID int64, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("store_id = ? AND id IN ?", storeID, ids).Delete(&models.Notice{})
	return result.RowsAffected, result.Error
}
