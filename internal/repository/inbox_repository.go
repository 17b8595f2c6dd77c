package repository

import (
	"time"

	"gorm.io/gorm"

	"assistant-go/internal/model"
)

// InboxRepository defines persistence operations for scanned inbox items.
type InboxRepository interface {
	Create(item *model.InboxItem) error
	FindByID(userID, itemID uint) (*model.InboxItem, error)
	FindAnyByID(itemID uint) (*model.InboxItem, error)
	List(userID uint, status string) ([]model.InboxItem, error)
	MarkProcessed(itemID uint, extractedText string) error
	MarkFailed(itemID uint, reason string) error
	Delete(userID, itemID uint) error
}

type inboxRepository struct {
	db *gorm.DB
}

// NewInboxRepository creates a new InboxRepository instance.
func NewInboxRepository(db *gorm.DB) InboxRepository {
	return &inboxRepository{db: db}
}

func (r *inboxRepository) Create(item *model.InboxItem) error {
	return r.db.Create(item).Error
}

func (r *inboxRepository) FindByID(userID, itemID uint) (*model.InboxItem, error) {
	var item model.InboxItem
	err := r.db.Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAnyByID looks an item up without user scoping. The pipeline
// consumer uses it, since tasks already carry a trusted item id.
func (r *inboxRepository) FindAnyByID(itemID uint) (*model.InboxItem, error) {
	var item model.InboxItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inboxRepository) List(userID uint, status string) ([]model.InboxItem, error) {
	var items []model.InboxItem
	q := r.db.Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *inboxRepository) MarkProcessed(itemID uint, extractedText string) error {
	now := time.Now()
	return r.db.Model(&model.InboxItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"status":         model.InboxStatusProcessed,
			"extracted_text": extractedText,
			"failure_reason": "",
			"processed_at":   &now,
		}).Error
}

func (r *inboxRepository) MarkFailed(itemID uint, reason string) error {
	now := time.Now()
	return r.db.Model(&model.InboxItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"status":         model.InboxStatusFailed,
			"failure_reason": reason,
			"processed_at":   &now,
		}).Error
}

func (r *inboxRepository) Delete(userID, itemID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&model.InboxItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
