package repository

import (
	"context"

	"gorm.io/gorm"

	"assistant-go/internal/model"
)

// ConversationRepository defines persistence operations for conversations
// and their messages. Messages are append-only; ordering within a
// conversation is by creation time with the id as tiebreaker.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	FindConversation(ctx context.Context, userID, convID uint) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID uint, mode string, limit, offset int) ([]model.Conversation, error)
	UpdateConversation(ctx context.Context, conv *model.Conversation) error
	DeleteConversation(ctx context.Context, userID, convID uint) error

	AppendMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, convID uint, limit, offset int) ([]model.Message, error)
	LatestMessages(ctx context.Context, convID uint, n int) ([]model.Message, error)
	FirstMessages(ctx context.Context, convID uint, n int) ([]model.Message, error)
	CountMessages(ctx context.Context, convID uint) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository instance.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *conversationRepository) FindConversation(ctx context.Context, userID, convID uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", convID, userID).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListConversations(ctx context.Context, userID uint, mode string, limit, offset int) ([]model.Conversation, error) {
	var convs []model.Conversation
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Offset(offset)
	if mode != "" {
		q = q.Where("mode = ?", mode)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&convs).Error
	return convs, err
}

func (r *conversationRepository) UpdateConversation(ctx context.Context, conv *model.Conversation) error {
	return r.db.WithContext(ctx).Save(conv).Error
}

// DeleteConversation removes a conversation and all its messages in one
// transaction.
func (r *conversationRepository) DeleteConversation(ctx context.Context, userID, convID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", convID, userID).
			Delete(&model.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("conversation_id = ?", convID).
			Delete(&model.Message{}).Error
	})
}

// AppendMessage inserts the message and bumps the parent conversation's
// updated_at in the same transaction.
func (r *conversationRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			UpdateColumn("updated_at", msg.CreatedAt).Error
	})
}

func (r *conversationRepository) ListMessages(ctx context.Context, convID uint, limit, offset int) ([]model.Message, error) {
	var msgs []model.Message
	q := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&msgs).Error
	return msgs, err
}

// LatestMessages returns the last n messages in chronological order.
func (r *conversationRepository) LatestMessages(ctx context.Context, convID uint, n int) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// reverse into chronological order
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *conversationRepository) FirstMessages(ctx context.Context, convID uint, n int) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Limit(n).
		Find(&msgs).Error
	return msgs, err
}

func (r *conversationRepository) CountMessages(ctx context.Context, convID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ?", convID).
		Count(&count).Error
	return count, err
}
