package repository

import (
	"gorm.io/gorm"

	"assistant-go/internal/model"
)

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	Create(note *model.Note) error
	FindByID(userID, noteID uint) (*model.Note, error)
	List(userID uint) ([]model.Note, error)
	Update(note *model.Note) error
	Delete(userID, noteID uint) error
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository instance.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *model.Note) error {
	return r.db.Create(note).Error
}

func (r *noteRepository) FindByID(userID, noteID uint) (*model.Note, error) {
	var note model.Note
	err := r.db.Where("id = ? AND user_id = ?", noteID, userID).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) List(userID uint) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Update(note *model.Note) error {
	return r.db.Save(note).Error
}

func (r *noteRepository) Delete(userID, noteID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", noteID, userID).
		Delete(&model.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
