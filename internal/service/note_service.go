package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
	"assistant-go/pkg/es"
	"assistant-go/pkg/log"
)

// NoteInput carries the fields for creating or updating a note.
type NoteInput struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// NoteService handles notes and their full-text search index. The
// database is the source of truth; Elasticsearch indexing is best
// effort and search falls back to a LIKE query when the index is
// unreachable.
type NoteService interface {
	Create(ctx context.Context, userID uint, in NoteInput) (*model.Note, error)
	Get(userID, noteID uint) (*model.Note, error)
	List(userID uint) ([]model.Note, error)
	Update(ctx context.Context, userID, noteID uint, in NoteInput) (*model.Note, error)
	Delete(ctx context.Context, userID, noteID uint) error
	Search(ctx context.Context, userID uint, query string, limit int) ([]model.SearchDocument, error)
}

type noteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new NoteService instance.
func NewNoteService(noteRepo repository.NoteRepository) NoteService {
	return &noteService{noteRepo: noteRepo}
}

func (s *noteService) Create(ctx context.Context, userID uint, in NoteInput) (*model.Note, error) {
	if in.Title == "" {
		return nil, apperr.Validationf("note title is required")
	}
	note := &model.Note{
		UserID:  userID,
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
	}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}
	s.index(ctx, note)
	return note, nil
}

func (s *noteService) Get(userID, noteID uint) (*model.Note, error) {
	note, err := s.noteRepo.FindByID(userID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("note %d not found", noteID)
		}
		return nil, err
	}
	return note, nil
}

func (s *noteService) List(userID uint) ([]model.Note, error) {
	return s.noteRepo.List(userID)
}

func (s *noteService) Update(ctx context.Context, userID, noteID uint, in NoteInput) (*model.Note, error) {
	note, err := s.Get(userID, noteID)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		note.Title = in.Title
	}
	note.Content = in.Content
	note.Tags = in.Tags
	if err := s.noteRepo.Update(note); err != nil {
		return nil, err
	}
	s.index(ctx, note)
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, userID, noteID uint) error {
	err := s.noteRepo.Delete(userID, noteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("note %d not found", noteID)
	}
	if err != nil {
		return err
	}
	if err := es.DeleteDocument(ctx, model.SearchDocNote, noteID); err != nil {
		log.Warnf("failed to remove note %d from search index: %v", noteID, err)
	}
	return nil
}

func (s *noteService) Search(ctx context.Context, userID uint, query string, limit int) ([]model.SearchDocument, error) {
	if query == "" {
		return nil, apperr.Validationf("search query is required")
	}
	docs, err := es.Search(ctx, userID, query, model.SearchDocNote, limit)
	if err == nil {
		return docs, nil
	}
	log.Warnf("search index unavailable, falling back to database: %v", err)

	notes, err := s.noteRepo.List(userID)
	if err != nil {
		return nil, err
	}
	return filterNotes(notes, query, limit), nil
}

func (s *noteService) index(ctx context.Context, note *model.Note) {
	doc := model.SearchDocument{
		DocType:   model.SearchDocNote,
		DocID:     note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		CreatedAt: note.CreatedAt,
	}
	if err := es.IndexDocument(ctx, doc); err != nil {
		log.Warnf("failed to index note %d: %v", note.ID, err)
	}
}
