package service

import (
	"strings"

	"assistant-go/internal/model"
)

// filterNotes is the database fallback for note search: a simple
// case-insensitive substring match on title, content and tags.
func filterNotes(notes []model.Note, query string, limit int) []model.SearchDocument {
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(query)
	docs := make([]model.SearchDocument, 0)
	for _, note := range notes {
		if len(docs) >= limit {
			break
		}
		if noteMatches(note, q) {
			docs = append(docs, model.SearchDocument{
				DocType:   model.SearchDocNote,
				DocID:     note.ID,
				UserID:    note.UserID,
				Title:     note.Title,
				Content:   note.Content,
				Tags:      note.Tags,
				CreatedAt: note.CreatedAt,
			})
		}
	}
	return docs
}

func noteMatches(note model.Note, q string) bool {
	if strings.Contains(strings.ToLower(note.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(note.Content), q) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
