package model

import "time"

// Search document kinds.
const (
	SearchDocNote  = "note"
	SearchDocInbox = "inbox"
)

// SearchDocument is the shape indexed into Elasticsearch for full-text
// search over notes and processed inbox items.
type SearchDocument struct {
	DocType   string    `json:"doc_type"`
	DocID     uint      `json:"doc_id"`
	UserID    uint      `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
