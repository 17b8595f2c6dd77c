package model

import "time"

// Inbox item statuses.
const (
	InboxStatusPending   = "pending"
	InboxStatusProcessed = "processed"
	InboxStatusFailed    = "failed"
)

// InboxItem maps to the 'inbox_items' table. An item is created when a
// document is scanned in; the processing pipeline later fills in the
// extracted text and flips the status.
type InboxItem struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"userId"`
	FileName      string     `gorm:"type:varchar(255);not null" json:"fileName"`
	ObjectKey     string     `gorm:"type:varchar(500);not null" json:"objectKey"`
	ContentType   string     `gorm:"type:varchar(100)" json:"contentType"`
	Size          int64      `gorm:"not null" json:"size"`
	ScanType      string     `gorm:"type:varchar(20);not null;default:document" json:"scanType"`
	Status        string     `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	ExtractedText string     `gorm:"type:text" json:"extractedText"`
	FailureReason string     `gorm:"type:text" json:"failureReason,omitempty"`
	ProcessedAt   *time.Time `json:"processedAt"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName sets the database table for this model.
func (InboxItem) TableName() string {
	return "inbox_items"
}
