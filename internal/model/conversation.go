package model

import "time"

// Conversation modes. Mode is fixed at creation; a send may override it
// for that single exchange only.
const (
	ModeChat  = "chat"
	ModeVoice = "voice"
	ModeNote  = "note"
	ModeScan  = "scan"
)

// ValidMode reports whether m is one of the known conversation modes.
func ValidMode(m string) bool {
	switch m {
	case ModeChat, ModeVoice, ModeNote, ModeScan:
		return true
	}
	return false
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation maps to the 'conversations' table. A conversation is owned
// by exactly one user; deleting it cascades to its messages.
type Conversation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Title     string    `gorm:"type:varchar(500);not null" json:"title"`
	Mode      string    `gorm:"type:varchar(20);not null;default:chat" json:"mode"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Messages  []Message `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// TableName sets the database table for this model.
func (Conversation) TableName() string {
	return "conversations"
}

// Message maps to the 'messages' table. Messages are immutable after
// creation and strictly ordered by creation time within a conversation.
type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	Role           string    `gorm:"type:varchar(20);not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Metadata       JSONMap   `gorm:"type:text" json:"metadata"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName sets the database table for this model.
func (Message) TableName() string {
	return "messages"
}
