package model

import "time"

// Note maps to the 'notes' table.
type Note struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"userId"`
	Title     string     `gorm:"type:varchar(500);not null" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	Tags      StringList `gorm:"type:text" json:"tags"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName sets the database table for this model.
func (Note) TableName() string {
	return "notes"
}
