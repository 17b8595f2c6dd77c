package model

import "time"

// CalendarEvent maps to the 'calendar_events' table. This is the local
// event store the chat command pipeline writes into; synchronisation with
// external calendar providers happens outside this service.
type CalendarEvent struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Title       string    `gorm:"type:varchar(500);not null" json:"title"`
	StartTime   time.Time `gorm:"not null;index" json:"startTime"`
	EndTime     time.Time `gorm:"not null" json:"endTime"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:varchar(500)" json:"location"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName sets the database table for this model.
func (CalendarEvent) TableName() string {
	return "calendar_events"
}
