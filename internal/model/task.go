package model

import (
	"fmt"
	"time"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task statuses. Any transition between statuses is allowed; validation
// happens at the HTTP schema layer only.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusOverdue    = "overdue"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusOverdue, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Task maps to the 'tasks' table. TaskNumber comes from an atomic
// installation-wide sequence; gaps are acceptable, duplicates are not.
type Task struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskNumber        uint64     `gorm:"uniqueIndex;not null" json:"taskNumber"`
	UserID            uint       `gorm:"index;not null" json:"userId"`
	Title             string     `gorm:"type:varchar(500);not null" json:"title"`
	Memo              string     `gorm:"type:text" json:"memo"`
	DelegatedTo       *uint      `gorm:"index" json:"delegatedTo"`
	DelegatedPerson   *Person    `gorm:"foreignKey:DelegatedTo" json:"delegatedPerson,omitempty"`
	DueDate           string     `gorm:"type:text" json:"dueDate"`
	Priority          string     `gorm:"type:varchar(20);not null;default:medium" json:"priority"`
	Status            string     `gorm:"type:varchar(50);not null;default:new;index" json:"status"`
	StatusDescription string     `gorm:"type:text" json:"statusDescription"`
	Tags              StringList `gorm:"type:text" json:"tags"`
	CompletedAt       *time.Time `json:"completedAt"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName sets the database table for this model.
func (Task) TableName() string {
	return "tasks"
}

// FormattedID returns the human-readable task identifier, e.g. Task-00000042.
func (t *Task) FormattedID() string {
	return fmt.Sprintf("Task-%08d", t.TaskNumber)
}
