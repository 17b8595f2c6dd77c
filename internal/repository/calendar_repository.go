package repository

import (
	"time"

	"gorm.io/gorm"

	"assistant-go/internal/model"
)

// CalendarRepository defines persistence operations for calendar events.
type CalendarRepository interface {
	Create(event *model.CalendarEvent) error
	FindByID(userID, eventID uint) (*model.CalendarEvent, error)
	List(userID uint, from, to *time.Time) ([]model.CalendarEvent, error)
	Update(event *model.CalendarEvent) error
	Delete(userID, eventID uint) error
}

type calendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository creates a new CalendarRepository instance.
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) Create(event *model.CalendarEvent) error {
	return r.db.Create(event).Error
}

func (r *calendarRepository) FindByID(userID, eventID uint) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.db.Where("id = ? AND user_id = ?", eventID, userID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns the user's events ordered by start time, optionally
// restricted to events starting within [from, to).
func (r *calendarRepository) List(userID uint, from, to *time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	q := r.db.Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("start_time >= ?", *from)
	}
	if to != nil {
		q = q.Where("start_time < ?", *to)
	}
	err := q.Order("start_time ASC").Find(&events).Error
	return events, err
}

func (r *calendarRepository) Update(event *model.CalendarEvent) error {
	return r.db.Save(event).Error
}

func (r *calendarRepository) Delete(userID, eventID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", eventID, userID).
		Delete(&model.CalendarEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
