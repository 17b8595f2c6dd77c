package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
)

// Default event durations for events created through the chat pipeline.
const (
	defaultEventDuration    = time.Hour
	defaultReminderDuration = 5 * time.Minute
)

// CalendarEventInput carries the fields for creating or updating an
// event. A zero EndTime defaults to one hour after the start.
type CalendarEventInput struct {
	Title       string    `json:"title" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
}

// CalendarService handles the local calendar event store.
type CalendarService interface {
	Create(userID uint, in CalendarEventInput) (*model.CalendarEvent, error)
	Get(userID, eventID uint) (*model.CalendarEvent, error)
	List(userID uint, from, to *time.Time) ([]model.CalendarEvent, error)
	ListDay(userID uint, day time.Time) ([]model.CalendarEvent, error)
	Update(userID, eventID uint, in CalendarEventInput) (*model.CalendarEvent, error)
	Delete(userID, eventID uint) error
}

type calendarService struct {
	calendarRepo repository.CalendarRepository
}

// NewCalendarService creates a new CalendarService instance.
func NewCalendarService(calendarRepo repository.CalendarRepository) CalendarService {
	return &calendarService{calendarRepo: calendarRepo}
}

func (s *calendarService) Create(userID uint, in CalendarEventInput) (*model.CalendarEvent, error) {
	if in.Title == "" {
		return nil, apperr.Validationf("event title is required")
	}
	if in.StartTime.IsZero() {
		return nil, apperr.Validationf("event start time is required")
	}
	end := in.EndTime
	if end.IsZero() {
		end = in.StartTime.Add(defaultEventDuration)
	}
	if !end.After(in.StartTime) {
		return nil, apperr.Validationf("event end time must be after the start time")
	}

	event := &model.CalendarEvent{
		UserID:      userID,
		Title:       in.Title,
		StartTime:   in.StartTime,
		EndTime:     end,
		Description: in.Description,
		Location:    in.Location,
	}
	if err := s.calendarRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *calendarService) Get(userID, eventID uint) (*model.CalendarEvent, error) {
	event, err := s.calendarRepo.FindByID(userID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("event %d not found", eventID)
		}
		return nil, err
	}
	return event, nil
}

func (s *calendarService) List(userID uint, from, to *time.Time) ([]model.CalendarEvent, error) {
	return s.calendarRepo.List(userID, from, to)
}

// ListDay returns the events starting on the given calendar day.
func (s *calendarService) ListDay(userID uint, day time.Time) ([]model.CalendarEvent, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return s.calendarRepo.List(userID, &start, &end)
}

func (s *calendarService) Update(userID, eventID uint, in CalendarEventInput) (*model.CalendarEvent, error) {
	event, err := s.Get(userID, eventID)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		event.Title = in.Title
	}
	if !in.StartTime.IsZero() {
		event.StartTime = in.StartTime
	}
	if !in.EndTime.IsZero() {
		event.EndTime = in.EndTime
	}
	if !event.EndTime.After(event.StartTime) {
		return nil, apperr.Validationf("event end time must be after the start time")
	}
	event.Description = in.Description
	event.Location = in.Location
	if err := s.calendarRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *calendarService) Delete(userID, eventID uint) error {
	err := s.calendarRepo.Delete(userID, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("event %d not found", eventID)
	}
	return err
}
