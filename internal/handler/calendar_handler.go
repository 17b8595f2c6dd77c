package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"assistant-go/internal/middleware"
	"assistant-go/internal/service"
)

// CalendarHandler handles the calendar event REST endpoints.
type CalendarHandler struct {
	calendarService service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler instance.
func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// Create handles POST /calendar/events.
func (h *CalendarHandler) Create(c *gin.Context) {
	var in service.CalendarEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "title and startTime are required")
		return
	}
	event, err := h.calendarService.Create(middleware.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, event)
}

// List handles GET /calendar/events with optional ?from= and ?to=
// RFC 3339 bounds, or ?day=YYYY-MM-DD for a single day.
func (h *CalendarHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	if day := c.Query("day"); day != "" {
		d, err := time.ParseInLocation("2006-01-02", day, time.Local)
		if err != nil {
			respondBadRequest(c, "invalid day, expected YYYY-MM-DD")
			return
		}
		events, err := h.calendarService.ListDay(userID, d)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, events)
		return
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondBadRequest(c, "invalid from, expected RFC 3339")
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondBadRequest(c, "invalid to, expected RFC 3339")
			return
		}
		to = &t
	}

	events, err := h.calendarService.List(userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, events)
}

// Get handles GET /calendar/events/:id.
func (h *CalendarHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.calendarService.Get(middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, event)
}

// Update handles PUT /calendar/events/:id.
func (h *CalendarHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.CalendarEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	event, err := h.calendarService.Update(middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, event)
}

// Delete handles DELETE /calendar/events/:id.
func (h *CalendarHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.calendarService.Delete(middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
