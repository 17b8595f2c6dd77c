package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"assistant-go/internal/middleware"
	"assistant-go/internal/service"
)

// NoteHandler handles the note REST endpoints, including full-text
// search.
type NoteHandler struct {
	noteService service.NoteService
}

// NewNoteHandler creates a new NoteHandler instance.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// Create handles POST /notes.
func (h *NoteHandler) Create(c *gin.Context) {
	var in service.NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "title is required")
		return
	}
	note, err := h.noteService.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, note)
}

// List handles GET /notes.
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.noteService.List(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, notes)
}

// Get handles GET /notes/:id.
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	note, err := h.noteService.Get(middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, note)
}

// Update handles PUT /notes/:id.
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "title is required")
		return
	}
	note, err := h.noteService.Update(c.Request.Context(), middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, note)
}

// Delete handles DELETE /notes/:id.
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.noteService.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// Search handles GET /notes/search?q=...&limit=...
func (h *NoteHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	docs, err := h.noteService.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, docs)
}
