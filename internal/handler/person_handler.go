package handler

import (
	"github.com/gin-gonic/gin"

	"assistant-go/internal/middleware"
	"assistant-go/internal/service"
)

// PersonHandler handles the address-book REST endpoints.
type PersonHandler struct {
	personService service.PersonService
}

// NewPersonHandler creates a new PersonHandler instance.
func NewPersonHandler(personService service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// Create handles POST /persons.
func (h *PersonHandler) Create(c *gin.Context) {
	var in service.PersonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	person, err := h.personService.Create(middleware.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, person)
}

// List handles GET /persons.
func (h *PersonHandler) List(c *gin.Context) {
	persons, err := h.personService.List(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, persons)
}

// Get handles GET /persons/:id.
func (h *PersonHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	person, err := h.personService.Get(middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, person)
}

// Update handles PUT /persons/:id.
func (h *PersonHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.PersonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	person, err := h.personService.Update(middleware.UserID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, person)
}

// Delete handles DELETE /persons/:id.
func (h *PersonHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.personService.Delete(middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
