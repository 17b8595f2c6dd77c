package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assistant-go/internal/middleware"
	"assistant-go/internal/service"
	"assistant-go/pkg/log"
)

// ConversationHandler handles conversation lifecycle, message history
// and the send endpoints (buffered and SSE streaming).
type ConversationHandler struct {
	convService service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler instance.
func NewConversationHandler(convService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// CreateConversationRequest is the request body for creating a
// conversation.
type CreateConversationRequest struct {
	Title string `json:"title"`
	Mode  string `json:"mode"`
}

// Create handles POST /conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBadRequest(c, "invalid request body")
		return
	}

	conv, err := h.convService.Create(c.Request.Context(), middleware.UserID(c), req.Title, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, conv)
}

// List handles GET /conversations with optional ?mode=, ?limit= and
// ?offset=.
func (h *ConversationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	convs, err := h.convService.List(c.Request.Context(), middleware.UserID(c), c.Query("mode"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, convs)
}

// Get handles GET /conversations/:id.
func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	conv, err := h.convService.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, conv)
}

// Delete handles DELETE /conversations/:id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.convService.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// Messages handles GET /conversations/:id/messages with optional
// ?limit= and ?offset=.
func (h *ConversationHandler) Messages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	msgs, err := h.convService.Messages(c.Request.Context(), middleware.UserID(c), id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, msgs)
}

// SendMessageRequest is the request body for both send endpoints.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Mode    string `json:"mode"`
	Stream  bool   `json:"stream"`
}

// Send handles POST /conversations/:id/messages, the buffered exchange.
// Streaming has a dedicated endpoint; stream:true here is a client error.
func (h *ConversationHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "content is required")
		return
	}
	if req.Stream {
		respondBadRequest(c, "use the /messages/stream endpoint for streaming responses")
		return
	}

	reply, err := h.convService.SendMessage(c.Request.Context(), middleware.UserID(c), id, service.SendInput{
		Content: req.Content,
		Mode:    req.Mode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reply)
}

// SendStream handles POST /conversations/:id/messages/stream. Chunks go
// out as server-sent events: "data: <chunk>" lines, "data: [DONE]" on
// success, an "event: error" frame on terminal failure.
func (h *ConversationHandler) SendStream(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "content is required")
		return
	}

	ch, err := h.convService.SendMessageStream(c.Request.Context(), middleware.UserID(c), id, service.SendInput{
		Content: req.Content,
		Mode:    req.Mode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	for chunk := range ch {
		switch {
		case chunk.Err != nil:
			log.Warnf("stream failed: %v", chunk.Err)
			fmt.Fprintf(c.Writer, "event: error\ndata: %s\n\n", chunk.Err.Error())
			flush()
			return
		case chunk.Done:
			fmt.Fprint(c.Writer, "data: [DONE]\n\n")
			flush()
		default:
			fmt.Fprintf(c.Writer, "data: %s\n\n", chunk.Content)
			flush()
		}
	}
}

// GenerateTitle handles POST /conversations/:id/generate-title.
func (h *ConversationHandler) GenerateTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	title, err := h.convService.GenerateTitle(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"title": title})
}
