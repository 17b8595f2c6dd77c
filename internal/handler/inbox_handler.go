package handler

import (
	"github.com/gin-gonic/gin"

	"assistant-go/internal/middleware"
	"assistant-go/internal/service"
	"assistant-go/pkg/log"
)

// maxUploadSize caps inbox uploads at 25 MB.
const maxUploadSize = 25 << 20

// InboxHandler handles scanned-document intake and retrieval.
type InboxHandler struct {
	inboxService service.InboxService
}

// NewInboxHandler creates a new InboxHandler instance.
func NewInboxHandler(inboxService service.InboxService) *InboxHandler {
	return &InboxHandler{inboxService: inboxService}
}

// Upload handles POST /inbox/scan (multipart form with a "file" part
// and an optional "scanType" field).
func (h *InboxHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "a file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		respondBadRequest(c, "file exceeds the 25 MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open uploaded file: %v", err)
		respondBadRequest(c, "unreadable file")
		return
	}
	defer file.Close()

	item, err := h.inboxService.Upload(
		c.Request.Context(),
		middleware.UserID(c),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
		c.PostForm("scanType"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, item)
}

// List handles GET /inbox with an optional ?status= filter.
func (h *InboxHandler) List(c *gin.Context) {
	items, err := h.inboxService.List(middleware.UserID(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, items)
}

// Get handles GET /inbox/:id.
func (h *InboxHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inboxService.Get(middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}

// DownloadURL handles GET /inbox/:id/download, returning a presigned
// object-store URL for the original file.
func (h *InboxHandler) DownloadURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.inboxService.DownloadURL(middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"url": url})
}

// Delete handles DELETE /inbox/:id.
func (h *InboxHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inboxService.Delete(middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
