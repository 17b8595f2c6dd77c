package handler

import (
	"github.com/gin-gonic/gin"

	"assistant-go/pkg/events"
)

// MonitorHandler exposes the recent application events kept by the
// in-memory ring sink.
type MonitorHandler struct {
	sink *events.RingSink
}

// NewMonitorHandler creates a new MonitorHandler instance.
func NewMonitorHandler(sink *events.RingSink) *MonitorHandler {
	return &MonitorHandler{sink: sink}
}

// Recent handles GET /monitor/events.
func (h *MonitorHandler) Recent(c *gin.Context) {
	respondOK(c, h.sink.Recent())
}

// Clear handles POST /monitor/clear.
func (h *MonitorHandler) Clear(c *gin.Context) {
	h.sink.Clear()
	respondOK(c, nil)
}
