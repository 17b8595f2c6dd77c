// Package handler contains the HTTP controllers.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assistant-go/pkg/apperr"
	"assistant-go/pkg/log"
)

// respondOK writes the standard success envelope.
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    data,
	})
}

// respondCreated writes the success envelope with a 201 status.
func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "created",
		"data":    data,
	})
}

// respondError translates the error taxonomy to an HTTP status:
// validation 400, not found 404, upstream 502, anything else 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsUpstream(err):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
	}
	c.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}

// respondBadRequest writes a plain 400 for binding failures.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"message": msg,
	})
}
