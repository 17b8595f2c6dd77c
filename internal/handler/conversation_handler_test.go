package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-go/internal/model"
	"assistant-go/internal/service"
	"assistant-go/pkg/apperr"
)

type stubConvService struct {
	sendErr     error
	sendReply   *model.Message
	streamChunks []service.StreamChunk
}

func (s *stubConvService) Create(_ context.Context, userID uint, title, mode string) (*model.Conversation, error) {
	return &model.Conversation{ID: 1, UserID: userID, Title: title, Mode: mode}, nil
}

func (s *stubConvService) List(context.Context, uint, string, int, int) ([]model.Conversation, error) {
	return nil, nil
}

func (s *stubConvService) Get(context.Context, uint, uint) (*model.Conversation, error) {
	return nil, apperr.NotFoundf("conversation not found")
}

func (s *stubConvService) Delete(context.Context, uint, uint) error { return nil }

func (s *stubConvService) Messages(context.Context, uint, uint, int, int) ([]model.Message, error) {
	return nil, nil
}

func (s *stubConvService) SendMessage(context.Context, uint, uint, service.SendInput) (*model.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return s.sendReply, nil
}

func (s *stubConvService) SendMessageStream(context.Context, uint, uint, service.SendInput) (<-chan service.StreamChunk, error) {
	ch := make(chan service.StreamChunk, len(s.streamChunks))
	for _, c := range s.streamChunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (s *stubConvService) GenerateTitle(context.Context, uint, uint) (string, error) {
	return "Titel", nil
}

func newTestRouter(svc service.ConversationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewConversationHandler(svc)
	r.POST("/conversations/:id/messages", h.Send)
	r.POST("/conversations/:id/messages/stream", h.SendStream)
	return r
}

func TestSendRejectsStreamFlag(t *testing.T) {
	r := newTestRouter(&stubConvService{})

	req := httptest.NewRequest(http.MethodPost, "/conversations/1/messages",
		strings.NewReader(`{"content":"hoi","stream":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "stream")
}

func TestSendReturnsAssistantMessage(t *testing.T) {
	r := newTestRouter(&stubConvService{
		sendReply: &model.Message{ID: 2, Role: model.RoleAssistant, Content: "Hallo!"},
	})

	req := httptest.NewRequest(http.MethodPost, "/conversations/1/messages",
		strings.NewReader(`{"content":"hoi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hallo!")
}

func TestSendErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validationf("bad"), http.StatusBadRequest},
		{apperr.NotFoundf("missing"), http.StatusNotFound},
		{apperr.Upstreamf(nil, "llm down"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		r := newTestRouter(&stubConvService{sendErr: tc.err})

		req := httptest.NewRequest(http.MethodPost, "/conversations/1/messages",
			strings.NewReader(`{"content":"hoi"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code)
	}
}

func TestSendStreamWritesSSEFrames(t *testing.T) {
	r := newTestRouter(&stubConvService{
		streamChunks: []service.StreamChunk{
			{Content: "Hal"},
			{Content: "lo"},
			{Done: true},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/conversations/1/messages/stream",
		strings.NewReader(`{"content":"hoi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "data: Hal\n\n")
	assert.Contains(t, body, "data: lo\n\n")
	assert.True(t, strings.HasSuffix(body, "data: [DONE]\n\n"))
}

func TestSendStreamWritesErrorFrame(t *testing.T) {
	r := newTestRouter(&stubConvService{
		streamChunks: []service.StreamChunk{
			{Content: "Gedeeltelijk"},
			{Err: apperr.Upstreamf(nil, "de assistent is tijdelijk niet beschikbaar")},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/conversations/1/messages/stream",
		strings.NewReader(`{"content":"hoi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "event: error\ndata: de assistent is tijdelijk niet beschikbaar\n\n")
	assert.NotContains(t, body, "[DONE]")
}
