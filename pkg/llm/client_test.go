package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"assistant-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) Client {
	return NewClient(config.LLMConfig{
		BaseURL: url,
		APIKey:  "test-key",
		Model:   "test-model",
	})
}

func TestCompleteReturnsMessageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.False(t, req.Stream)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "you are helpful", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hallo daar"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	reply, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hoi"}}, "you are helpful")

	require.NoError(t, err)
	assert.Equal(t, "hallo daar", reply)
}

func TestCompleteNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hoi"}}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
}

func streamBody() string {
	var b strings.Builder
	for _, chunk := range []string{"Hal", "lo ", "daar"} {
		b.WriteString(`data: {"choices":[{"delta":{"content":"` + chunk + `"}}]}` + "\n\n")
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func TestCompleteStreamForwardsChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(streamBody()))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	var got []string
	err := client.CompleteStream(context.Background(), []Message{{Role: "user", Content: "hoi"}}, "", func(chunk string) error {
		got = append(got, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hal", "lo ", "daar"}, got)
}

func TestCompleteStreamOnChunkErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(streamBody()))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	abort := errors.New("caller went away")
	calls := 0
	err := client.CompleteStream(context.Background(), []Message{{Role: "user", Content: "hoi"}}, "", func(chunk string) error {
		calls++
		return abort
	})

	require.ErrorIs(t, err, abort)
	assert.Equal(t, 1, calls)
}
