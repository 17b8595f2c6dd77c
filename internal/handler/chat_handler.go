package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"assistant-go/internal/service"
	"assistant-go/pkg/log"
	"assistant-go/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the app origin; auth happens via the
	// token path parameter below.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatHandler bridges the conversation orchestrator to a WebSocket, for
// clients that keep one connection open instead of using SSE.
type ChatHandler struct {
	convService service.ConversationService
	userService service.UserService
	jwtManager  *token.JWTManager
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(convService service.ConversationService, userService service.UserService, jwtManager *token.JWTManager) *ChatHandler {
	return &ChatHandler{convService: convService, userService: userService, jwtManager: jwtManager}
}

// wsIncoming is one client frame: a message to send into a conversation.
type wsIncoming struct {
	ConversationID uint   `json:"conversationId"`
	Content        string `json:"content"`
	Mode           string `json:"mode"`
}

// wsOutgoing is one server frame.
type wsOutgoing struct {
	Type    string `json:"type"` // chunk | done | error
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

// Serve handles GET /chat/:token. WebSocket clients cannot set an
// Authorization header, so the token travels in the path.
func (h *ChatHandler) Serve(c *gin.Context) {
	tokenString := c.Param("token")
	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	revoked, err := h.userService.IsTokenRevoked(c.Request.Context(), tokenString)
	if err != nil || revoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	userID := claims.UserID
	for {
		var in wsIncoming
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("websocket read failed: %v", err)
			}
			return
		}

		ch, err := h.convService.SendMessageStream(c.Request.Context(), userID, in.ConversationID, service.SendInput{
			Content: in.Content,
			Mode:    in.Mode,
		})
		if err != nil {
			if werr := conn.WriteJSON(wsOutgoing{Type: "error", Message: err.Error()}); werr != nil {
				return
			}
			continue
		}

		for chunk := range ch {
			var frame wsOutgoing
			switch {
			case chunk.Err != nil:
				frame = wsOutgoing{Type: "error", Message: chunk.Err.Error()}
			case chunk.Done:
				frame = wsOutgoing{Type: "done"}
			default:
				frame = wsOutgoing{Type: "chunk", Content: chunk.Content}
			}
			if err := conn.WriteJSON(frame); err != nil {
				log.Warnf("websocket write failed: %v", err)
				return
			}
		}
	}
}
