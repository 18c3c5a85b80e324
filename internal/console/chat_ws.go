package console

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sanity-news/sanity/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "ask"
	Content string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type    string `json:"type"` // "response" or "error"
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

func (c *Console) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("console: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// A fresh conversation over an existing prediction opens with the verdict.
	if c.chat.Seed() {
		c.sendLastMessage(conn)
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("console: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.sendError(conn, "invalid message format")
			continue
		}

		switch req.Type {
		case "ask":
			c.handleAskMessage(conn, r, req)
		default:
			c.sendError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (c *Console) handleAskMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	before := len(c.store.ChatHistory())
	c.chat.Ask(r.Context(), req.Content)

	// Relay every message the controller appended (the user turn and the
	// assistant turn, or nothing for a no-op).
	for _, msg := range c.store.ChatHistory()[before:] {
		c.sendMessage(conn, msg)
	}

	if errMsg := c.store.Error(); errMsg != "" {
		c.sendError(conn, errMsg)
	}
}

func (c *Console) sendLastMessage(conn *websocket.Conn) {
	chatHistory := c.store.ChatHistory()
	if len(chatHistory) == 0 {
		return
	}
	c.sendMessage(conn, chatHistory[len(chatHistory)-1])
}

func (c *Console) sendMessage(conn *websocket.Conn, msg session.Message) {
	resp := chatResponse{
		Type:    "response",
		Role:    string(msg.Role),
		Content: msg.Message,
	}
	if msg.Role == session.RoleAssistant {
		resp.HTML = renderMarkdown(msg.Message)
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("console: websocket write: %v", err)
	}
}

func (c *Console) sendError(conn *websocket.Conn, message string) {
	resp := chatResponse{
		Type:    "error",
		Content: message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("console: websocket write error: %v", err)
	}
}
