package gateway

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"cleanbot/pkg/logx"
	"cleanbot/pkg/proto"
)

// Hub tracks live websocket connections keyed by chat ID and implements
// proto.Transport on top of them. One chat has at most one connection; a
// reconnect replaces the previous socket.
type Hub struct {
	mu     sync.RWMutex
	conns  map[int64]*client
	nextID atomic.Int64
	logger *logx.Logger
}

// client wraps one websocket connection with a write lock, since gorilla
// connections allow only one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// NewHub creates an empty connection hub.
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[int64]*client),
		logger: logx.NewLogger("gateway"),
	}
}

// Register attaches a connection for a chat, closing any previous one.
func (h *Hub) Register(chatID int64, conn *websocket.Conn) {
	h.mu.Lock()
	prev := h.conns[chatID]
	h.conns[chatID] = &client{conn: conn}
	h.mu.Unlock()

	if prev != nil {
		_ = prev.conn.Close()
	}
}

// Unregister detaches a connection, but only if it is still the current one
// for the chat.
func (h *Hub) Unregister(chatID int64, conn *websocket.Conn) {
	h.mu.Lock()
	if current, ok := h.conns[chatID]; ok && current.conn == conn {
		delete(h.conns, chatID)
	}
	h.mu.Unlock()
}

// Connected reports whether a chat currently has a live connection.
func (h *Hub) Connected(chatID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[chatID]
	return ok
}

func (h *Hub) get(chatID int64) (*client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[chatID]
	if !ok {
		return nil, fmt.Errorf("chat %d is not connected", chatID)
	}
	return c, nil
}

// SendPrompt implements proto.Transport.
func (h *Hub) SendPrompt(_ context.Context, chatID int64, content proto.PromptContent) (proto.MessageHandle, error) {
	c, err := h.get(chatID)
	if err != nil {
		return proto.MessageHandle{}, err
	}

	handle := proto.MessageHandle{ChatID: chatID, MessageID: h.nextID.Add(1)}
	frame := Outbound{
		Type:      "prompt",
		MessageID: handle.MessageID,
		Text:      content.Text,
		Buttons:   outboundButtons(content.Buttons),
		Keyboard:  string(content.Keyboard),
		ChatID:    chatID,
	}
	if err := c.writeJSON(frame); err != nil {
		return proto.MessageHandle{}, fmt.Errorf("failed to write prompt to chat %d: %w", chatID, err)
	}
	return handle, nil
}

// DeleteMessage implements proto.Transport.
func (h *Hub) DeleteMessage(_ context.Context, handle proto.MessageHandle) error {
	c, err := h.get(handle.ChatID)
	if err != nil {
		return err
	}
	if err := c.writeJSON(Outbound{Type: "delete", MessageID: handle.MessageID}); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", handle, err)
	}
	return nil
}

// EditMessage implements proto.Transport.
func (h *Hub) EditMessage(_ context.Context, handle proto.MessageHandle, content proto.PromptContent) error {
	c, err := h.get(handle.ChatID)
	if err != nil {
		return err
	}
	frame := Outbound{
		Type:      "edit",
		MessageID: handle.MessageID,
		Text:      content.Text,
		Buttons:   outboundButtons(content.Buttons),
		Keyboard:  string(content.Keyboard),
	}
	if err := c.writeJSON(frame); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", handle, err)
	}
	return nil
}

func outboundButtons(buttons []proto.Button) []OutboundButton {
	if len(buttons) == 0 {
		return nil
	}
	out := make([]OutboundButton, len(buttons))
	for i, b := range buttons {
		out[i] = OutboundButton{Label: b.Label, Data: b.Data}
	}
	return out
}
