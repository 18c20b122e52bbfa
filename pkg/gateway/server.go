// Package gateway is the outer surface of the bot: the websocket chat
// endpoint customers talk through, and the HTTP API staff use to work the
// order queue.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"cleanbot/pkg/config"
	"cleanbot/pkg/i18n"
	"cleanbot/pkg/logx"
	"cleanbot/pkg/order"
	"cleanbot/pkg/proto"
	"cleanbot/pkg/store"
)

// Dispatcher enqueues inbound events for processing.
type Dispatcher interface {
	Dispatch(event proto.Event) bool
}

// OrderAdmin is the slice of the order store the staff API needs.
type OrderAdmin interface {
	ListOrders(ctx context.Context, status order.Status) ([]order.Record, error)
	GetByNumber(ctx context.Context, number int64) (order.Record, error)
	ChangeStatus(ctx context.Context, number int64, to order.Status, actor order.Actor) error
	StatusHistory(ctx context.Context, number int64) ([]store.StatusChange, error)
}

// Server serves the websocket chat endpoint and the staff API.
type Server struct {
	router   *chi.Mux
	hub      *Hub
	events   Dispatcher
	orders   OrderAdmin
	cfg      config.Config
	logger   *logx.Logger
	upgrader websocket.Upgrader
}

// NewServer wires the gateway. The hub doubles as the bot's transport.
func NewServer(hub *Hub, events Dispatcher, orders OrderAdmin, cfg config.Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		hub:    hub,
		events: events,
		orders: orders,
		cfg:    cfg,
		logger: logx.NewLogger("gateway"),
		upgrader: websocket.Upgrader{
			// Non-browser clients and the bundled web chat are both fine.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/ws", s.handleWS)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.requireAdminToken)
		r.Get("/orders", s.handleListOrders)
		r.Get("/orders/{number}", s.handleGetOrder)
		r.Get("/orders/{number}/history", s.handleOrderHistory)
		r.Post("/orders/{number}/status", s.handleChangeStatus)
	})

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWS upgrades the connection and pumps inbound frames into the
// dispatcher. The client identifies itself with a numeric user_id query
// parameter; chat ID and user ID coincide on this transport.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "user_id query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed: %v", err)
		return
	}

	s.hub.Register(userID, conn)
	defer func() {
		s.hub.Unregister(userID, conn)
		_ = conn.Close()
	}()

	if err := conn.WriteJSON(Outbound{Type: "connected", ChatID: userID}); err != nil {
		return
	}
	s.logger.Info("💬 User %d connected", userID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.DebugDomain("ws", "Websocket closed unexpectedly for user %d: %v", userID, err)
			}
			return
		}

		var frame Inbound
		if err := json.Unmarshal(payload, &frame); err != nil {
			_ = conn.WriteJSON(Outbound{Type: "error", Text: "invalid frame"})
			continue
		}

		event, ok := toEvent(userID, frame)
		if !ok {
			_ = conn.WriteJSON(Outbound{Type: "error", Text: "unknown frame type"})
			continue
		}
		if !s.events.Dispatch(event) {
			_ = conn.WriteJSON(Outbound{Type: "error", Text: "busy, try again"})
		}
	}
}

// toEvent converts a wire frame to a conversation event.
func toEvent(userID int64, frame Inbound) (proto.Event, bool) {
	event := proto.Event{
		UserID: userID,
		ChatID: userID,
		Origin: proto.MessageHandle{ChatID: userID, MessageID: frame.MessageID},
	}

	switch frame.Type {
	case "text":
		event.Kind = proto.EventText
		event.Text = frame.Text
	case "selection":
		event.Kind = proto.EventSelection
		event.Selection = frame.Selection
	case "location":
		event.Kind = proto.EventLocation
		event.Latitude = frame.Latitude
		event.Longitude = frame.Longitude
	case "contact":
		event.Kind = proto.EventContact
		event.Phone = frame.Phone
	default:
		return proto.Event{}, false
	}
	return event, true
}

// requireAdminToken guards the staff API with the configured bearer token.
func (s *Server) requireAdminToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" {
			http.Error(w, "admin API disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != s.cfg.AdminToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	status := order.Status(r.URL.Query().Get("status"))
	if status != "" && !order.IsValidStatus(status) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
		return
	}

	records, err := s.orders.ListOrders(r.Context(), status)
	if err != nil {
		s.logger.Error("Failed to list orders: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": records})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}

	rec, err := s.orders.GetByNumber(r.Context(), number)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to get order #%d: %v", number, err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}

	history, err := s.orders.StatusHistory(r.Context(), number)
	if err != nil {
		s.logger.Error("Failed to get history for order #%d: %v", number, err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"history": history})
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	number, ok := orderNumber(w, r)
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	to := order.Status(req.Status)
	if !order.IsValidStatus(to) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	err := s.orders.ChangeStatus(r.Context(), number, to, order.Actor{Kind: "admin"})
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, store.ErrTerminalStatus):
		respondError(w, http.StatusConflict, "order is in a terminal status")
		return
	case err != nil:
		s.logger.Error("Failed to change status of order #%d: %v", number, err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if to == order.StatusCompleted {
		s.askForRating(r.Context(), number)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// askForRating prompts the customer to rate a completed order. Best effort:
// the customer may simply be offline.
func (s *Server) askForRating(ctx context.Context, number int64) {
	rec, err := s.orders.GetByNumber(ctx, number)
	if err != nil {
		return
	}

	lang := rec.Snapshot.Language
	buttons := make([]proto.Button, 0, 6)
	for stars := 1; stars <= 5; stars++ {
		buttons = append(buttons, proto.Button{
			Label: i18n.Stars(stars),
			Data:  fmt.Sprintf("%s%d_%d", proto.SelRatePrefix, number, stars),
		})
	}
	buttons = append(buttons, proto.Button{
		Label: i18n.Text(lang, "btn_skip", nil),
		Data:  fmt.Sprintf("%s%d", proto.SelSkipRatingPrefix, number),
	})

	content := proto.PromptContent{
		Text:    i18n.Text(lang, "rate_order", i18n.Params{"number": number}),
		Buttons: buttons,
	}
	if _, err := s.hub.SendPrompt(ctx, rec.Snapshot.UserID, content); err != nil {
		s.logger.DebugDomain("ws", "Could not deliver rating prompt for order #%d: %v", number, err)
	}
}

func orderNumber(w http.ResponseWriter, r *http.Request) (int64, bool) {
	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil || number <= 0 {
		respondError(w, http.StatusBadRequest, "invalid order number")
		return 0, false
	}
	return number, true
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}
