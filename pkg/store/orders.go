package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cleanbot/pkg/order"
)

// ErrNotFound is returned when no order matches the requested number.
var ErrNotFound = errors.New("order not found")

// ErrTerminalStatus is returned when a status change is requested on an
// order that is already completed or cancelled.
var ErrTerminalStatus = errors.New("order is in a terminal status")

// Submit persists a confirmed order snapshot. It assigns a fresh order ID,
// the next sequential order number, sets status to pending and records the
// initial history entry, all in one transaction.
func (s *Store) Submit(ctx context.Context, snap order.Snapshot, chatID int64) (order.Record, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return order.Record{}, fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	now := time.Now().UTC()
	rec := order.Record{
		OrderID:   uuid.NewString(),
		Snapshot:  snap,
		Status:    order.StatusPending,
		CreatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return order.Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (user_id, chat_id, language, name, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			chat_id = excluded.chat_id,
			language = excluded.language,
			name = excluded.name,
			phone = excluded.phone,
			updated_at = excluded.updated_at`,
		snap.UserID, chatID, snap.Language,
		snap.Draft.CustomerName, snap.Draft.CustomerPhone,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return order.Record{}, fmt.Errorf("failed to upsert user %d: %w", snap.UserID, err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_number), 0) + 1 FROM orders`,
	).Scan(&rec.OrderNumber); err != nil {
		return order.Record{}, fmt.Errorf("failed to allocate order number: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, order_number, user_id, category, status, final_cost, snapshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.OrderID, rec.OrderNumber, snap.UserID, string(snap.Draft.Category),
		string(rec.Status), snap.Draft.Pricing.FinalCost, string(payload),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return order.Record{}, fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id, actor_kind, changed_at)
		VALUES (?, '', ?, ?, 'user', ?)`,
		rec.OrderID, string(order.StatusPending), snap.UserID, now.Format(time.RFC3339),
	)
	if err != nil {
		return order.Record{}, fmt.Errorf("failed to record status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return order.Record{}, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info("🧾 Order #%d submitted (user %d, %s, %.0f)",
		rec.OrderNumber, snap.UserID, snap.Draft.Category, snap.Draft.Pricing.FinalCost)
	return rec, nil
}

// GetByNumber returns the order with the given sequential number, or
// ErrNotFound.
func (s *Store) GetByNumber(ctx context.Context, number int64) (order.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT order_id, order_number, status, snapshot, rating, feedback, created_at, completed_at
		FROM orders WHERE order_number = ?`, number)
	return scanRecord(row)
}

// ListUserOrders returns all orders placed by a user, newest first.
func (s *Store) ListUserOrders(ctx context.Context, userID int64) ([]order.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, order_number, status, snapshot, rating, feedback, created_at, completed_at
		FROM orders WHERE user_id = ? ORDER BY order_number DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanRecords(rows)
}

// ListOrders returns orders, optionally filtered by status. An empty status
// returns everything, newest first.
func (s *Store) ListOrders(ctx context.Context, status order.Status) ([]order.Record, error) {
	query := `
		SELECT order_id, order_number, status, snapshot, rating, feedback, created_at, completed_at
		FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY order_number DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanRecords(rows)
}

// ChangeStatus moves an order to a new lifecycle status and appends a
// history entry. Completed and cancelled orders cannot be moved again.
func (s *Store) ChangeStatus(ctx context.Context, number int64, to order.Status, actor order.Actor) error {
	if !order.IsValidStatus(to) {
		return fmt.Errorf("invalid order status %q", to)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var orderID string
	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT order_id, status FROM orders WHERE order_number = ?`, number,
	).Scan(&orderID, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load order #%d: %w", number, err)
	}

	if order.Status(current) == to {
		return nil
	}
	if current == string(order.StatusCompleted) || current == string(order.StatusCancelled) {
		return ErrTerminalStatus
	}

	now := time.Now().UTC()
	var completedAt any
	if to == order.StatusCompleted {
		completedAt = now.Format(time.RFC3339)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, completed_at = COALESCE(?, completed_at) WHERE order_id = ?`,
		string(to), completedAt, orderID,
	); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_id, actor_kind, changed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		orderID, current, string(to), actor.ID, actor.Kind, now.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status change: %w", err)
	}

	s.logger.Info("📋 Order #%d: %s → %s (%s)", number, current, to, actor.Kind)
	return nil
}

// SaveFeedback stores the customer's rating (1-5) and optional feedback text
// for an order.
func (s *Store) SaveFeedback(ctx context.Context, number int64, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d out of range", rating)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET rating = ?, feedback = ? WHERE order_number = ?`,
		rating, feedback, number)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check feedback update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatusHistory returns the status change log for an order, oldest first.
func (s *Store) StatusHistory(ctx context.Context, number int64) ([]StatusChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.from_status, h.to_status, h.actor_id, h.actor_kind, h.changed_at
		FROM order_status_history h
		JOIN orders o ON o.order_id = h.order_id
		WHERE o.order_number = ?
		ORDER BY h.id`, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []StatusChange
	for rows.Next() {
		var change StatusChange
		var changedAt string
		if err := rows.Scan(&change.From, &change.To, &change.Actor.ID, &change.Actor.Kind, &changedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		change.ChangedAt, _ = time.Parse(time.RFC3339, changedAt)
		history = append(history, change)
	}
	return history, rows.Err()
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	From      order.Status `json:"from,omitempty"`
	To        order.Status `json:"to"`
	Actor     order.Actor  `json:"actor"`
	ChangedAt time.Time    `json:"changed_at"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (order.Record, error) {
	var rec order.Record
	var status, snapshot, createdAt string
	var completedAt sql.NullString

	err := row.Scan(&rec.OrderID, &rec.OrderNumber, &status, &snapshot,
		&rec.Rating, &rec.Feedback, &createdAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return order.Record{}, ErrNotFound
	}
	if err != nil {
		return order.Record{}, fmt.Errorf("failed to scan order: %w", err)
	}

	rec.Status = order.Status(status)
	if err := json.Unmarshal([]byte(snapshot), &rec.Snapshot); err != nil {
		return order.Record{}, fmt.Errorf("failed to unmarshal order snapshot: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err == nil {
			rec.CompletedAt = &t
		}
	}
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]order.Record, error) {
	var records []order.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
