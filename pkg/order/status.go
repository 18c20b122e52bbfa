package order

import "time"

// Status is the lifecycle state of a submitted order. After submission the
// lifecycle is owned by the order store and staff tooling, not the wizard.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []Status {
	return []Status{
		StatusPending,
		StatusAccepted,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status Status) bool {
	for _, valid := range ValidStatuses() {
		if status == valid {
			return true
		}
	}
	return false
}

// Actor identifies who changed an order's status.
type Actor struct {
	ID   int64  `json:"id,omitempty"`
	Kind string `json:"kind"` // "user", "admin" or "system"
}

// Snapshot is the immutable record handed to the order store at confirmation.
// It carries the draft by value plus the identity of the ordering user.
type Snapshot struct {
	UserID    int64     `json:"user_id"`
	Language  string    `json:"language"`
	Draft     Draft     `json:"draft"`
	CreatedAt time.Time `json:"created_at"`
}

// Record is a stored order as read back from the order store.
type Record struct {
	OrderID     string     `json:"order_id"`
	OrderNumber int64      `json:"order_number"`
	Snapshot    Snapshot   `json:"snapshot"`
	Status      Status     `json:"status"`
	Rating      int        `json:"rating,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
