// Package session holds the per-user conversation state and the keyed stores
// it lives in. A session is mutated only by the conversation controller;
// stores provide get/put/clear keyed by user id and nothing else.
package session

import (
	"context"

	"cleanbot/pkg/flow"
	"cleanbot/pkg/order"
	"cleanbot/pkg/proto"
)

// PendingFeedback is a rating awaiting its optional comment. It is keyed by
// the completed order's public number, not the live draft.
type PendingFeedback struct {
	OrderNumber int64 `json:"order_number"`
	Rating      int   `json:"rating"`
}

// Session is one user's wizard state.
type Session struct {
	UserID   int64  `json:"user_id"`
	ChatID   int64  `json:"chat_id"`
	Language string `json:"language"`

	Step       flow.Step   `json:"step"`
	Draft      order.Draft `json:"draft"`
	ItemCursor int         `json:"item_cursor"`

	// ActivePrompt is the single bot message the conversation is waiting on.
	ActivePrompt proto.MessageHandle `json:"active_prompt,omitempty"`
	// AuxPrompt tracks a secondary prompt outside the single-prompt
	// convention (location / contact keyboard requests).
	AuxPrompt proto.MessageHandle `json:"aux_prompt,omitempty"`

	// ReturnToSummary is set while an edit-menu sub-flow is in progress:
	// once the draft is complete again the wizard returns to the summary
	// instead of re-walking the remaining linear steps.
	ReturnToSummary bool `json:"return_to_summary,omitempty"`

	PendingFeedback *PendingFeedback `json:"pending_feedback,omitempty"`

	// LastOrderNumber is the public number of the most recently confirmed
	// order, kept so the feedback sub-flow can be entered later.
	LastOrderNumber int64 `json:"last_order_number,omitempty"`
}

// New creates a fresh session at the language-selection step.
func New(userID, chatID int64, language string) *Session {
	return &Session{
		UserID:   userID,
		ChatID:   chatID,
		Language: language,
		Step:     flow.StepLanguageSelect,
	}
}

// Reset tears the wizard state down, retaining only identity and language.
func (s *Session) Reset() {
	s.Step = flow.StepLanguageSelect
	s.Draft = order.Draft{}
	s.ItemCursor = 0
	s.ActivePrompt = proto.MessageHandle{}
	s.AuxPrompt = proto.MessageHandle{}
	s.ReturnToSummary = false
	s.PendingFeedback = nil
}

// Clone returns a deep copy, so a stored session cannot alias a live one.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Draft = *s.Draft.Clone()
	if s.PendingFeedback != nil {
		pf := *s.PendingFeedback
		clone.PendingFeedback = &pf
	}
	return &clone
}

// Store is the keyed session store. Implementations must be safe for
// concurrent use; ordering of one user's operations is the dispatcher's job.
type Store interface {
	// Get returns the stored session for a user, or ok=false if none exists.
	Get(ctx context.Context, userID int64) (s *Session, ok bool, err error)

	// Put stores a session under its user id, replacing any previous one.
	Put(ctx context.Context, s *Session) error

	// Delete removes a user's session. Deleting a missing session is a no-op.
	Delete(ctx context.Context, userID int64) error
}
