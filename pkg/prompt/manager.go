// Package prompt enforces the conversation's single-active-prompt invariant:
// at most one bot-authored prompt message exists per chat at any time. The
// manager is pure transcript hygiene; it has no opinion on step logic.
package prompt

import (
	"context"
	"fmt"

	"cleanbot/pkg/logx"
	"cleanbot/pkg/metrics"
	"cleanbot/pkg/proto"
	"cleanbot/pkg/session"
)

// Manager presents prompts through the transport collaborator and tracks the
// resulting handles on the session.
type Manager struct {
	transport proto.Transport
	recorder  *metrics.Recorder
	logger    *logx.Logger
}

// NewManager creates a prompt manager. recorder may be nil.
func NewManager(transport proto.Transport, recorder *metrics.Recorder) *Manager {
	return &Manager{
		transport: transport,
		recorder:  recorder,
		logger:    logx.NewLogger("prompt"),
	}
}

// Present retires the session's previous active prompt (best-effort) and
// emits the new one, recording its handle. A failed deletion of the old
// prompt is swallowed; a failed send is returned.
func (m *Manager) Present(ctx context.Context, s *session.Session, content proto.PromptContent) error {
	m.retire(ctx, &s.ActivePrompt)

	handle, err := m.transport.SendPrompt(ctx, s.ChatID, content)
	if err != nil {
		return fmt.Errorf("failed to send prompt to chat %d: %w", s.ChatID, err)
	}
	s.ActivePrompt = handle
	return nil
}

// PresentAux retires the active prompt and emits a secondary prompt outside
// the single-prompt convention (e.g. a location or contact keyboard request),
// tracked separately so it can be torn down when its step exits.
func (m *Manager) PresentAux(ctx context.Context, s *session.Session, content proto.PromptContent) error {
	m.retire(ctx, &s.ActivePrompt)
	m.retire(ctx, &s.AuxPrompt)

	handle, err := m.transport.SendPrompt(ctx, s.ChatID, content)
	if err != nil {
		return fmt.Errorf("failed to send aux prompt to chat %d: %w", s.ChatID, err)
	}
	s.AuxPrompt = handle
	return nil
}

// RetireSilently drops the active prompt handle without emitting anything.
func (m *Manager) RetireSilently(s *session.Session) {
	s.ActivePrompt = proto.MessageHandle{}
}

// RetireAux deletes the session's secondary prompt, if any (best-effort).
func (m *Manager) RetireAux(ctx context.Context, s *session.Session) {
	m.retire(ctx, &s.AuxPrompt)
}

// Discard removes an arbitrary message (typically a user-composed one being
// cleaned from the transcript). Failures are swallowed.
func (m *Manager) Discard(ctx context.Context, handle proto.MessageHandle) {
	if handle.IsZero() {
		return
	}
	if err := m.transport.DeleteMessage(ctx, handle); err != nil {
		m.recorder.RecordPromptDeleteFailure()
		m.logger.DebugDomain("prompt", "could not delete message %s: %v", handle, err)
	}
}

// SendTransient emits a message that is never tracked as a prompt, such as a
// confirmation notice or a keyboard teardown.
func (m *Manager) SendTransient(ctx context.Context, chatID int64, content proto.PromptContent) {
	if _, err := m.transport.SendPrompt(ctx, chatID, content); err != nil {
		m.logger.Warn("failed to send transient message to chat %d: %v", chatID, err)
	}
}

// retire deletes the message behind *handle (best-effort) and zeroes it.
func (m *Manager) retire(ctx context.Context, handle *proto.MessageHandle) {
	if handle.IsZero() {
		return
	}
	if err := m.transport.DeleteMessage(ctx, *handle); err != nil {
		// The message may already be gone; transcript hygiene is best-effort.
		m.recorder.RecordPromptDeleteFailure()
		m.logger.DebugDomain("prompt", "could not delete prompt %s: %v", handle, err)
	}
	*handle = proto.MessageHandle{}
}
