// Package testkit provides testing fakes for the conversation transport.
package testkit

import (
	"context"
	"errors"
	"sync"

	"cleanbot/pkg/proto"
)

// SentMessage records one message delivered through the fake transport.
type SentMessage struct {
	Handle  proto.MessageHandle
	Content proto.PromptContent
	Deleted bool
}

// FakeTransport is an in-memory proto.Transport. It records every sent
// message and tracks deletions, so tests can assert on transcript state and
// on the single-active-prompt invariant.
type FakeTransport struct {
	mu     sync.Mutex
	nextID int64
	sent   []SentMessage

	// FailSend makes SendPrompt fail when set.
	FailSend bool
	// FailDelete makes DeleteMessage fail when set (simulates an already
	// deleted message).
	FailDelete bool
}

// NewFakeTransport creates an empty fake transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

var errTransport = errors.New("transport failure")

func (f *FakeTransport) SendPrompt(_ context.Context, chatID int64, content proto.PromptContent) (proto.MessageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailSend {
		return proto.MessageHandle{}, errTransport
	}
	f.nextID++
	handle := proto.MessageHandle{ChatID: chatID, MessageID: f.nextID}
	f.sent = append(f.sent, SentMessage{Handle: handle, Content: content})
	return handle, nil
}

func (f *FakeTransport) DeleteMessage(_ context.Context, handle proto.MessageHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailDelete {
		return errTransport
	}
	for i := range f.sent {
		if f.sent[i].Handle == handle {
			if f.sent[i].Deleted {
				return errors.New("message already deleted")
			}
			f.sent[i].Deleted = true
			return nil
		}
	}
	return errors.New("message not found")
}

func (f *FakeTransport) EditMessage(_ context.Context, handle proto.MessageHandle, content proto.PromptContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.sent {
		if f.sent[i].Handle == handle && !f.sent[i].Deleted {
			f.sent[i].Content = content
			return nil
		}
	}
	return errors.New("message not found")
}

// Sent returns a copy of all recorded messages, including deleted ones.
func (f *FakeTransport) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage(nil), f.sent...)
}

// Live returns the messages not yet deleted, in send order.
func (f *FakeTransport) Live() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var live []SentMessage
	for _, m := range f.sent {
		if !m.Deleted {
			live = append(live, m)
		}
	}
	return live
}

// LastLive returns the most recently sent message that is still live.
func (f *FakeTransport) LastLive() (SentMessage, bool) {
	live := f.Live()
	if len(live) == 0 {
		return SentMessage{}, false
	}
	return live[len(live)-1], true
}
