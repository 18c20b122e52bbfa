package proto

import "context"

// Button is one selectable affordance attached to a prompt.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"` // selection token delivered back as Event.Selection
}

// KeyboardKind selects a special input affordance for a prompt.
type KeyboardKind string

const (
	// KeyboardNone means plain text (and any inline buttons).
	KeyboardNone KeyboardKind = ""

	// KeyboardLocation requests a location share from the client.
	KeyboardLocation KeyboardKind = "location"

	// KeyboardContact requests a contact share from the client.
	KeyboardContact KeyboardKind = "contact"

	// KeyboardRemove tears down any special keyboard on the client.
	KeyboardRemove KeyboardKind = "remove"
)

// PromptContent is everything needed to render one bot prompt.
type PromptContent struct {
	Text     string       `json:"text"`
	Buttons  []Button     `json:"buttons,omitempty"` // inline buttons, in display order
	Keyboard KeyboardKind `json:"keyboard,omitempty"`
}

// Transport is the chat transport collaborator. Implementations deliver
// prompts to a conversation and remove or rewrite earlier messages.
// All failures are reported, never fatal to the caller.
type Transport interface {
	// SendPrompt delivers content to a chat and returns a handle to the
	// sent message.
	SendPrompt(ctx context.Context, chatID int64, content PromptContent) (MessageHandle, error)

	// DeleteMessage removes a previously sent message. Deleting a message
	// that is already gone returns an error the caller may ignore.
	DeleteMessage(ctx context.Context, handle MessageHandle) error

	// EditMessage replaces the content of a previously sent message.
	EditMessage(ctx context.Context, handle MessageHandle, content PromptContent) error
}
