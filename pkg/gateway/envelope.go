package gateway

// Inbound is one client-to-server websocket frame.
type Inbound struct {
	Type      string  `json:"type"` // "text", "selection", "location", "contact"
	Text      string  `json:"text,omitempty"`
	Selection string  `json:"selection,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Phone     string  `json:"phone,omitempty"`

	// MessageID optionally identifies the client-side message for
	// transcript hygiene.
	MessageID int64 `json:"message_id,omitempty"`
}

// OutboundButton is one inline button of a prompt frame.
type OutboundButton struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Outbound is one server-to-client websocket frame.
type Outbound struct {
	Type      string           `json:"type"` // "connected", "prompt", "edit", "delete", "error"
	MessageID int64            `json:"message_id,omitempty"`
	Text      string           `json:"text,omitempty"`
	Buttons   []OutboundButton `json:"buttons,omitempty"`
	Keyboard  string           `json:"keyboard,omitempty"`
	ChatID    int64            `json:"chat_id,omitempty"`
}
