// Package proto defines the conversation wire contract: inbound event shapes,
// selection tokens, prompt content, and the transport collaborator interface.
package proto

import "fmt"

// EventKind tags the shape of an inbound conversation event.
type EventKind string

const (
	// EventText is a free-text message typed by the user.
	EventText EventKind = "TEXT"

	// EventSelection is a button press carrying opaque selection data.
	EventSelection EventKind = "SELECTION"

	// EventLocation is a shared geolocation.
	EventLocation EventKind = "LOCATION"

	// EventContact is a shared contact card (phone number).
	EventContact EventKind = "CONTACT"
)

// Event is one inbound conversation event. Exactly the fields matching Kind
// are meaningful; the rest are zero.
type Event struct {
	UserID int64
	ChatID int64
	Kind   EventKind

	Text      string  // EventText
	Selection string  // EventSelection: one of the Sel* tokens below
	Latitude  float64 // EventLocation
	Longitude float64 // EventLocation
	Phone     string  // EventContact

	// Origin is the handle of the user-authored message that produced this
	// event, when the transport exposes one. Used for transcript hygiene.
	Origin MessageHandle
}

// MessageHandle is an opaque reference to a transport message.
type MessageHandle struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

// IsZero reports whether the handle refers to no message.
func (h MessageHandle) IsZero() bool {
	return h.MessageID == 0
}

func (h MessageHandle) String() string {
	return fmt.Sprintf("%d/%d", h.ChatID, h.MessageID)
}

// Selection tokens understood by the wizard. These are the conversation's
// button protocol; keyboards emit them and the controller routes on them.
const (
	SelLangPrefix    = "lang_"    // lang_ru, lang_uz
	SelServicePrefix = "service_" // service_carpet, service_sofa
	SelQtyPrefix     = "qty_"     // qty_1..qty_5, qty_more
	SelSizePrefix    = "size_"    // size_<index>_<token>, token "custom" for free entry

	SelOrderNow        = "order_now"
	SelQtyMore         = "qty_more"
	SelAddressManual   = "address_manual"
	SelAddressLocation = "address_location"
	SelAddComment      = "add_comment"
	SelConfirmOrder    = "confirm_order"
	SelEditOrder       = "edit_order"
	SelNewOrder        = "new_order"
	SelMyOrders        = "my_orders"

	SelBackToLanguage    = "back_to_language"
	SelBackToService     = "back_to_service"
	SelBackToDescription = "back_to_description"
	SelBackToQuantity    = "back_to_quantity"
	SelBackToSizes       = "back_to_sizes"
	SelBackToAddress     = "back_to_address"
	SelBackToSummary     = "back_to_summary"

	SelEditService  = "edit_service"
	SelEditQuantity = "edit_quantity"
	SelEditSizes    = "edit_sizes"
	SelEditAddress  = "edit_address"
	SelEditName     = "edit_name"
	SelEditPhone    = "edit_phone"

	SelRatePrefix          = "rate_"           // rate_<orderNumber>_<1..5>
	SelWriteFeedbackPrefix = "write_feedback_" // write_feedback_<orderNumber>
	SelSkipCommentPrefix   = "skip_comment_"   // skip_comment_<orderNumber>
	SelSkipRatingPrefix    = "skip_rating_"    // skip_rating_<orderNumber>
)
