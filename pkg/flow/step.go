// Package flow defines the ordering wizard's step graph: the step set, the
// forward transition table, the item-loop cursor rules, and the navigation
// relation used by both back buttons and the summary edit menu.
package flow

import (
	"cleanbot/pkg/proto"
)

// Step is one named point in the ordering wizard.
type Step string

const (
	StepLanguageSelect      Step = "LANGUAGE_SELECT"
	StepServiceSelect       Step = "SERVICE_SELECT"
	StepServiceDescription  Step = "SERVICE_DESCRIPTION"
	StepQuantitySelect      Step = "QUANTITY_SELECT"
	StepCustomQuantityEntry Step = "CUSTOM_QUANTITY_ENTRY"
	StepItemSizeSelect      Step = "ITEM_SIZE_SELECT"
	StepCustomSizeEntry     Step = "CUSTOM_SIZE_ENTRY"
	StepAddressMethodSelect Step = "ADDRESS_METHOD_SELECT"
	StepManualAddressEntry  Step = "MANUAL_ADDRESS_ENTRY"
	StepLocationCapture     Step = "LOCATION_CAPTURE"
	StepNameEntry           Step = "NAME_ENTRY"
	StepPhoneEntry          Step = "PHONE_ENTRY"
	StepOrderSummary        Step = "ORDER_SUMMARY"
	StepCommentEntry        Step = "COMMENT_ENTRY"
	StepConfirmed           Step = "CONFIRMED"
	StepFeedbackRating      Step = "FEEDBACK_RATING"
	StepFeedbackComment     Step = "FEEDBACK_COMMENT"
)

func (s Step) String() string {
	return string(s)
}

// ValidTransitions is the forward transition table. It covers the linear
// order flow, the item loop self-edge, the one-shot address fork, and the
// navigation targets reachable from each step. The controller validates every
// advance against this table; an off-table transition is a programming fault.
//
//nolint:gochecknoglobals // Shared immutable transition table
var ValidTransitions = map[Step][]Step{
	StepLanguageSelect: {StepServiceSelect},
	StepServiceSelect:  {StepServiceDescription, StepLanguageSelect},
	StepServiceDescription: {
		StepQuantitySelect,
		StepServiceSelect, // back
	},
	StepQuantitySelect: {
		StepItemSizeSelect,
		StepCustomQuantityEntry,
		StepServiceDescription, // back
	},
	StepCustomQuantityEntry: {
		StepItemSizeSelect,
		StepQuantitySelect, // back
	},
	StepItemSizeSelect: {
		StepItemSizeSelect, // loop re-entry with the next cursor
		StepCustomSizeEntry,
		StepAddressMethodSelect, // loop exit
		StepQuantitySelect,      // back
		StepOrderSummary,        // edited sizes with the rest of the draft intact
	},
	StepCustomSizeEntry: {
		StepItemSizeSelect,      // loop re-entry
		StepAddressMethodSelect, // loop exit
		StepOrderSummary,        // edited size with the rest of the draft intact
	},
	StepAddressMethodSelect: {
		StepManualAddressEntry,
		StepLocationCapture,
		StepItemSizeSelect, // back to last size
	},
	StepManualAddressEntry: {
		StepNameEntry,
		StepOrderSummary, // edited address with the rest of the draft intact
	},
	StepLocationCapture: {
		StepNameEntry,
		StepAddressMethodSelect, // cancel location sharing
		StepOrderSummary,        // edited address with the rest of the draft intact
	},
	StepNameEntry: {
		StepPhoneEntry,
		StepAddressMethodSelect, // back
		StepOrderSummary,        // edited name with the rest of the draft intact
	},
	StepPhoneEntry: {
		StepOrderSummary,
	},
	StepOrderSummary: {
		StepCommentEntry,
		StepConfirmed,
		// Edit menu jumps.
		StepServiceSelect,
		StepQuantitySelect,
		StepItemSizeSelect,
		StepAddressMethodSelect,
		StepNameEntry,
		StepPhoneEntry,
	},
	StepCommentEntry: {StepOrderSummary},
	StepConfirmed: {
		StepServiceSelect, // new order
		StepFeedbackRating,
	},
	StepFeedbackRating: {
		StepFeedbackComment,
		StepConfirmed, // skipped
	},
	StepFeedbackComment: {StepConfirmed},
}

// ValidTransition reports whether from → to is on the table. A step may
// always stay where it is (re-prompt in place).
func ValidTransition(from, to Step) bool {
	if from == to {
		return true
	}
	for _, next := range ValidTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// acceptedKinds maps each step to the inbound event shapes it accepts.
// Anything else is a structural mismatch handled per §controller rules.
//
//nolint:gochecknoglobals // Shared immutable contract table
var acceptedKinds = map[Step][]proto.EventKind{
	StepLanguageSelect:      {proto.EventSelection},
	StepServiceSelect:       {proto.EventSelection},
	StepServiceDescription:  {proto.EventSelection},
	StepQuantitySelect:      {proto.EventSelection},
	StepCustomQuantityEntry: {proto.EventText},
	StepItemSizeSelect:      {proto.EventSelection},
	StepCustomSizeEntry:     {proto.EventText},
	StepAddressMethodSelect: {proto.EventSelection},
	StepManualAddressEntry:  {proto.EventText},
	StepLocationCapture:     {proto.EventLocation, proto.EventText},
	StepNameEntry:           {proto.EventText, proto.EventSelection},
	StepPhoneEntry:          {proto.EventText, proto.EventContact},
	StepOrderSummary:        {proto.EventSelection},
	StepCommentEntry:        {proto.EventText},
	StepConfirmed:           {proto.EventSelection},
	StepFeedbackRating:      {proto.EventSelection},
	StepFeedbackComment:     {proto.EventText, proto.EventSelection},
}

// Accepts reports whether a step accepts events of the given kind.
func Accepts(step Step, kind proto.EventKind) bool {
	for _, k := range acceptedKinds[step] {
		if k == kind {
			return true
		}
	}
	return false
}

// InItemLoop reports whether the step is inside the per-item sizing loop,
// i.e. the item cursor is meaningful.
func InItemLoop(step Step) bool {
	return step == StepItemSizeSelect || step == StepCustomSizeEntry
}

// NextAfterItem computes the loop continuation after the item at cursor has
// been sized: re-enter the size prompt with the next cursor, or exit to the
// address step once every declared item is covered.
func NextAfterItem(cursor, targetCount int) (Step, int) {
	if cursor+1 < targetCount {
		return StepItemSizeSelect, cursor + 1
	}
	return StepAddressMethodSelect, 0
}
