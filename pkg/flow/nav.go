package flow

import (
	"errors"

	"cleanbot/pkg/order"
	"cleanbot/pkg/proto"
)

// ErrInvalidTransition is returned when an advance is not on the transition
// table. It indicates a programming fault, not a user error.
var ErrInvalidTransition = errors.New("invalid step transition")

// NavRule describes one backward or edit-menu navigation action. Both paths
// share this single table, so a back button and the corresponding edit jump
// can never diverge in what they clear.
type NavRule struct {
	// Target is the step the wizard re-enters.
	Target Step

	// Clear removes the draft fields that would otherwise be stale after
	// re-entering Target, and returns the item cursor to resume with.
	// The draft is an accumulating record, not a stack: each target clears
	// exactly its own downstream data and nothing else.
	Clear func(d *order.Draft) (itemCursor int)

	// Resumable marks actions after which a still-complete draft returns
	// straight to the summary once the edited value is re-collected.
	Resumable bool
}

// clear helpers shared between rules.

func clearAll(d *order.Draft) int {
	*d = order.Draft{}
	return 0
}

func clearQuantityDown(d *order.Draft) int {
	d.TargetItemCount = 0
	d.Items = nil
	return 0
}

func clearItems(d *order.Draft) int {
	d.Items = nil
	return 0
}

func clearAddress(d *order.Draft) int {
	d.Address = nil
	return 0
}

// redoLastSize keeps all items but positions the cursor on the last one so
// only it is re-collected; the address it led to is stale and goes away.
func redoLastSize(d *order.Draft) int {
	d.Address = nil
	if d.TargetItemCount > 0 {
		return d.TargetItemCount - 1
	}
	return 0
}

func clearName(d *order.Draft) int {
	d.CustomerName = ""
	return 0
}

func clearNothing(*order.Draft) int {
	return 0
}

// navRules maps selection tokens to navigation actions. Back buttons and the
// summary edit menu resolve through the same map.
//
//nolint:gochecknoglobals // Shared immutable navigation table
var navRules = map[string]NavRule{
	proto.SelBackToLanguage:    {Target: StepLanguageSelect, Clear: clearNothing},
	proto.SelBackToService:     {Target: StepServiceSelect, Clear: clearAll},
	proto.SelBackToDescription: {Target: StepServiceDescription, Clear: clearQuantityDown},
	proto.SelBackToQuantity:    {Target: StepQuantitySelect, Clear: clearItems},
	proto.SelBackToSizes:       {Target: StepItemSizeSelect, Clear: redoLastSize},
	proto.SelBackToAddress:     {Target: StepAddressMethodSelect, Clear: clearName},

	proto.SelEditService:  {Target: StepServiceSelect, Clear: clearAll},
	proto.SelEditQuantity: {Target: StepQuantitySelect, Clear: clearItems, Resumable: true},
	proto.SelEditSizes:    {Target: StepItemSizeSelect, Clear: clearItems, Resumable: true},
	proto.SelEditAddress:  {Target: StepAddressMethodSelect, Clear: clearAddress, Resumable: true},
	proto.SelEditName:     {Target: StepNameEntry, Clear: clearName, Resumable: true},
	proto.SelEditPhone: {Target: StepPhoneEntry, Resumable: true,
		Clear: func(d *order.Draft) int { d.CustomerPhone = ""; return 0 }},
}

// ResolveNav looks up the navigation rule for a selection token. The second
// result is false for tokens that are not navigation actions.
func ResolveNav(token string) (NavRule, bool) {
	rule, ok := navRules[token]
	return rule, ok
}
