package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanbot/pkg/order"
	"cleanbot/pkg/proto"
)

func TestValidTransitionLinearFlow(t *testing.T) {
	path := []Step{
		StepLanguageSelect,
		StepServiceSelect,
		StepServiceDescription,
		StepQuantitySelect,
		StepItemSizeSelect,
		StepAddressMethodSelect,
		StepManualAddressEntry,
		StepNameEntry,
		StepPhoneEntry,
		StepOrderSummary,
		StepConfirmed,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, ValidTransition(path[i], path[i+1]),
			"%s -> %s should be valid", path[i], path[i+1])
	}
}

func TestValidTransitionRejectsSkips(t *testing.T) {
	assert.False(t, ValidTransition(StepLanguageSelect, StepOrderSummary))
	assert.False(t, ValidTransition(StepQuantitySelect, StepConfirmed))
	assert.False(t, ValidTransition(StepConfirmed, StepOrderSummary))
}

func TestSelfTransitionAlwaysValid(t *testing.T) {
	// Re-prompting in place is never a transition violation.
	assert.True(t, ValidTransition(StepNameEntry, StepNameEntry))
	assert.True(t, ValidTransition(StepItemSizeSelect, StepItemSizeSelect))
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts(StepQuantitySelect, proto.EventSelection))
	assert.False(t, Accepts(StepQuantitySelect, proto.EventText))

	assert.True(t, Accepts(StepLocationCapture, proto.EventLocation))
	assert.True(t, Accepts(StepLocationCapture, proto.EventText)) // cancel keyword
	assert.False(t, Accepts(StepLocationCapture, proto.EventContact))

	assert.True(t, Accepts(StepPhoneEntry, proto.EventContact))
	assert.True(t, Accepts(StepPhoneEntry, proto.EventText))
}

func TestNextAfterItemLoop(t *testing.T) {
	// Mid-loop: advance the cursor and stay in the size step.
	next, cursor := NextAfterItem(0, 3)
	assert.Equal(t, StepItemSizeSelect, next)
	assert.Equal(t, 1, cursor)

	// Last item: exit to the address step.
	next, cursor = NextAfterItem(2, 3)
	assert.Equal(t, StepAddressMethodSelect, next)
	assert.Equal(t, 0, cursor)
}

func TestNextAfterItemSingleItemNeverLoops(t *testing.T) {
	next, cursor := NextAfterItem(0, 1)
	assert.Equal(t, StepAddressMethodSelect, next)
	assert.Equal(t, 0, cursor)
}

func TestInItemLoop(t *testing.T) {
	assert.True(t, InItemLoop(StepItemSizeSelect))
	assert.True(t, InItemLoop(StepCustomSizeEntry))
	assert.False(t, InItemLoop(StepQuantitySelect))
}

func fullDraft() *order.Draft {
	return &order.Draft{
		Category:        order.CategoryCarpet,
		TargetItemCount: 2,
		Items: []order.ItemSpec{
			{Index: 1, Size: "2x2", AreaM2: 4},
			{Index: 2, Size: "2x3", AreaM2: 6},
		},
		Address:       &order.Address{Kind: order.AddressManual, Text: "Tashkent, Mirabad district"},
		CustomerName:  "Alisher Usmanov",
		CustomerPhone: "+998 90 123-45-67",
		Comment:       "call ahead",
	}
}

func TestNavBackToQuantityClearsItemsOnly(t *testing.T) {
	rule, ok := ResolveNav(proto.SelBackToQuantity)
	require.True(t, ok)
	assert.Equal(t, StepQuantitySelect, rule.Target)

	d := fullDraft()
	cursor := rule.Clear(d)

	assert.Zero(t, cursor)
	assert.Nil(t, d.Items)
	// Everything upstream of items survives.
	assert.Equal(t, order.CategoryCarpet, d.Category)
	assert.Equal(t, 2, d.TargetItemCount)
	assert.NotNil(t, d.Address)
	assert.NotEmpty(t, d.CustomerName)
}

func TestNavBackToServiceClearsWholeDraft(t *testing.T) {
	rule, ok := ResolveNav(proto.SelBackToService)
	require.True(t, ok)

	d := fullDraft()
	rule.Clear(d)

	assert.Equal(t, order.Draft{}, *d)
}

func TestNavBackToSizesRedoesLastItem(t *testing.T) {
	rule, ok := ResolveNav(proto.SelBackToSizes)
	require.True(t, ok)
	assert.Equal(t, StepItemSizeSelect, rule.Target)

	d := fullDraft()
	cursor := rule.Clear(d)

	assert.Equal(t, 1, cursor, "cursor positioned on the last item")
	assert.Len(t, d.Items, 2, "items are kept for in-place replacement")
	assert.Nil(t, d.Address, "address downstream of sizing is stale")
}

func TestNavBackToAddressClearsNameOnly(t *testing.T) {
	rule, ok := ResolveNav(proto.SelBackToAddress)
	require.True(t, ok)

	d := fullDraft()
	rule.Clear(d)

	assert.Empty(t, d.CustomerName)
	assert.NotNil(t, d.Address)
	assert.NotEmpty(t, d.CustomerPhone)
}

func TestEditAndBackShareClearingSemantics(t *testing.T) {
	// The edit menu's quantity jump must clear exactly what the back button
	// clears; the two paths resolve through one table.
	back, ok := ResolveNav(proto.SelBackToQuantity)
	require.True(t, ok)
	edit, ok := ResolveNav(proto.SelEditQuantity)
	require.True(t, ok)

	d1, d2 := fullDraft(), fullDraft()
	back.Clear(d1)
	edit.Clear(d2)

	assert.Equal(t, *d1, *d2)
	assert.Equal(t, back.Target, edit.Target)
}

func TestEditJumpsAreResumable(t *testing.T) {
	for _, token := range []string{
		proto.SelEditQuantity, proto.SelEditSizes, proto.SelEditAddress,
		proto.SelEditName, proto.SelEditPhone,
	} {
		rule, ok := ResolveNav(token)
		require.True(t, ok, token)
		assert.True(t, rule.Resumable, token)
	}

	// Re-choosing the service rebuilds the draft from scratch; nothing to
	// resume to.
	rule, ok := ResolveNav(proto.SelEditService)
	require.True(t, ok)
	assert.False(t, rule.Resumable)
}

func TestResolveNavUnknownToken(t *testing.T) {
	_, ok := ResolveNav("confirm_order")
	assert.False(t, ok)
}

func TestNavTargetsAreReachableFromSummary(t *testing.T) {
	// Every edit-menu target must be a valid transition from the summary.
	for _, token := range []string{
		proto.SelEditService, proto.SelEditQuantity, proto.SelEditSizes,
		proto.SelEditAddress, proto.SelEditName, proto.SelEditPhone,
	} {
		rule, ok := ResolveNav(token)
		require.True(t, ok, token)
		assert.True(t, ValidTransition(StepOrderSummary, rule.Target),
			"summary -> %s (via %s)", rule.Target, token)
	}
}
