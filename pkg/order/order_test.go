package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetItemAppendAndReplace(t *testing.T) {
	d := &Draft{Category: CategoryCarpet, TargetItemCount: 3}

	require.NoError(t, d.SetItem(0, ItemSpec{Index: 1, Size: "2x2", AreaM2: 4}))
	require.NoError(t, d.SetItem(1, ItemSpec{Index: 2, Size: "1x2", AreaM2: 2}))
	require.Len(t, d.Items, 2)

	// Replace in place, no append.
	require.NoError(t, d.SetItem(0, ItemSpec{Index: 1, Size: "2x3", AreaM2: 6}))
	require.Len(t, d.Items, 2)
	assert.Equal(t, "2x3", d.Items[0].Size)
}

func TestSetItemRejectsGaps(t *testing.T) {
	d := &Draft{Category: CategoryCarpet, TargetItemCount: 3}

	err := d.SetItem(2, ItemSpec{Index: 3, Size: "2x2", AreaM2: 4})
	require.Error(t, err)
	assert.Empty(t, d.Items)

	require.Error(t, d.SetItem(-1, ItemSpec{}))
	require.Error(t, d.SetItem(MaxItemCount, ItemSpec{}))
}

func TestCloneIsDeep(t *testing.T) {
	area := 4.0
	d := &Draft{
		Category:        CategoryCarpet,
		TargetItemCount: 1,
		Items:           []ItemSpec{{Index: 1, Size: "2x2", AreaM2: 4}},
		Address:         &Address{Kind: AddressManual, Text: "Mirabad district, 12"},
		Pricing:         Pricing{TotalAreaM2: &area, BaseCost: 60000, FinalCost: 60000},
	}

	clone := d.Clone()
	clone.Items[0].Size = "3x4"
	clone.Address.Text = "elsewhere"
	*clone.Pricing.TotalAreaM2 = 99

	assert.Equal(t, "2x2", d.Items[0].Size)
	assert.Equal(t, "Mirabad district, 12", d.Address.Text)
	assert.Equal(t, 4.0, *d.Pricing.TotalAreaM2)
}

func TestComplete(t *testing.T) {
	d := &Draft{
		Category:        CategorySofa,
		TargetItemCount: 2,
		Items: []ItemSpec{
			{Index: 1, Type: Sofa2Seat},
			{Index: 2, Type: SofaCorner},
		},
		Address:       &Address{Kind: AddressManual, Text: "Tashkent, Mirabad district"},
		CustomerName:  "Alisher Usmanov",
		CustomerPhone: "+998 90 123 45 67",
	}
	assert.True(t, d.Complete())

	d.Items = d.Items[:1]
	assert.False(t, d.Complete(), "item count short of target")
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses() {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus(Status("shipped")))
}
