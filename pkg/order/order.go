// Package order defines the order domain model: the draft being assembled by
// the wizard, its line items, and the statuses of a submitted order.
package order

import "fmt"

// ServiceCategory identifies the service being ordered. Carpet orders are
// priced by area, sofa orders by item type.
type ServiceCategory string

const (
	CategoryCarpet ServiceCategory = "carpet"
	CategorySofa   ServiceCategory = "sofa"
)

// Valid reports whether the category is one of the known service types.
func (c ServiceCategory) Valid() bool {
	return c == CategoryCarpet || c == CategorySofa
}

// SofaType is the closed set of sofa item tags.
type SofaType string

const (
	Sofa2Seat    SofaType = "2_seat"
	Sofa3Seat    SofaType = "3_seat"
	SofaCorner   SofaType = "corner"
	SofaArmchair SofaType = "armchair"

	// DefaultSofaType is the fallback for unrecognized tags.
	DefaultSofaType = Sofa2Seat
)

// Quantity bounds for an order.
const (
	MinItemCount = 1
	MaxItemCount = 10

	// QuickPickMax is the largest quantity offered as a one-tap choice;
	// larger quantities go through custom entry.
	QuickPickMax = 5
)

// ItemSpec is one line item. Index is 1-based and matches the item's position
// in the draft. Exactly one payload shape is filled depending on the category:
// Size+AreaM2 for carpets, Type for sofas.
type ItemSpec struct {
	Index  int      `json:"index"`
	Size   string   `json:"size,omitempty"`
	AreaM2 float64  `json:"area_m2,omitempty"`
	Type   SofaType `json:"type,omitempty"`
}

// AddressKind tags how the customer supplied their address.
type AddressKind string

const (
	AddressManual   AddressKind = "manual"
	AddressLocation AddressKind = "location"
)

// Address is either free text or a coordinate pair, never both.
type Address struct {
	Kind      AddressKind `json:"kind"`
	Text      string      `json:"text,omitempty"`
	Latitude  float64     `json:"latitude,omitempty"`
	Longitude float64     `json:"longitude,omitempty"`
}

// Pricing holds the derived cost figures for a draft. TotalAreaM2 and
// PricePerUnit are nil for type-priced categories.
type Pricing struct {
	TotalAreaM2    *float64 `json:"total_area_m2,omitempty"`
	PricePerUnit   *float64 `json:"price_per_unit,omitempty"`
	BaseCost       float64  `json:"base_cost"`
	DiscountAmount float64  `json:"discount_amount"`
	FinalCost      float64  `json:"final_cost"`
}

// Draft is the order under construction. Fields fill in as wizard steps
// complete; Pricing is recomputed from Items before every display or persist.
type Draft struct {
	Category        ServiceCategory `json:"category"`
	TargetItemCount int             `json:"target_item_count"`
	Items           []ItemSpec      `json:"items"`
	Address         *Address        `json:"address,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	Pricing         Pricing         `json:"pricing"`
}

// SetItem stores an item at a 0-based position, replacing in place when the
// position already exists. Items never grow with gaps: an out-of-sequence
// append is a programming fault.
func (d *Draft) SetItem(pos int, item ItemSpec) error {
	switch {
	case pos < 0 || pos >= MaxItemCount:
		return fmt.Errorf("item position %d out of range", pos)
	case pos < len(d.Items):
		d.Items[pos] = item
	case pos == len(d.Items):
		d.Items = append(d.Items, item)
	default:
		return fmt.Errorf("item position %d would leave a gap (have %d items)", pos, len(d.Items))
	}
	return nil
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Items = append([]ItemSpec(nil), d.Items...)
	if d.Address != nil {
		addr := *d.Address
		clone.Address = &addr
	}
	if d.Pricing.TotalAreaM2 != nil {
		v := *d.Pricing.TotalAreaM2
		clone.Pricing.TotalAreaM2 = &v
	}
	if d.Pricing.PricePerUnit != nil {
		v := *d.Pricing.PricePerUnit
		clone.Pricing.PricePerUnit = &v
	}
	return &clone
}

// Complete reports whether every field required for submission is present.
func (d *Draft) Complete() bool {
	return d.Category.Valid() &&
		d.TargetItemCount >= MinItemCount &&
		len(d.Items) == d.TargetItemCount &&
		d.Address != nil &&
		d.CustomerName != "" &&
		d.CustomerPhone != ""
}
