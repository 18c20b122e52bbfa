// Package pricing implements the deterministic pricing engine. All functions
// are pure: given the same draft and price list they produce byte-identical
// figures, so a quote computed for the summary screen reproduces exactly at
// confirmation time.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cleanbot/pkg/config"
	"cleanbot/pkg/order"
)

// Engine computes cost figures from a draft. It holds only the price list and
// performs no I/O.
type Engine struct {
	carpet config.CarpetPricing
	sofa   config.SofaPricing
}

// NewEngine creates a pricing engine from the configured price list.
func NewEngine(cfg config.Pricing) *Engine {
	return &Engine{carpet: cfg.Carpet, sofa: cfg.Sofa}
}

// Quote computes the pricing for a draft. Items missing their payload
// contribute zero; the engine never fails on a partially-filled draft because
// it is also used for live previews mid-wizard.
func (e *Engine) Quote(d *order.Draft) order.Pricing {
	switch d.Category {
	case order.CategoryCarpet:
		return e.quoteCarpet(d)
	case order.CategorySofa:
		return e.quoteSofa(d)
	default:
		return order.Pricing{}
	}
}

// quoteCarpet prices by total area with a quantity discount. Areas and money
// are rounded to 2 decimal places here and never re-rounded downstream.
func (e *Engine) quoteCarpet(d *order.Draft) order.Pricing {
	var totalArea float64
	for _, item := range d.Items {
		totalArea += item.AreaM2
	}
	totalArea = round2(totalArea)

	baseCost := round2(totalArea * e.carpet.PricePerM2)

	var discount float64
	if d.TargetItemCount >= e.carpet.DiscountThreshold {
		discount = round2(baseCost * e.carpet.DiscountPercent / 100)
	}

	pricePerUnit := e.carpet.PricePerM2
	return order.Pricing{
		TotalAreaM2:    &totalArea,
		PricePerUnit:   &pricePerUnit,
		BaseCost:       baseCost,
		DiscountAmount: discount,
		FinalCost:      round2(baseCost - discount),
	}
}

// quoteSofa prices each item by its type tag. Unknown tags fall back to the
// default type's price; there is no discount, area or unit price.
func (e *Engine) quoteSofa(d *order.Draft) order.Pricing {
	var total float64
	for _, item := range d.Items {
		price, ok := e.sofa.BasePrices[string(item.Type)]
		if !ok {
			price = e.sofa.BasePrices[string(order.DefaultSofaType)]
		}
		total += price
	}
	total = round2(total)

	return order.Pricing{
		BaseCost:  total,
		FinalCost: total,
	}
}

// ParseDimensions parses a size entry like "2x3", "2.5x3.5" or "2 х 3 м" into
// a width/height pair. It tolerates spaces, metric suffixes and the Cyrillic
// letter х standing in for x.
func ParseDimensions(s string) (width, height float64, err error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.NewReplacer(" ", "", "м", "", "m", "", "х", "x", "*", "x").Replace(cleaned)

	parts := strings.Split(cleaned, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("size %q is not in WIDTHxHEIGHT form", s)
	}

	width, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q has a non-numeric width: %w", s, err)
	}
	height, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q has a non-numeric height: %w", s, err)
	}
	return width, height, nil
}

// SizeArea returns the rounded area for a size token, or 0 when the token
// does not parse. Quick-pick tokens like "2x3" always parse.
func SizeArea(s string) float64 {
	width, height, err := ParseDimensions(s)
	if err != nil {
		return 0
	}
	return Area(width, height)
}

// Area computes a rounded area from dimensions.
func Area(width, height float64) float64 {
	return round2(width * height)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
