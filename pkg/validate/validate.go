// Package validate implements the input validators for wizard steps. Each
// validator returns the normalized value plus an *Error carrying a
// localization key, so the controller can report the specific reason in the
// user's language without this package knowing any language-specific strings.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"cleanbot/pkg/order"
	"cleanbot/pkg/pricing"
)

// Bounds for the individual validators.
const (
	NameMinLen    = 5
	NameMaxLen    = 100
	CommentMinLen = 3
	CommentMaxLen = 500
	AddressMinLen = 10

	// Carpet dimensions accepted for custom sizes, in meters.
	DimensionMin = 0.5
	DimensionMax = 10
)

// Error is a recoverable validation failure. Key names a message in the
// localization catalog; Params fill its placeholders.
type Error struct {
	Key    string
	Params map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Key)
}

func fail(key string, params map[string]any) *Error {
	return &Error{Key: key, Params: params}
}

// Name validates and trims a customer name.
func Name(input string) (string, *Error) {
	name := strings.TrimSpace(input)

	if len([]rune(name)) < NameMinLen {
		return "", fail("err_name_too_short", map[string]any{"min": NameMinLen})
	}
	if len([]rune(name)) > NameMaxLen {
		return "", fail("err_name_too_long", map[string]any{"max": NameMaxLen})
	}

	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ' || r == '-' || r == '\'':
			// Allowed separators.
		default:
			return "", fail("err_name_bad_chars", nil)
		}
	}
	if !hasLetter {
		return "", fail("err_name_no_letters", nil)
	}
	if strings.Contains(name, "  ") {
		return "", fail("err_name_spaces", nil)
	}
	return name, nil
}

// Phone validates an Uzbekistan phone number and returns it in the
// "+998 XX XXX-XX-XX" display format. Accepted inputs: with or without +998,
// with arbitrary spaces, dashes and parentheses.
func Phone(input string) (string, *Error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	switch {
	case strings.HasPrefix(cleaned, "+998"):
		cleaned = cleaned[4:]
	case strings.HasPrefix(cleaned, "998") && len(cleaned) == 12:
		cleaned = cleaned[3:]
	case strings.HasPrefix(cleaned, "+"):
		return "", fail("err_phone_country", nil)
	}

	if len(cleaned) != 9 {
		return "", fail("err_phone_format", nil)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fail("err_phone_format", nil)
		}
	}

	formatted := fmt.Sprintf("+998 %s %s-%s-%s",
		cleaned[0:2], cleaned[2:5], cleaned[5:7], cleaned[7:9])
	return formatted, nil
}

// Quantity parses an item count within [min, max].
func Quantity(input string, min, max int) (int, *Error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fail("err_quantity_not_number", nil)
	}
	if quantity < min || quantity > max {
		return 0, fail("err_quantity_range", map[string]any{"min": min, "max": max})
	}
	return quantity, nil
}

// CustomSize parses a free-text carpet size, enforces dimension bounds and
// returns the computed area together with the normalized size token.
func CustomSize(input string) (area float64, normalized string, verr *Error) {
	width, height, err := pricing.ParseDimensions(input)
	if err != nil {
		return 0, "", fail("err_size_format", nil)
	}
	if width < DimensionMin || width > DimensionMax {
		return 0, "", fail("err_size_width_range", map[string]any{"min": DimensionMin, "max": DimensionMax})
	}
	if height < DimensionMin || height > DimensionMax {
		return 0, "", fail("err_size_height_range", map[string]any{"min": DimensionMin, "max": DimensionMax})
	}

	normalized = fmt.Sprintf("%sx%s",
		strconv.FormatFloat(width, 'f', -1, 64),
		strconv.FormatFloat(height, 'f', -1, 64))
	return pricing.Area(width, height), normalized, nil
}

// Comment validates an optional order comment.
func Comment(input string) (string, *Error) {
	comment := strings.TrimSpace(input)
	if len([]rune(comment)) < CommentMinLen {
		return "", fail("err_comment_too_short", map[string]any{"min": CommentMinLen})
	}
	if len([]rune(comment)) > CommentMaxLen {
		return "", fail("err_comment_too_long", map[string]any{"max": CommentMaxLen})
	}
	return comment, nil
}

// AddressText validates a manually entered address.
func AddressText(input string) (string, *Error) {
	address := strings.TrimSpace(input)
	if len([]rune(address)) < AddressMinLen {
		return "", fail("err_address_too_short", map[string]any{"min": AddressMinLen})
	}
	return address, nil
}

// SofaType maps a selection token to a sofa type tag, falling back to the
// default type for unrecognized tokens.
func SofaType(token string) order.SofaType {
	switch token {
	case "sofa_2":
		return order.Sofa2Seat
	case "sofa_3":
		return order.Sofa3Seat
	case "sofa_corner":
		return order.SofaCorner
	case "sofa_armchair":
		return order.SofaArmchair
	default:
		return order.DefaultSofaType
	}
}
