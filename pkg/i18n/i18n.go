// Package i18n renders localized strings by key. The conversation core only
// ever asks for keys; no other package builds language-specific text.
package i18n

import (
	"fmt"
	"strings"

	"cleanbot/pkg/config"
)

// Params fill the {placeholder} slots of a catalog string.
type Params map[string]any

// Text renders the string for key in the given language, substituting
// params. Unknown languages fall back to Russian; an unknown key renders as
// the key itself, so a missing translation is visible instead of silent.
func Text(language, key string, params Params) string {
	catalog, ok := catalogs[language]
	if !ok {
		catalog = catalogs[config.LangRussian]
	}

	text, ok := catalog[key]
	if !ok {
		// Fall back to Russian before giving up on the key.
		if text, ok = catalogs[config.LangRussian][key]; !ok {
			return key
		}
	}

	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprint(value))
	}
	return text
}

// FormatPrice renders a money amount with space thousand separators and no
// decimals, the way prices are displayed throughout the bot.
func FormatPrice(amount float64) string {
	whole := fmt.Sprintf("%.0f", amount)

	negative := strings.HasPrefix(whole, "-")
	if negative {
		whole = whole[1:]
	}

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(digit)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// Stars renders a star rating like "⭐⭐⭐".
func Stars(rating int) string {
	return strings.Repeat("⭐", rating)
}
