package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanbot/pkg/config"
)

func TestTextSubstitutesParams(t *testing.T) {
	got := Text(config.LangRussian, "order_confirmed", Params{"number": 42})
	assert.Contains(t, got, "№42")
}

func TestTextUnknownLanguageFallsBackToRussian(t *testing.T) {
	assert.Equal(t,
		Text(config.LangRussian, "choose_service", nil),
		Text("fr", "choose_service", nil))
}

func TestTextUnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "no_such_key", Text(config.LangUzbek, "no_such_key", nil))
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	ru := catalogs[config.LangRussian]
	uz := catalogs[config.LangUzbek]
	require.NotEmpty(t, ru)

	for key := range ru {
		_, ok := uz[key]
		assert.True(t, ok, "uzbek catalog missing %q", key)
	}
	for key := range uz {
		_, ok := ru[key]
		assert.True(t, ok, "russian catalog missing %q", key)
	}
}

func TestNoUnresolvedPlaceholdersWithoutParams(t *testing.T) {
	// Keys without placeholders must render clean with a nil params map.
	got := Text(config.LangUzbek, "choose_language", nil)
	assert.False(t, strings.ContainsAny(got, "{}"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "162 000", FormatPrice(162000))
	assert.Equal(t, "90 000", FormatPrice(90000))
	assert.Equal(t, "1 500 000", FormatPrice(1500000))
	assert.Equal(t, "500", FormatPrice(500))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐⭐⭐", Stars(5))
	assert.Equal(t, "⭐", Stars(1))
}
