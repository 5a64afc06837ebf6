package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocaleEN, ParseLocale("en"))
	assert.Equal(t, LocaleDE, ParseLocale("de"))
	assert.Equal(t, DefaultLocale, ParseLocale(""))
	assert.Equal(t, DefaultLocale, ParseLocale("fr"))
	assert.Equal(t, DefaultLocale, ParseLocale("EN"), "locale codes are case-sensitive")
}

func TestGetFallbackChain(t *testing.T) {
	full := MultiLanguageText{LocaleSR: "Апартман 1", LocaleEN: "Apartment 1"}

	assert.Equal(t, "Apartment 1", full.Get(LocaleEN))
	assert.Equal(t, "Апартман 1", full.Get(LocaleSR))
	// Нет немецкого, fallback на sr
	assert.Equal(t, "Апартман 1", full.Get(LocaleDE))

	noDefault := MultiLanguageText{LocaleDE: "Wohnung 1", LocaleIT: "Appartamento 1"}
	// Нет ни запрошенной локали, ни sr: берется первая по алфавиту
	assert.Equal(t, "Wohnung 1", noDefault.Get(LocaleEN))

	assert.Equal(t, "", MultiLanguageText{}.Get(LocaleEN))
	assert.Equal(t, "", MultiLanguageText(nil).Get(LocaleEN))
}

func TestGetSkipsEmptyValues(t *testing.T) {
	text := MultiLanguageText{LocaleEN: "", LocaleSR: "Студио"}
	assert.Equal(t, "Студио", text.Get(LocaleEN))
}

func TestValueAndScan(t *testing.T) {
	original := MultiLanguageText{LocaleSR: "Апартман 2", LocaleEN: "Apartment 2"}

	value, err := original.Value()
	require.NoError(t, err)

	var restored MultiLanguageText
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, original, restored)

	// JSONB приходит из lib/pq и как string
	raw, err := json.Marshal(original)
	require.NoError(t, err)
	var fromString MultiLanguageText
	require.NoError(t, fromString.Scan(string(raw)))
	assert.Equal(t, original, fromString)
}

func TestScanNil(t *testing.T) {
	restored := MultiLanguageText{LocaleSR: "x"}
	require.NoError(t, restored.Scan(nil))
	assert.Nil(t, restored)
}

func TestScanRejectsUnknownType(t *testing.T) {
	var text MultiLanguageText
	assert.Error(t, text.Scan(42))
}
