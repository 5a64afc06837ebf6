// Package i18n содержит тип мультиязычного текста и единый хелпер извлечения
// локализованного значения с фиксированной цепочкой fallback.
package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// Locale код языка
type Locale string

const (
	LocaleSR Locale = "sr"
	LocaleEN Locale = "en"
	LocaleDE Locale = "de"
	LocaleIT Locale = "it"
)

// DefaultLocale язык по умолчанию и первый fallback
const DefaultLocale = LocaleSR

// SupportedLocales список поддерживаемых языков
var SupportedLocales = []Locale{LocaleSR, LocaleEN, LocaleDE, LocaleIT}

// ParseLocale возвращает локаль из строки, либо DefaultLocale для неизвестных значений
func ParseLocale(s string) Locale {
	for _, l := range SupportedLocales {
		if string(l) == s {
			return l
		}
	}
	return DefaultLocale
}

// MultiLanguageText мультиязычное значение, хранимое в БД как JSONB
// ({"sr": "...", "en": "..."}).
type MultiLanguageText map[Locale]string

// Get извлекает значение для запрошенной локали.
// Цепочка fallback: запрошенная локаль → "sr" → первый доступный язык → "".
func (t MultiLanguageText) Get(locale Locale) string {
	if len(t) == 0 {
		return ""
	}

	if v, ok := t[locale]; ok && v != "" {
		return v
	}

	if v, ok := t[DefaultLocale]; ok && v != "" {
		return v
	}

	// Стабильный порядок, чтобы результат не зависел от итерации по map
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		if v := t[Locale(k)]; v != "" {
			return v
		}
	}
	return ""
}

// Value реализует driver.Valuer для записи в JSONB-колонку
func (t MultiLanguageText) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan реализует sql.Scanner для чтения из JSONB-колонки
func (t *MultiLanguageText) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("i18n: cannot scan %T into MultiLanguageText", src)
	}

	return json.Unmarshal(data, t)
}
