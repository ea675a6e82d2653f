// Package i18n renders player-facing error messages and amounts per locale.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Code mirrors errors.Code; this package cannot import errors.
type Code = string

// BaseLocale is used when no requested locale matches.
const BaseLocale = "en-US"

// Catalog holds the message templates of one locale.
type Catalog struct {
	locale    string
	printer   *message.Printer
	templates map[Code]*template.Template
	raw       map[Code]string
}

var (
	supported = []language.Tag{language.AmericanEnglish, language.Russian}
	matcher   = language.NewMatcher(supported)

	registry = struct {
		sync.RWMutex
		byLocale map[string]*Catalog
	}{byLocale: map[string]*Catalog{
		BaseLocale: NewCatalog(BaseLocale, enUS),
		"ru-RU":    NewCatalog("ru-RU", ruRU),
	}}
)

// GetCatalog resolves an Accept-Language value to a catalog. A locale
// registered under the exact value wins; otherwise the best supported match
// is used, falling back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	registry.RLock()
	defer registry.RUnlock()
	if c, ok := registry.byLocale[requested]; ok {
		return c
	}
	_, index := language.MatchStrings(matcher, requested)
	if supported[index] == language.Russian {
		return registry.byLocale["ru-RU"]
	}
	return registry.byLocale[BaseLocale]
}

// RegisterCatalog makes cat the catalog for locale.
func RegisterCatalog(locale string, cat *Catalog) {
	registry.Lock()
	defer registry.Unlock()
	registry.byLocale[locale] = cat
}

// NewCatalog parses messages for locale. Templates that fail to parse are
// rendered verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	c := &Catalog{
		locale:    locale,
		printer:   message.NewPrinter(tag),
		templates: make(map[Code]*template.Template, len(messages)),
		raw:       make(map[Code]string, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		if tmpl, err := template.New(code).Parse(text); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template of code with params. Unknown codes render as
// the code itself.
func (c *Catalog) Format(code Code, params map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return text
	}
	if params == nil {
		params = map[string]string{}
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, params); err != nil {
		return text
	}
	return out.String()
}

// Amount renders a prize with locale-specific digit grouping.
func (c *Catalog) Amount(value int64) string {
	return c.printer.Sprintf("%d", value)
}
