// Package i18n renders domain errors as user-facing messages from the
// "errors" namespace of the locale catalogs.
package i18n

import (
	"bytes"
	stderrors "errors"
	"sync"
	"text/template"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	i18ncatalog "github.com/dyle/rpgmapper-sub001/internal/platform/i18n/catalog"
)

const namespace = "errors"

// Messages holds the parsed error templates of one locale.
type Messages struct {
	locale    string
	raw       map[apperrors.Code]string
	templates map[apperrors.Code]*template.Template
}

// messagesByLocale caches Messages by resolved locale.
var messagesByLocale sync.Map

// For returns the error messages of the locale negotiated from requested.
// Unknown locales resolve to the base locale.
func For(requested string) *Messages {
	locale, raw := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, namespace)
	if cached, ok := messagesByLocale.Load(locale); ok {
		return cached.(*Messages)
	}
	cached, _ := messagesByLocale.LoadOrStore(locale, NewMessages(locale, raw))
	return cached.(*Messages)
}

// NewMessages parses the templates keyed by error code. A template that does
// not parse is rendered as its raw text.
func NewMessages(locale string, raw map[string]string) *Messages {
	m := &Messages{
		locale:    locale,
		raw:       make(map[apperrors.Code]string, len(raw)),
		templates: make(map[apperrors.Code]*template.Template, len(raw)),
	}
	for key, text := range raw {
		code := apperrors.Code(key)
		m.raw[code] = text
		if t, err := template.New(key).Parse(text); err == nil {
			m.templates[code] = t
		}
	}
	return m
}

// Locale returns the locale the messages belong to.
func (m *Messages) Locale() string { return m.locale }

// Render fills the template of code with metadata. Codes without a message
// render as the code itself.
func (m *Messages) Render(code apperrors.Code, metadata map[string]string) string {
	t, ok := m.templates[code]
	if !ok {
		if text, ok := m.raw[code]; ok {
			return text
		}
		return string(code)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return m.raw[code]
	}
	return buf.String()
}

// Localize renders err for the requested locale. Errors without a domain
// code render the UNKNOWN message.
func Localize(err error, locale string) string {
	if err == nil {
		return ""
	}
	var metadata map[string]string
	var domainErr *apperrors.Error
	if stderrors.As(err, &domainErr) {
		metadata = domainErr.Metadata
	}
	return For(locale).Render(apperrors.CodeOf(err), metadata)
}
