package i18n

import (
	"fmt"
	"testing"
	"text/template"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	i18ncatalog "github.com/dyle/rpgmapper-sub001/internal/platform/i18n/catalog"
)

func TestForFallsBackToBaseLocale(t *testing.T) {
	base := For("en-US")
	if base.Locale() != "en-US" {
		t.Fatalf("locale = %q", base.Locale())
	}
	if fallback := For("missing-locale"); fallback != base {
		t.Fatal("expected fallback to the en-US messages")
	}
	if german := For("de-DE"); german.Locale() != "de-DE" {
		t.Fatalf("locale = %q", german.Locale())
	}
}

func TestRenderFallbacks(t *testing.T) {
	m := NewMessages("test", map[string]string{
		"code":   "hello {{.Name}}",
		"broken": "{{ if .Name }}",
	})
	if got := m.Render("unknown", nil); got != "unknown" {
		t.Fatalf("missing template = %q", got)
	}
	if got := m.Render("code", nil); got != "hello <no value>" {
		t.Fatalf("missing metadata = %q", got)
	}
	if got := m.Render("broken", map[string]string{"Name": "X"}); got != "{{ if .Name }}" {
		t.Fatalf("unparsable template = %q", got)
	}
}

func TestEmbeddedErrorTemplatesParse(t *testing.T) {
	bundle := i18ncatalog.Default()
	for _, locale := range bundle.Locales() {
		for key, text := range bundle.NamespaceMessages(locale, namespace) {
			if _, err := template.New(key).Parse(text); err != nil {
				t.Fatalf("%s %s: %v", locale, key, err)
			}
		}
	}
}

func TestLocalizeRendersMetadata(t *testing.T) {
	err := apperrors.WithMetadata(apperrors.CodeDuplicateRegionName, "region exists", map[string]string{"Name": "North"})
	wrapped := fmt.Errorf("create region: %w", err)

	got := Localize(wrapped, "en-US")
	if got != `A region named "North" already exists.` {
		t.Fatalf("localize = %q", got)
	}
	german := Localize(wrapped, "de-DE")
	if german != `Eine Region namens "North" existiert bereits.` {
		t.Fatalf("localize de-DE = %q", german)
	}
}

func TestLocalizeUnknownError(t *testing.T) {
	got := Localize(fmt.Errorf("boom"), "en-US")
	if got != "An unexpected error occurred." {
		t.Fatalf("localize = %q", got)
	}
	if Localize(nil, "en-US") != "" {
		t.Fatal("expected empty message for nil error")
	}
}
