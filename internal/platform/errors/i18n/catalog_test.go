package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("fr-FR")
	if fallback.Locale() != base.Locale() {
		t.Fatalf("fallback locale = %s, want %s", fallback.Locale(), base.Locale())
	}
	if GetCatalog("").Locale() != base.Locale() {
		t.Fatal("expected empty locale to use base catalog")
	}
}

func TestGetCatalogMatchesAcceptLanguage(t *testing.T) {
	cat := GetCatalog("ru-RU,ru;q=0.9,en;q=0.8")
	if got := cat.Format(CodeGameFinished, nil); got != ruRU[CodeGameFinished] {
		t.Fatalf("message = %q, want russian", got)
	}
}

func TestGetCatalogResolvesLanguageOnly(t *testing.T) {
	if got := GetCatalog("ru").Locale(); got != "ru-RU" {
		t.Fatalf("locale = %q, want ru-RU", got)
	}
	if got := GetCatalog("en").Locale(); got != BaseLocale {
		t.Fatalf("locale = %q, want %s", got, BaseLocale)
	}
}

func TestCatalogsCoverSameCodes(t *testing.T) {
	for code := range enUS {
		if _, ok := ruRU[code]; !ok {
			t.Fatalf("ru-RU missing %s", code)
		}
	}
	if len(enUS) != len(ruRU) {
		t.Fatalf("catalog sizes differ: %d vs %d", len(enUS), len(ruRU))
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing params")
	}
	if got := cat.Format("code", map[string]string{"Name": "Ann"}); got != "hello Ann" {
		t.Fatalf("format = %q", got)
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestAmountGroupsDigits(t *testing.T) {
	if got := GetCatalog("en-US").Amount(1000000); got != "1,000,000" {
		t.Fatalf("amount = %q, want 1,000,000", got)
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}

func TestAmountUsesLocaleGrouping(t *testing.T) {
	en := GetCatalog("en-US").Amount(32000)
	ru := GetCatalog("ru-RU").Amount(32000)
	if en == ru {
		t.Fatalf("amounts = %q and %q, want locale-specific grouping", en, ru)
	}
}
