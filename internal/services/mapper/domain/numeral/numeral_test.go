package numeral

import (
	"errors"
	"testing"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
)

func TestRomanConversion(t *testing.T) {
	c := MustLookup(Roman)
	tests := map[int]string{
		1:    "I",
		3:    "III",
		4:    "IV",
		9:    "IX",
		14:   "XIV",
		40:   "XL",
		90:   "XC",
		400:  "CD",
		1994: "MCMXCIV",
		3999: "MMMCMXCIX",
		4000: "MMMM",
		0:    "",
		-3:   "",
	}
	for in, want := range tests {
		if got := c.Convert(in); got != want {
			t.Fatalf("roman(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAlphaConversionWrapsLikeSpreadsheetColumns(t *testing.T) {
	big := MustLookup(AlphaBig)
	small := MustLookup(AlphaSmall)
	tests := []struct {
		in   int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
		{0, ""},
	}
	for _, tc := range tests {
		if got := big.Convert(tc.in); got != tc.want {
			t.Fatalf("alphaBig(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := small.Convert(28); got != "ab" {
		t.Fatalf("alphaSmall(28) = %q, want ab", got)
	}
}

func TestNumericConversion(t *testing.T) {
	c := Default()
	if c.Name() != Numeric {
		t.Fatalf("default = %q", c.Name())
	}
	if got := c.Convert(12); got != "12" {
		t.Fatalf("numeric(12) = %q", got)
	}
}

func TestLookupUnknownMethod(t *testing.T) {
	_, err := Lookup("greek")
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected unknown method, got %v", err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeUnknownNumeralMethod {
		t.Fatalf("code = %q", apperrors.CodeOf(err))
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	want := []string{AlphaBig, AlphaSmall, Numeric, Roman}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}
