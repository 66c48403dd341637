// Package numeral converts axis indices into display labels.
package numeral

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
)

// Registered converter names.
const (
	Numeric    = "numeric"
	AlphaSmall = "alphaSmall"
	AlphaBig   = "alphaBig"
	Roman      = "roman"
)

// ErrUnknownMethod indicates a converter name that is not registered.
var ErrUnknownMethod = apperrors.New(apperrors.CodeUnknownNumeralMethod, "unknown numeral method")

// Converter turns an axis value into a label.
// Convert is a pure function of its argument.
type Converter interface {
	Name() string
	Convert(value int) string
}

type converterFunc struct {
	name    string
	convert func(int) string
}

func (c converterFunc) Name() string { return c.name }

func (c converterFunc) Convert(value int) string { return c.convert(value) }

var registry = map[string]Converter{
	Numeric:    converterFunc{name: Numeric, convert: strconv.Itoa},
	AlphaSmall: converterFunc{name: AlphaSmall, convert: func(v int) string { return alpha(v, 'a') }},
	AlphaBig:   converterFunc{name: AlphaBig, convert: func(v int) string { return alpha(v, 'A') }},
	Roman:      converterFunc{name: Roman, convert: roman},
}

// Lookup returns the converter registered under name.
func Lookup(name string) (Converter, error) {
	c, ok := registry[strings.TrimSpace(name)]
	if !ok {
		return nil, ErrUnknownMethod.With(name, map[string]string{"Method": name})
	}
	return c, nil
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Converter {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Default is the numeric converter.
func Default() Converter {
	return registry[Numeric]
}

// Names lists registered converter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// alpha uses spreadsheet column naming: 1=A, 26=Z, 27=AA.
func alpha(value int, first byte) string {
	if value < 1 {
		return ""
	}
	var buf []byte
	for value > 0 {
		value--
		buf = append(buf, first+byte(value%26))
		value /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var romanSymbols = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman repeats M above 3999.
func roman(value int) string {
	if value < 1 {
		return ""
	}
	var b strings.Builder
	for _, s := range romanSymbols {
		for value >= s.value {
			b.WriteString(s.symbol)
			value -= s.value
		}
	}
	return b.String()
}
