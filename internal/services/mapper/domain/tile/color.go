package tile

import (
	"fmt"
	"strings"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor indicates a color string that is neither hex nor a CSS name.
var ErrInvalidColor = apperrors.New(apperrors.CodeInvalidColor, "invalid color")

// ParseColor normalizes #rgb, #rrggbb, #rrggbbaa or a CSS color name to
// lowercase #rrggbb, keeping the alpha suffix only when it is not ff.
func ParseColor(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if named, ok := colornames.Map[trimmed]; ok {
		return formatRGBA(named.R, named.G, named.B, named.A), nil
	}
	if !strings.HasPrefix(trimmed, "#") {
		return "", invalidColor(value)
	}
	hex := trimmed[1:]
	for _, r := range hex {
		if !isHexDigit(r) {
			return "", invalidColor(value)
		}
	}
	switch len(hex) {
	case 3:
		return "#" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}), nil
	case 6:
		return "#" + hex, nil
	case 8:
		if hex[6:] == "ff" {
			return "#" + hex[:6], nil
		}
		return "#" + hex, nil
	default:
		return "", invalidColor(value)
	}
}

func formatRGBA(r, g, b, a uint8) string {
	if a == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}

func invalidColor(value string) error {
	return ErrInvalidColor.With(value, map[string]string{"Color": value})
}
