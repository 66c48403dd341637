// Package tile defines the drawable units placed on map fields.
package tile

import (
	"maps"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
)

// Attribute keys.
const (
	AttrType     = "type"
	AttrColor    = "color"
	AttrShape    = "shape"
	AttrRotation = "rotation"
	AttrStretch  = "stretch"
)

// Tile types.
const (
	TypeColor = "color"
	TypeShape = "shape"
)

// DefaultShapeColor is used when a shape tile has no color attribute.
const DefaultShapeColor = "#000000"

// ErrInvalidTile indicates attributes that do not describe a tile.
var ErrInvalidTile = apperrors.New(apperrors.CodeInvalidTile, "invalid tile")

// Attributes is the string map a tile is built from and compared by.
type Attributes map[string]string

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}
	return maps.Clone(a)
}

// Keys returns attribute keys in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rect is a screen area in cell units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// ShapeRef points a renderer at a catalog shape.
type ShapeRef struct {
	Name     string
	Color    string
	Rotation float64
	Stretch  float64
}

// Renderer draws tiles. Implementations live outside the model.
type Renderer interface {
	FillRect(area Rect, color string)
	DrawShape(area Rect, shape ShapeRef)
}

// Tile is one attributed unit on a field.
type Tile interface {
	Type() string
	// Attributes returns a copy of the normalized attributes.
	Attributes() Attributes
	Rotation() float64
	Stretch() float64
	Draw(r Renderer, area Rect)
	// Placeable reports whether the tile may be appended to stack.
	Placeable(stack []Tile) bool
	Equal(other Tile) bool
}

type base struct {
	attrs    Attributes
	rotation float64
	stretch  float64
}

func (b *base) Attributes() Attributes { return b.attrs.Clone() }

func (b *base) Rotation() float64 { return b.rotation }

func (b *base) Stretch() float64 { return b.stretch }

func (b *base) Type() string { return b.attrs[AttrType] }

// equalAttributes compares tiles attribute-wise.
func equalAttributes(a Tile, b Tile) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return maps.Equal(a.Attributes(), b.Attributes())
}

// placeableOn rejects stacking a tile on an identical top tile.
func placeableOn(t Tile, stack []Tile) bool {
	if len(stack) == 0 {
		return true
	}
	return !stack[len(stack)-1].Equal(t)
}

// ColorTile fills its cell with a color.
type ColorTile struct {
	base
}

// Color returns the normalized fill color.
func (c *ColorTile) Color() string { return c.attrs[AttrColor] }

// Draw fills area.
func (c *ColorTile) Draw(r Renderer, area Rect) {
	if r == nil {
		return
	}
	r.FillRect(area, c.Color())
}

// Placeable reports whether c may go on top of stack.
func (c *ColorTile) Placeable(stack []Tile) bool { return placeableOn(c, stack) }

// Equal compares attribute-wise.
func (c *ColorTile) Equal(other Tile) bool { return equalAttributes(c, other) }

// ShapeTile draws a catalog shape.
type ShapeTile struct {
	base
}

// Shape returns the catalog shape reference.
func (s *ShapeTile) Shape() string { return s.attrs[AttrShape] }

// Color returns the normalized shape color.
func (s *ShapeTile) Color() string { return s.attrs[AttrColor] }

// Draw hands the shape reference to r.
func (s *ShapeTile) Draw(r Renderer, area Rect) {
	if r == nil {
		return
	}
	r.DrawShape(area, ShapeRef{
		Name:     s.Shape(),
		Color:    s.Color(),
		Rotation: s.rotation,
		Stretch:  s.stretch,
	})
}

// Placeable reports whether s may go on top of stack.
func (s *ShapeTile) Placeable(stack []Tile) bool { return placeableOn(s, stack) }

// Equal compares attribute-wise.
func (s *ShapeTile) Equal(other Tile) bool { return equalAttributes(s, other) }

// New builds a tile from attributes, dispatching on the type attribute.
// Unknown attributes are kept verbatim.
func New(attrs Attributes) (Tile, error) {
	normalized := attrs.Clone()
	for k, v := range normalized {
		normalized[k] = strings.TrimSpace(v)
	}
	b, err := newBase(normalized)
	if err != nil {
		return nil, err
	}

	switch normalized[AttrType] {
	case TypeColor:
		color, err := ParseColor(normalized[AttrColor])
		if err != nil {
			return nil, err
		}
		b.attrs[AttrColor] = color
		return &ColorTile{base: b}, nil
	case TypeShape:
		if normalized[AttrShape] == "" {
			return nil, ErrInvalidTile.With("shape attribute is required", nil)
		}
		color := normalized[AttrColor]
		if color == "" {
			color = DefaultShapeColor
		}
		parsed, err := ParseColor(color)
		if err != nil {
			return nil, err
		}
		b.attrs[AttrColor] = parsed
		return &ShapeTile{base: b}, nil
	default:
		return nil, ErrInvalidTile.With("unknown type "+strconv.Quote(normalized[AttrType]), nil)
	}
}

// NewColor builds a color tile.
func NewColor(color string) (*ColorTile, error) {
	t, err := New(Attributes{AttrType: TypeColor, AttrColor: color})
	if err != nil {
		return nil, err
	}
	return t.(*ColorTile), nil
}

// NewShape builds a shape tile.
func NewShape(shape, color string, rotation, stretch float64) (*ShapeTile, error) {
	t, err := New(Attributes{
		AttrType:     TypeShape,
		AttrShape:    shape,
		AttrColor:    color,
		AttrRotation: formatFloat(rotation),
		AttrStretch:  formatFloat(stretch),
	})
	if err != nil {
		return nil, err
	}
	return t.(*ShapeTile), nil
}

// MustNew is New for fixtures known to be valid.
func MustNew(attrs Attributes) Tile {
	t, err := New(attrs)
	if err != nil {
		panic(err)
	}
	return t
}

func newBase(attrs Attributes) (base, error) {
	b := base{attrs: attrs, stretch: 1}
	if raw, ok := attrs[AttrRotation]; ok && raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return base{}, ErrInvalidTile.With("rotation "+strconv.Quote(raw), nil)
		}
		b.rotation = NormalizeRotation(v)
	}
	if raw, ok := attrs[AttrStretch]; ok && raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || v <= 0 || math.IsInf(v, 0) {
			return base{}, ErrInvalidTile.With("stretch "+strconv.Quote(raw), nil)
		}
		b.stretch = v
	}
	delete(attrs, AttrRotation)
	delete(attrs, AttrStretch)
	if b.rotation != 0 {
		attrs[AttrRotation] = formatFloat(b.rotation)
	}
	if b.stretch != 1 {
		attrs[AttrStretch] = formatFloat(b.stretch)
	}
	return b, nil
}

// NormalizeRotation maps degrees into [0, 360).
func NormalizeRotation(degrees float64) float64 {
	r := math.Mod(degrees, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
