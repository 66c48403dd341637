// Package layer holds the drawing layers of a map and the tile fields of the
// tile-bearing layers.
package layer

import (
	"maps"
	"strings"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/event"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/tile"
)

// Kind identifies a layer's drawing concern.
type Kind string

const (
	// KindBackground fills the map with a color or image.
	KindBackground Kind = "background"
	// KindGrid draws the cell grid.
	KindGrid Kind = "grid"
	// KindAxis draws the axis labels.
	KindAxis Kind = "axis"
	// KindBase holds one tile per field, drawn below the grid.
	KindBase Kind = "base"
	// KindTile holds stacked tiles, drawn above the grid.
	KindTile Kind = "tile"
	// KindText holds free text on top of everything else.
	KindText Kind = "text"
)

// ParseKind validates a layer kind name.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(name)); k {
	case KindBackground, KindGrid, KindAxis, KindBase, KindTile, KindText:
		return k, nil
	default:
		return "", ErrInvalidLayer.With("unknown kind "+name, nil)
	}
}

// Layer attribute keys.
const (
	AttrColor = "color"
	AttrFont  = "font"
	AttrImage = "image"
)

// Defaults applied to a fresh stack.
const (
	DefaultBackgroundColor = "#ffffff"
	DefaultGridColor       = "#808080"
	DefaultAxisColor       = "#000000"
	DefaultAxisFont        = "Sans,10"
	DefaultTextColor       = "#000000"
	DefaultTextFont        = "Sans,12"
)

var (
	// ErrInvalidLayer indicates a layer kind or index that does not exist.
	ErrInvalidLayer = apperrors.New(apperrors.CodeInvalidLayer, "invalid layer")
	// ErrLayerMinimum indicates removal of the last layer of a kind.
	ErrLayerMinimum = apperrors.New(apperrors.CodeLayerMinimum, "layer minimum")
)

// Owner receives change events from its layers. Maps implement it.
type Owner interface {
	event.Publisher
}

// Layer is the behavior every layer shares.
type Layer interface {
	Kind() Kind
	Owner() Owner
	Visible() bool
	SetVisible(visible bool)
	// Attributes returns a copy of the layer attributes.
	Attributes() map[string]string
	setOwner(owner Owner)
}

type common struct {
	kind       Kind
	owner      Owner
	visible    bool
	attributes map[string]string
}

func newCommon(kind Kind) common {
	return common{kind: kind, visible: true, attributes: map[string]string{}}
}

func (c *common) Kind() Kind { return c.kind }

func (c *common) Owner() Owner { return c.owner }

func (c *common) setOwner(owner Owner) { c.owner = owner }

func (c *common) Visible() bool { return c.visible }

func (c *common) SetVisible(visible bool) {
	if c.visible == visible {
		return
	}
	c.visible = visible
	c.publish(event.Event{Type: event.TypeLayerChanged, Property: "visible"})
}

func (c *common) Attributes() map[string]string { return maps.Clone(c.attributes) }

func (c *common) attribute(key string) string { return c.attributes[key] }

func (c *common) setAttribute(key, value string) {
	if c.attributes[key] == value {
		return
	}
	c.attributes[key] = value
	c.publish(event.Event{Type: event.TypeLayerChanged, Property: key})
}

func (c *common) setColor(value string) error {
	color, err := tile.ParseColor(value)
	if err != nil {
		return err
	}
	c.setAttribute(AttrColor, color)
	return nil
}

func (c *common) setFont(value string) error {
	font := strings.TrimSpace(value)
	if font == "" {
		return ErrInvalidLayer.With("font is required", nil)
	}
	c.setAttribute(AttrFont, font)
	return nil
}

func (c *common) publish(e event.Event) {
	if c.owner == nil {
		return
	}
	e.Layer = string(c.kind)
	c.owner.Publish(e)
}

// BackgroundLayer fills the map area with a color or an image.
type BackgroundLayer struct {
	common
}

func newBackgroundLayer() *BackgroundLayer {
	l := &BackgroundLayer{common: newCommon(KindBackground)}
	l.attributes[AttrColor] = DefaultBackgroundColor
	return l
}

// Color returns the fill color.
func (l *BackgroundLayer) Color() string { return l.attribute(AttrColor) }

// SetColor validates and applies a fill color.
func (l *BackgroundLayer) SetColor(color string) error { return l.setColor(color) }

// Image returns the background image resource, if any.
func (l *BackgroundLayer) Image() string { return l.attribute(AttrImage) }

// SetImage sets the image resource. An empty name clears it.
func (l *BackgroundLayer) SetImage(image string) {
	image = strings.TrimSpace(image)
	if image == "" {
		if _, ok := l.attributes[AttrImage]; ok {
			delete(l.attributes, AttrImage)
			l.publish(event.Event{Type: event.TypeLayerChanged, Property: AttrImage})
		}
		return
	}
	l.setAttribute(AttrImage, image)
}

// GridLayer draws cell borders.
type GridLayer struct {
	common
}

func newGridLayer() *GridLayer {
	l := &GridLayer{common: newCommon(KindGrid)}
	l.attributes[AttrColor] = DefaultGridColor
	return l
}

// Color returns the line color.
func (l *GridLayer) Color() string { return l.attribute(AttrColor) }

// SetColor validates and applies a line color.
func (l *GridLayer) SetColor(color string) error { return l.setColor(color) }

// AxisLayer draws the numeral labels along the map edges.
type AxisLayer struct {
	common
}

func newAxisLayer() *AxisLayer {
	l := &AxisLayer{common: newCommon(KindAxis)}
	l.attributes[AttrColor] = DefaultAxisColor
	l.attributes[AttrFont] = DefaultAxisFont
	return l
}

// Color returns the label color.
func (l *AxisLayer) Color() string { return l.attribute(AttrColor) }

// SetColor validates and applies a label color.
func (l *AxisLayer) SetColor(color string) error { return l.setColor(color) }

// Font returns the label font description.
func (l *AxisLayer) Font() string { return l.attribute(AttrFont) }

// SetFont applies a non-empty font description.
func (l *AxisLayer) SetFont(font string) error { return l.setFont(font) }

// TextLayer holds free text annotations.
type TextLayer struct {
	common
}

func newTextLayer() *TextLayer {
	l := &TextLayer{common: newCommon(KindText)}
	l.attributes[AttrColor] = DefaultTextColor
	l.attributes[AttrFont] = DefaultTextFont
	return l
}

// Color returns the text color.
func (l *TextLayer) Color() string { return l.attribute(AttrColor) }

// SetColor validates and applies a text color.
func (l *TextLayer) SetColor(color string) error { return l.setColor(color) }

// Font returns the text font description.
func (l *TextLayer) Font() string { return l.attribute(AttrFont) }

// SetFont applies a non-empty font description.
func (l *TextLayer) SetFont(font string) error { return l.setFont(font) }
