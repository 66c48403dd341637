package command

import (
	"strconv"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/layer"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/tile"
)

// Property names a settable layer attribute.
type Property string

const (
	// PropertyGridColor is the grid line color.
	PropertyGridColor Property = "grid color"
	// PropertyBackgroundColor is the background fill color.
	PropertyBackgroundColor Property = "background color"
	// PropertyBackgroundImage is the background image reference.
	PropertyBackgroundImage Property = "background image"
	// PropertyAxisColor is the axis label color.
	PropertyAxisColor Property = "axis color"
	// PropertyAxisFont is the axis label font.
	PropertyAxisFont Property = "axis font"
	// PropertyTextColor is the text layer color.
	PropertyTextColor Property = "text color"
	// PropertyTextFont is the text layer font.
	PropertyTextFont Property = "text font"
)

type accessor struct {
	get func(*layer.Stack) string
	set func(*layer.Stack, string) error
}

var accessors = map[Property]accessor{
	PropertyGridColor: {
		get: func(s *layer.Stack) string { return s.Grid().Color() },
		set: func(s *layer.Stack, v string) error { return s.Grid().SetColor(v) },
	},
	PropertyBackgroundColor: {
		get: func(s *layer.Stack) string { return s.Background().Color() },
		set: func(s *layer.Stack, v string) error { return s.Background().SetColor(v) },
	},
	PropertyBackgroundImage: {
		get: func(s *layer.Stack) string { return s.Background().Image() },
		set: func(s *layer.Stack, v string) error {
			s.Background().SetImage(v)
			return nil
		},
	},
	PropertyAxisColor: {
		get: func(s *layer.Stack) string { return s.Axis().Color() },
		set: func(s *layer.Stack, v string) error { return s.Axis().SetColor(v) },
	},
	PropertyAxisFont: {
		get: func(s *layer.Stack) string { return s.Axis().Font() },
		set: func(s *layer.Stack, v string) error { return s.Axis().SetFont(v) },
	},
	PropertyTextColor: {
		get: func(s *layer.Stack) string { return s.Text().Color() },
		set: func(s *layer.Stack, v string) error { return s.Text().SetColor(v) },
	},
	PropertyTextFont: {
		get: func(s *layer.Stack) string { return s.Text().Font() },
		set: func(s *layer.Stack, v string) error { return s.Text().SetFont(v) },
	},
}

// SetLayerProperty replaces one attribute of a map's single layers.
type SetLayerProperty struct {
	Map      string
	Property Property
	Value    string
	old      string
	executed bool
}

// NewSetLayerProperty validates the property and, for colors, the value.
func NewSetLayerProperty(mapName string, property Property, value string) (*SetLayerProperty, error) {
	if _, ok := accessors[property]; !ok {
		return nil, ErrInvalidCommand.With("unknown property "+strconv.Quote(string(property)), nil)
	}
	switch property {
	case PropertyGridColor, PropertyBackgroundColor, PropertyAxisColor, PropertyTextColor:
		if _, err := tile.ParseColor(value); err != nil {
			return nil, err
		}
	}
	return &SetLayerProperty{Map: mapName, Property: property, Value: value}, nil
}

// NewSetMapGridColor sets the grid line color.
func NewSetMapGridColor(mapName, color string) (*SetLayerProperty, error) {
	return NewSetLayerProperty(mapName, PropertyGridColor, color)
}

// NewSetMapBackgroundColor sets the background fill color.
func NewSetMapBackgroundColor(mapName, color string) (*SetLayerProperty, error) {
	return NewSetLayerProperty(mapName, PropertyBackgroundColor, color)
}

// NewSetMapBackgroundImage sets or clears the background image.
func NewSetMapBackgroundImage(mapName, image string) (*SetLayerProperty, error) {
	return NewSetLayerProperty(mapName, PropertyBackgroundImage, image)
}

// NewSetMapAxisColor sets the axis label color.
func NewSetMapAxisColor(mapName, color string) (*SetLayerProperty, error) {
	return NewSetLayerProperty(mapName, PropertyAxisColor, color)
}

// NewSetMapAxisFont sets the axis label font.
func NewSetMapAxisFont(mapName, font string) (*SetLayerProperty, error) {
	return NewSetLayerProperty(mapName, PropertyAxisFont, font)
}

// NewSetMapTextFont sets the text layer font.
func NewSetMapTextFont(mapName, font string) (*SetLayerProperty, error) {
	return NewSetLayerProperty(mapName, PropertyTextFont, font)
}

func (c *SetLayerProperty) accessor() (accessor, error) {
	acc, ok := accessors[c.Property]
	if !ok {
		return accessor{}, ErrInvalidCommand.With("unknown property "+strconv.Quote(string(c.Property)), nil)
	}
	return acc, nil
}

// Execute implements Command.
func (c *SetLayerProperty) Execute(a *atlas.Atlas) error {
	acc, err := c.accessor()
	if err != nil {
		return err
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	old := acc.get(m.Layers())
	if err := acc.set(m.Layers(), c.Value); err != nil {
		return err
	}
	c.old, c.executed = old, true
	return nil
}

// Undo implements Command.
func (c *SetLayerProperty) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	acc, err := c.accessor()
	if err != nil {
		return err
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	return acc.set(m.Layers(), c.old)
}

// Description implements Command.
func (c *SetLayerProperty) Description() string {
	return "set " + string(c.Property) + " of " + c.Map + " to " + c.Value
}

// SetLayerVisible shows or hides a layer.
type SetLayerVisible struct {
	Map      string
	Layer    LayerRef
	Visible  bool
	old      bool
	index    int
	executed bool
}

// NewSetLayerVisible builds a SetLayerVisible.
func NewSetLayerVisible(mapName string, ref LayerRef, visible bool) *SetLayerVisible {
	return &SetLayerVisible{Map: mapName, Layer: ref, Visible: visible}
}

func (c *SetLayerVisible) resolve(m *atlas.Map, index int) (layer.Layer, int, error) {
	if index < 0 && (c.Layer.Kind == layer.KindBase || c.Layer.Kind == layer.KindTile) {
		index = m.Layers().CurrentIndex(c.Layer.Kind)
	}
	l, err := m.Layers().Get(c.Layer.Kind, index)
	return l, index, err
}

// Execute implements Command.
func (c *SetLayerVisible) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	l, index, err := c.resolve(m, c.Layer.Index)
	if err != nil {
		return err
	}
	c.old, c.index, c.executed = l.Visible(), index, true
	l.SetVisible(c.Visible)
	return nil
}

// Undo implements Command.
func (c *SetLayerVisible) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	l, _, err := c.resolve(m, c.index)
	if err != nil {
		return err
	}
	l.SetVisible(c.old)
	return nil
}

// Description implements Command.
func (c *SetLayerVisible) Description() string {
	verb := "hide "
	if c.Visible {
		verb = "show "
	}
	return verb + c.Layer.String() + " of " + c.Map
}

// AddLayer appends an empty base or tile layer. Undo detaches it and redo
// re-inserts the same layer.
type AddLayer struct {
	Map   string
	Kind  layer.Kind
	index int
	added *layer.FieldLayer
}

// NewAddLayer validates the kind up front.
func NewAddLayer(mapName string, kind layer.Kind) (*AddLayer, error) {
	if _, err := layer.NewFieldLayer(kind); err != nil {
		return nil, err
	}
	return &AddLayer{Map: mapName, Kind: kind}, nil
}

// Execute implements Command.
func (c *AddLayer) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	stack := m.Layers()
	if c.added != nil {
		return stack.InsertLayer(c.Kind, c.index, c.added)
	}
	index, err := stack.AddLayer(c.Kind)
	if err != nil {
		return err
	}
	c.index = index
	c.added, _ = stack.Layer(c.Kind, index)
	return nil
}

// Undo implements Command.
func (c *AddLayer) Undo(a *atlas.Atlas) error {
	if c.added == nil {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	_, err = m.Layers().RemoveLayer(c.Kind, c.index)
	return err
}

// Description implements Command.
func (c *AddLayer) Description() string { return "add " + string(c.Kind) + " layer to " + c.Map }

// RemoveLayer detaches a base or tile layer with its fields. At least one
// layer of each kind remains.
type RemoveLayer struct {
	Map     string
	Layer   LayerRef
	index   int
	current int
	removed *layer.FieldLayer
}

// NewRemoveLayer builds a RemoveLayer.
func NewRemoveLayer(mapName string, ref LayerRef) *RemoveLayer {
	return &RemoveLayer{Map: mapName, Layer: ref}
}

// Execute implements Command.
func (c *RemoveLayer) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	_, index, err := c.Layer.resolveFieldLayer(m)
	if err != nil {
		return err
	}
	current := m.Layers().CurrentIndex(c.Layer.Kind)
	removed, err := m.Layers().RemoveLayer(c.Layer.Kind, index)
	if err != nil {
		return err
	}
	c.index, c.current, c.removed = index, current, removed
	return nil
}

// Undo implements Command.
func (c *RemoveLayer) Undo(a *atlas.Atlas) error {
	if c.removed == nil {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	stack := m.Layers()
	if err := stack.InsertLayer(c.Layer.Kind, c.index, c.removed); err != nil {
		return err
	}
	c.removed = nil
	return stack.SetCurrent(c.Layer.Kind, c.current)
}

// Description implements Command.
func (c *RemoveLayer) Description() string {
	return "remove " + c.Layer.String() + " layer from " + c.Map
}

// SetCurrentLayer selects the base or tile layer used as the default
// placement target.
type SetCurrentLayer struct {
	Map      string
	Kind     layer.Kind
	Index    int
	old      int
	executed bool
}

// NewSetCurrentLayer rejects single-layer kinds and negative indexes.
func NewSetCurrentLayer(mapName string, kind layer.Kind, index int) (*SetCurrentLayer, error) {
	if kind != layer.KindBase && kind != layer.KindTile {
		return nil, layer.ErrInvalidLayer.With("kind "+string(kind)+" has no current layer", nil)
	}
	if index < 0 {
		return nil, layer.ErrInvalidLayer.With(string(kind)+"["+strconv.Itoa(index)+"]", nil)
	}
	return &SetCurrentLayer{Map: mapName, Kind: kind, Index: index}, nil
}

// Execute records the previous selection and switches to Index.
func (c *SetCurrentLayer) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	stack := m.Layers()
	old := stack.CurrentIndex(c.Kind)
	if err := stack.SetCurrent(c.Kind, c.Index); err != nil {
		return err
	}
	c.old, c.executed = old, true
	return nil
}

// Undo restores the previous selection.
func (c *SetCurrentLayer) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	return m.Layers().SetCurrent(c.Kind, c.old)
}

// Description names the selected layer.
func (c *SetCurrentLayer) Description() string {
	return "select " + LayerRef{Kind: c.Kind, Index: c.Index}.String() + " layer of " + c.Map
}
