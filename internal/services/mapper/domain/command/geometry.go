package command

import (
	"strconv"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/numeral"
)

// ResizeMap changes a map's grid extent. Fields outside the new bounds stay
// stored and reappear when the map grows again.
type ResizeMap struct {
	Map      string
	Size     coords.Size
	old      coords.Size
	executed bool
}

// NewResizeMap validates the size up front.
func NewResizeMap(mapName string, size coords.Size) (*ResizeMap, error) {
	if err := coords.ValidateSize(size); err != nil {
		return nil, err
	}
	return &ResizeMap{Map: mapName, Size: size}, nil
}

// Execute implements Command.
func (c *ResizeMap) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	old := m.Coordinates().Size()
	if err := m.Resize(c.Size); err != nil {
		return err
	}
	c.old, c.executed = old, true
	return nil
}

// Undo implements Command.
func (c *ResizeMap) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	return m.Resize(c.old)
}

// Description implements Command.
func (c *ResizeMap) Description() string {
	return "resize map " + c.Map + " to " + c.Size.String()
}

// SetMapOrigin changes the numbering origin corner.
type SetMapOrigin struct {
	Map    string
	Origin coords.Origin
	old    coords.Origin
}

// NewSetMapOrigin validates the origin up front.
func NewSetMapOrigin(mapName string, origin string) (*SetMapOrigin, error) {
	o, err := coords.ParseOrigin(origin)
	if err != nil {
		return nil, err
	}
	return &SetMapOrigin{Map: mapName, Origin: o}, nil
}

// Execute implements Command.
func (c *SetMapOrigin) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	old := m.Coordinates().Origin()
	if err := m.SetOrigin(c.Origin); err != nil {
		return err
	}
	c.old = old
	return nil
}

// Undo implements Command.
func (c *SetMapOrigin) Undo(a *atlas.Atlas) error {
	if c.old == "" {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	return m.SetOrigin(c.old)
}

// Description implements Command.
func (c *SetMapOrigin) Description() string {
	return "set origin of " + c.Map + " to " + string(c.Origin)
}

// Axis selects a coordinate axis.
type Axis string

const (
	// AxisX is the horizontal axis.
	AxisX Axis = "x"
	// AxisY is the vertical axis.
	AxisY Axis = "y"
)

// SetMapNumeral selects the numeral converter of one axis.
type SetMapNumeral struct {
	Map     string
	Axis    Axis
	Numeral string
	old     string
}

// NewSetMapNumeral validates axis and converter name up front.
func NewSetMapNumeral(mapName string, axis Axis, name string) (*SetMapNumeral, error) {
	if axis != AxisX && axis != AxisY {
		return nil, ErrInvalidCommand.With("unknown axis "+strconv.Quote(string(axis)), nil)
	}
	if _, err := numeral.Lookup(name); err != nil {
		return nil, err
	}
	return &SetMapNumeral{Map: mapName, Axis: axis, Numeral: name}, nil
}

// Execute implements Command.
func (c *SetMapNumeral) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	old, err := c.apply(m, c.Numeral)
	if err != nil {
		return err
	}
	c.old = old
	return nil
}

// Undo implements Command.
func (c *SetMapNumeral) Undo(a *atlas.Atlas) error {
	if c.old == "" {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	_, err = c.apply(m, c.old)
	return err
}

func (c *SetMapNumeral) apply(m *atlas.Map, name string) (string, error) {
	system := m.Coordinates()
	switch c.Axis {
	case AxisX:
		old := system.NumeralX().Name()
		return old, m.SetNumeralX(name)
	case AxisY:
		old := system.NumeralY().Name()
		return old, m.SetNumeralY(name)
	default:
		return "", ErrInvalidCommand.With("unknown axis "+strconv.Quote(string(c.Axis)), nil)
	}
}

// Description implements Command.
func (c *SetMapNumeral) Description() string {
	return "set " + string(c.Axis) + " numerals of " + c.Map + " to " + c.Numeral
}

// SetMapOffset changes the screen translation.
type SetMapOffset struct {
	Map      string
	Offset   coords.Point
	old      coords.Point
	executed bool
}

// NewSetMapOffset builds a SetMapOffset.
func NewSetMapOffset(mapName string, offset coords.Point) *SetMapOffset {
	return &SetMapOffset{Map: mapName, Offset: offset}
}

// Execute implements Command.
func (c *SetMapOffset) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	old := m.Coordinates().Offset()
	if err := m.SetOffset(c.Offset); err != nil {
		return err
	}
	c.old, c.executed = old, true
	return nil
}

// Undo implements Command.
func (c *SetMapOffset) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	return m.SetOffset(c.old)
}

// Description implements Command.
func (c *SetMapOffset) Description() string { return "set offset of " + c.Map }

// SetMapMargin changes the border width.
type SetMapMargin struct {
	Map      string
	Margin   float64
	old      float64
	executed bool
}

// NewSetMapMargin validates the margin up front.
func NewSetMapMargin(mapName string, margin float64) (*SetMapMargin, error) {
	if err := coords.New().SetMargin(margin); err != nil {
		return nil, err
	}
	return &SetMapMargin{Map: mapName, Margin: margin}, nil
}

// Execute implements Command.
func (c *SetMapMargin) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	old := m.Coordinates().Margin()
	if err := m.SetMargin(c.Margin); err != nil {
		return err
	}
	c.old, c.executed = old, true
	return nil
}

// Undo implements Command.
func (c *SetMapMargin) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	return m.SetMargin(c.old)
}

// Description implements Command.
func (c *SetMapMargin) Description() string {
	return "set margin of " + c.Map + " to " + strconv.FormatFloat(c.Margin, 'g', -1, 64)
}
