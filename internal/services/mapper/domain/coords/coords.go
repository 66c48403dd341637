package coords

import (
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/numeral"
)

// RowStride encodes a position as y*RowStride + x. It equals MaxSize so every
// in-bounds position has a unique index.
const RowStride = 1000

// Size bounds in grid cells, inclusive.
const (
	MinSize = 1
	MaxSize = 1000
)

// screenEpsilon absorbs float error when resolving a screen position to a cell.
const screenEpsilon = 1e-9

var (
	// ErrInvalidSize indicates a size outside [MinSize, MaxSize] on some axis.
	ErrInvalidSize = apperrors.New(apperrors.CodeInvalidSize, "invalid size")
	// ErrUnknownOrigin indicates an origin corner name that is not recognized.
	ErrUnknownOrigin = apperrors.New(apperrors.CodeUnknownOrigin, "unknown origin")
	// ErrInvalidMargin indicates a negative or non-finite margin.
	ErrInvalidMargin = apperrors.New(apperrors.CodeInvalidMargin, "invalid margin")
	// ErrInvalidPosition indicates a negative or out-of-range grid position.
	ErrInvalidPosition = apperrors.New(apperrors.CodeInvalidPosition, "invalid position")
)

// Position is a grid cell.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}

// Index encodes p into a field index.
func Index(p Position) int {
	return p.Y*RowStride + p.X
}

// PositionOf decodes a field index produced by Index.
func PositionOf(index int) Position {
	return Position{X: index % RowStride, Y: index / RowStride}
}

// ValidatePosition rejects negative coordinates and coordinates that would
// collide under RowStride.
func ValidatePosition(p Position) error {
	if p.X < 0 || p.Y < 0 || p.X >= RowStride || p.Y >= RowStride {
		return ErrInvalidPosition.With(p.String(), positionMetadata(p))
	}
	return nil
}

func positionMetadata(p Position) map[string]string {
	return map[string]string{"X": strconv.Itoa(p.X), "Y": strconv.Itoa(p.Y)}
}

// Point is a screen position in cell units.
type Point struct {
	X float64
	Y float64
}

// Size is a grid extent in cells.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Valid reports whether both axes are within [MinSize, MaxSize].
func (s Size) Valid() bool {
	return s.Width >= MinSize && s.Width <= MaxSize && s.Height >= MinSize && s.Height <= MaxSize
}

// Contains reports whether p lies inside [0,Width) x [0,Height).
func (s Size) Contains(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

// ValidateSize returns ErrInvalidSize with size metadata when s is out of range.
func ValidateSize(s Size) error {
	if s.Valid() {
		return nil
	}
	return ErrInvalidSize.With(s.String(), map[string]string{
		"Width":  strconv.Itoa(s.Width),
		"Height": strconv.Itoa(s.Height),
	})
}

// Origin is the corner where axis numbering starts.
type Origin string

// Origin corners.
const (
	TopLeft     Origin = "topLeft"
	TopRight    Origin = "topRight"
	BottomLeft  Origin = "bottomLeft"
	BottomRight Origin = "bottomRight"
)

// ParseOrigin validates an origin name.
func ParseOrigin(name string) (Origin, error) {
	switch o := Origin(name); o {
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return o, nil
	default:
		return "", ErrUnknownOrigin.With(name, map[string]string{"Origin": name})
	}
}

func (o Origin) flipsX() bool { return o == TopRight || o == BottomRight }

func (o Origin) flipsY() bool { return o == BottomLeft || o == BottomRight }

// Default map geometry.
var (
	DefaultSize   = Size{Width: 10, Height: 10}
	DefaultOrigin = TopLeft
)

// System is the per-map coordinate system. The zero value is not usable; call New.
type System struct {
	origin   Origin
	size     Size
	numeralX numeral.Converter
	numeralY numeral.Converter
	offset   Point
	margin   float64
}

// New returns a top-left origin system of DefaultSize with numeric axes.
func New() *System {
	return &System{
		origin:   DefaultOrigin,
		size:     DefaultSize,
		numeralX: numeral.Default(),
		numeralY: numeral.Default(),
	}
}

// Origin returns the numbering origin.
func (s *System) Origin() Origin { return s.origin }

// SetOrigin changes the numbering origin.
func (s *System) SetOrigin(origin Origin) error {
	o, err := ParseOrigin(string(origin))
	if err != nil {
		return err
	}
	s.origin = o
	return nil
}

// Size returns the grid extent.
func (s *System) Size() Size { return s.size }

// Resize replaces the grid extent. Fields outside the new bounds are kept.
func (s *System) Resize(size Size) error {
	if err := ValidateSize(size); err != nil {
		return err
	}
	s.size = size
	return nil
}

// NumeralX returns the converter for the horizontal axis.
func (s *System) NumeralX() numeral.Converter { return s.numeralX }

// NumeralY returns the converter for the vertical axis.
func (s *System) NumeralY() numeral.Converter { return s.numeralY }

// SetNumeralX selects the horizontal axis converter by name.
func (s *System) SetNumeralX(name string) error {
	c, err := numeral.Lookup(name)
	if err != nil {
		return err
	}
	s.numeralX = c
	return nil
}

// SetNumeralY selects the vertical axis converter by name.
func (s *System) SetNumeralY(name string) error {
	c, err := numeral.Lookup(name)
	if err != nil {
		return err
	}
	s.numeralY = c
	return nil
}

// Offset returns the screen translation.
func (s *System) Offset() Point { return s.offset }

// SetOffset replaces the screen translation.
func (s *System) SetOffset(offset Point) { s.offset = offset }

// Margin returns the border around the grid in cell units.
func (s *System) Margin() float64 { return s.margin }

// SetMargin replaces the border. Negative margins are rejected.
func (s *System) SetMargin(margin float64) error {
	if margin < 0 || math.IsNaN(margin) || math.IsInf(margin, 0) {
		value := strconv.FormatFloat(margin, 'g', -1, 64)
		return ErrInvalidMargin.With(value, map[string]string{"Margin": value})
	}
	s.margin = margin
	return nil
}

// ScreenSize is the grid extent plus a margin on each side.
func (s *System) ScreenSize() Point {
	return Point{
		X: float64(s.size.Width) + 2*s.margin,
		Y: float64(s.size.Height) + 2*s.margin,
	}
}

// ToScreen returns the top-left screen corner of the cell at p.
func (s *System) ToScreen(p Position) Point {
	x, y := p.X, p.Y
	if s.origin.flipsX() {
		x = s.size.Width - 1 - x
	}
	if s.origin.flipsY() {
		y = s.size.Height - 1 - y
	}
	return Point{
		X: float64(x) + s.margin + s.offset.X,
		Y: float64(y) + s.margin + s.offset.Y,
	}
}

// ToMap returns the cell containing the screen position pt. It inverts ToScreen.
func (s *System) ToMap(pt Point) Position {
	x := int(math.Floor(pt.X - s.margin - s.offset.X + screenEpsilon))
	y := int(math.Floor(pt.Y - s.margin - s.offset.Y + screenEpsilon))
	if s.origin.flipsX() {
		x = s.size.Width - 1 - x
	}
	if s.origin.flipsY() {
		y = s.size.Height - 1 - y
	}
	return Position{X: x, Y: y}
}

// NumeralCoordinates returns the 1-based axis labels of p.
func (s *System) NumeralCoordinates(p Position) (string, string) {
	return s.numeralX.Convert(p.X + 1), s.numeralY.Convert(p.Y + 1)
}

// State is the serializable form of a System.
type State struct {
	Origin   Origin
	Width    int
	Height   int
	NumeralX string
	NumeralY string
	OffsetX  float64
	OffsetY  float64
	Margin   float64
}

// State snapshots the system.
func (s *System) State() State {
	return State{
		Origin:   s.origin,
		Width:    s.size.Width,
		Height:   s.size.Height,
		NumeralX: s.numeralX.Name(),
		NumeralY: s.numeralY.Name(),
		OffsetX:  s.offset.X,
		OffsetY:  s.offset.Y,
		Margin:   s.margin,
	}
}

// FromState rebuilds a system, validating every field.
func FromState(state State) (*System, error) {
	s := New()
	if err := s.SetOrigin(state.Origin); err != nil {
		return nil, err
	}
	if err := s.Resize(Size{Width: state.Width, Height: state.Height}); err != nil {
		return nil, err
	}
	if err := s.SetNumeralX(state.NumeralX); err != nil {
		return nil, err
	}
	if err := s.SetNumeralY(state.NumeralY); err != nil {
		return nil, err
	}
	if err := s.SetMargin(state.Margin); err != nil {
		return nil, err
	}
	s.SetOffset(Point{X: state.OffsetX, Y: state.OffsetY})
	return s, nil
}
