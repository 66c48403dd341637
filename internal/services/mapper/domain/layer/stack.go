package layer

import (
	"slices"
	"strconv"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/event"
)

// Stack is the Z-ordered set of layers of one map. It always holds one
// background, grid, axis and text layer and at least one base and tile layer.
type Stack struct {
	owner       Owner
	background  *BackgroundLayer
	grid        *GridLayer
	axis        *AxisLayer
	text        *TextLayer
	base        []*FieldLayer
	tiles       []*FieldLayer
	currentBase int
	currentTile int
}

// NewStack builds the default stack and points every layer at owner.
func NewStack(owner Owner) *Stack {
	baseLayer, _ := NewFieldLayer(KindBase)
	tileLayer, _ := NewFieldLayer(KindTile)
	s := &Stack{
		background: newBackgroundLayer(),
		grid:       newGridLayer(),
		axis:       newAxisLayer(),
		text:       newTextLayer(),
		base:       []*FieldLayer{baseLayer},
		tiles:      []*FieldLayer{tileLayer},
	}
	s.SetOwner(owner)
	return s
}

// Owner returns the map owning the stack.
func (s *Stack) Owner() Owner { return s.owner }

// SetOwner re-points every layer at owner.
func (s *Stack) SetOwner(owner Owner) {
	s.owner = owner
	for _, l := range s.All() {
		l.setOwner(owner)
	}
}

// Background returns the background layer.
func (s *Stack) Background() *BackgroundLayer { return s.background }

// Grid returns the grid layer.
func (s *Stack) Grid() *GridLayer { return s.grid }

// Axis returns the axis layer.
func (s *Stack) Axis() *AxisLayer { return s.axis }

// Text returns the text layer.
func (s *Stack) Text() *TextLayer { return s.text }

// BaseLayers returns base layers bottom to top.
func (s *Stack) BaseLayers() []*FieldLayer { return slices.Clone(s.base) }

// TileLayers returns tile layers bottom to top.
func (s *Stack) TileLayers() []*FieldLayer { return slices.Clone(s.tiles) }

// All returns every layer in drawing order: background, base layers, grid,
// tile layers, axis, text.
func (s *Stack) All() []Layer {
	out := make([]Layer, 0, 4+len(s.base)+len(s.tiles))
	out = append(out, s.background)
	for _, l := range s.base {
		out = append(out, l)
	}
	out = append(out, s.grid)
	for _, l := range s.tiles {
		out = append(out, l)
	}
	return append(out, s.axis, s.text)
}

// FieldLayers returns base layers then tile layers.
func (s *Stack) FieldLayers() []*FieldLayer {
	return append(slices.Clone(s.base), s.tiles...)
}

func (s *Stack) list(kind Kind) (*[]*FieldLayer, error) {
	switch kind {
	case KindBase:
		return &s.base, nil
	case KindTile:
		return &s.tiles, nil
	default:
		return nil, ErrInvalidLayer.With("kind "+string(kind)+" holds no fields", nil)
	}
}

// Count returns the number of layers of a field-bearing kind.
func (s *Stack) Count(kind Kind) int {
	list, err := s.list(kind)
	if err != nil {
		return 0
	}
	return len(*list)
}

// Layer returns the field layer of kind at index.
func (s *Stack) Layer(kind Kind, index int) (*FieldLayer, error) {
	list, err := s.list(kind)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(*list) {
		return nil, ErrInvalidLayer.With(string(kind)+"["+strconv.Itoa(index)+"]", nil)
	}
	return (*list)[index], nil
}

// Get returns any layer. Index selects among base and tile layers and is
// ignored for the single layers.
func (s *Stack) Get(kind Kind, index int) (Layer, error) {
	switch kind {
	case KindBackground:
		return s.background, nil
	case KindGrid:
		return s.grid, nil
	case KindAxis:
		return s.axis, nil
	case KindText:
		return s.text, nil
	default:
		return s.Layer(kind, index)
	}
}

// Current returns the default placement target of kind.
func (s *Stack) Current(kind Kind) (*FieldLayer, error) {
	switch kind {
	case KindBase:
		return s.Layer(kind, s.currentBase)
	default:
		return s.Layer(kind, s.currentTile)
	}
}

// CurrentIndex returns the index of the default placement target of kind.
func (s *Stack) CurrentIndex(kind Kind) int {
	if kind == KindBase {
		return s.currentBase
	}
	return s.currentTile
}

// SetCurrent selects the default placement target of kind.
func (s *Stack) SetCurrent(kind Kind, index int) error {
	if _, err := s.Layer(kind, index); err != nil {
		return err
	}
	if kind == KindBase {
		s.currentBase = index
	} else {
		s.currentTile = index
	}
	return nil
}

// AddLayer appends an empty layer of kind on top of its group.
func (s *Stack) AddLayer(kind Kind) (int, error) {
	l, err := NewFieldLayer(kind)
	if err != nil {
		return 0, err
	}
	list, _ := s.list(kind)
	index := len(*list)
	if err := s.InsertLayer(kind, index, l); err != nil {
		return 0, err
	}
	return index, nil
}

// InsertLayer puts l at index within its group and adopts it.
func (s *Stack) InsertLayer(kind Kind, index int, l *FieldLayer) error {
	list, err := s.list(kind)
	if err != nil {
		return err
	}
	if l == nil || l.Kind() != kind {
		return ErrInvalidLayer.With("layer kind mismatch", nil)
	}
	if index < 0 || index > len(*list) {
		return ErrInvalidLayer.With(string(kind)+"["+strconv.Itoa(index)+"]", nil)
	}
	*list = slices.Insert(*list, index, l)
	l.setOwner(s.owner)
	if current := s.CurrentIndex(kind); index <= current && len(*list) > 1 {
		s.setCurrentIndex(kind, current+1)
	}
	s.publish(event.Event{Type: event.TypeLayerAdded, Layer: layerName(kind, index)})
	return nil
}

// EnsureLayers appends empty layers until kind has at least count layers.
func (s *Stack) EnsureLayers(kind Kind, count int) error {
	for s.Count(kind) < count {
		if _, err := s.AddLayer(kind); err != nil {
			return err
		}
	}
	return nil
}

// RemoveLayer detaches the layer of kind at index and returns it. The last
// layer of a kind cannot be removed.
func (s *Stack) RemoveLayer(kind Kind, index int) (*FieldLayer, error) {
	l, err := s.Layer(kind, index)
	if err != nil {
		return nil, err
	}
	list, _ := s.list(kind)
	if len(*list) == 1 {
		return nil, ErrLayerMinimum.With(string(kind), nil)
	}
	*list = slices.Delete(*list, index, index+1)
	current := s.CurrentIndex(kind)
	if current > index || current >= len(*list) {
		s.setCurrentIndex(kind, current-1)
	}
	l.setOwner(nil)
	s.publish(event.Event{Type: event.TypeLayerRemoved, Layer: layerName(kind, index)})
	return l, nil
}

func (s *Stack) setCurrentIndex(kind Kind, index int) {
	if kind == KindBase {
		s.currentBase = index
	} else {
		s.currentTile = index
	}
}

func (s *Stack) publish(e event.Event) {
	if s.owner != nil {
		s.owner.Publish(e)
	}
}

func layerName(kind Kind, index int) string {
	return string(kind) + "[" + strconv.Itoa(index) + "]"
}
