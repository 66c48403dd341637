package layer

import (
	"slices"
	"sort"
	"strings"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/event"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/tile"
)

// MaxStackHeight caps the tiles of one field on a stackable layer.
const MaxStackHeight = 16

// Mode selects how a placement treats tiles already on the field.
type Mode int

const (
	// Additive appends to the field's stack.
	Additive Mode = iota
	// Exclusive replaces every tile on the field.
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "additive"
}

// ParseMode validates a placement mode name. An empty name is additive.
func ParseMode(name string) (Mode, error) {
	switch strings.TrimSpace(name) {
	case "", "additive":
		return Additive, nil
	case "exclusive":
		return Exclusive, nil
	default:
		return Additive, ErrInvalidLayer.With("unknown placement mode "+name, nil)
	}
}

// Field is the tile stack at one grid cell, bottom first.
type Field struct {
	position coords.Position
	tiles    []tile.Tile
}

// Position returns the cell of the field.
func (f *Field) Position() coords.Position { return f.position }

// Index returns the encoded field index.
func (f *Field) Index() int { return coords.Index(f.position) }

// Tiles returns the stack in drawing order.
func (f *Field) Tiles() []tile.Tile { return slices.Clone(f.tiles) }

// Len returns the stack height.
func (f *Field) Len() int { return len(f.tiles) }

// FieldLayer stores fields sparsely by index. Base layers hold at most one
// tile per field; tile layers stack up to MaxStackHeight.
type FieldLayer struct {
	common
	stackable bool
	fields    map[int]*Field
}

// NewFieldLayer returns an empty base or tile layer.
func NewFieldLayer(kind Kind) (*FieldLayer, error) {
	switch kind {
	case KindBase:
		return &FieldLayer{common: newCommon(kind), fields: map[int]*Field{}}, nil
	case KindTile:
		return &FieldLayer{common: newCommon(kind), stackable: true, fields: map[int]*Field{}}, nil
	default:
		return nil, ErrInvalidLayer.With("kind "+string(kind)+" holds no fields", nil)
	}
}

// Stackable reports whether fields on this layer hold more than one tile.
func (l *FieldLayer) Stackable() bool { return l.stackable }

// IsFieldPresent reports whether the field at p holds at least one tile.
func (l *FieldLayer) IsFieldPresent(p coords.Position) bool {
	f, ok := l.fields[coords.Index(p)]
	return ok && len(f.tiles) > 0
}

// Tiles returns the stack at p; nil when empty.
func (l *FieldLayer) Tiles(p coords.Position) []tile.Tile {
	f, ok := l.fields[coords.Index(p)]
	if !ok {
		return nil
	}
	return f.Tiles()
}

// Fields returns non-empty fields ordered by index.
func (l *FieldLayer) Fields() []*Field {
	indexes := make([]int, 0, len(l.fields))
	for idx, f := range l.fields {
		if len(f.tiles) > 0 {
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)
	out := make([]*Field, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, l.fields[idx])
	}
	return out
}

// CanPlace reports whether an additive placement of t at p would succeed.
func (l *FieldLayer) CanPlace(p coords.Position, t tile.Tile) bool {
	if t == nil {
		return false
	}
	stack := l.Tiles(p)
	if !l.stackable && len(stack) > 0 {
		return false
	}
	if len(stack) >= MaxStackHeight {
		return false
	}
	return t.Placeable(stack)
}

// Place puts t on the field at p. Exclusive placement returns the displaced
// tiles in their original order. An additive placement that is not allowed
// is a no-op reporting placed=false.
func (l *FieldLayer) Place(p coords.Position, t tile.Tile, mode Mode) (placed bool, displaced []tile.Tile, err error) {
	if err := coords.ValidatePosition(p); err != nil {
		return false, nil, err
	}
	if t == nil {
		return false, nil, tile.ErrInvalidTile.With("nil tile", nil)
	}
	if mode == Exclusive {
		idx := coords.Index(p)
		if f, ok := l.fields[idx]; ok {
			displaced = f.tiles
		}
		l.fields[idx] = &Field{position: p, tiles: []tile.Tile{t}}
		l.fieldChanged(p)
		return true, displaced, nil
	}
	if !l.CanPlace(p, t) {
		return false, nil, nil
	}
	f := l.field(p)
	f.tiles = append(f.tiles, t)
	l.fieldChanged(p)
	return true, nil, nil
}

// Remove drops the topmost tile equal to t from the field at p. Empty fields
// are removed from storage.
func (l *FieldLayer) Remove(p coords.Position, t tile.Tile) bool {
	idx := coords.Index(p)
	i := l.TopIndex(p, t)
	if i < 0 {
		return false
	}
	f := l.fields[idx]
	f.tiles = slices.Delete(f.tiles, i, i+1)
	if len(f.tiles) == 0 {
		delete(l.fields, idx)
	}
	l.fieldChanged(p)
	return true
}

// Erase removes every tile at p and returns them bottom first.
func (l *FieldLayer) Erase(p coords.Position) []tile.Tile {
	idx := coords.Index(p)
	f, ok := l.fields[idx]
	if !ok {
		return nil
	}
	delete(l.fields, idx)
	if len(f.tiles) > 0 {
		l.fieldChanged(p)
	}
	return f.tiles
}

// TopIndex returns the stack position of the topmost tile equal to t, or -1.
func (l *FieldLayer) TopIndex(p coords.Position, t tile.Tile) int {
	f, ok := l.fields[coords.Index(p)]
	if !ok || t == nil {
		return -1
	}
	for i := len(f.tiles) - 1; i >= 0; i-- {
		if f.tiles[i].Equal(t) {
			return i
		}
	}
	return -1
}

// Insert puts t at stack position index of the field at p, clamped to the
// stack bounds, without placement checks.
func (l *FieldLayer) Insert(p coords.Position, index int, t tile.Tile) {
	if t == nil {
		return
	}
	f := l.field(p)
	index = max(0, min(index, len(f.tiles)))
	f.tiles = slices.Insert(f.tiles, index, t)
	l.fieldChanged(p)
}

// Restore appends tiles to the field at p without placement checks. It is the
// inverse of Erase and of an exclusive Place.
func (l *FieldLayer) Restore(p coords.Position, tiles []tile.Tile) {
	if len(tiles) == 0 {
		return
	}
	f := l.field(p)
	f.tiles = append(f.tiles, tiles...)
	l.fieldChanged(p)
}

func (l *FieldLayer) field(p coords.Position) *Field {
	idx := coords.Index(p)
	f, ok := l.fields[idx]
	if !ok {
		f = &Field{position: p}
		l.fields[idx] = f
	}
	return f
}

func (l *FieldLayer) fieldChanged(p coords.Position) {
	l.publish(event.Event{Type: event.TypeFieldChanged, Position: p})
}
