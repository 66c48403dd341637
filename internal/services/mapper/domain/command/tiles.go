package command

import (
	"sort"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/layer"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/tile"
)

// PlaceTile puts a tile on a field. Undo removes the placed tile and puts
// back whatever an exclusive placement displaced, in original order.
type PlaceTile struct {
	Map        string
	Position   coords.Position
	Attributes tile.Attributes
	Layer      LayerRef
	Mode       layer.Mode

	placed    tile.Tile
	index     int
	displaced []tile.Tile
	executed  bool
}

// NewPlaceTile validates position and tile attributes up front.
func NewPlaceTile(mapName string, p coords.Position, attrs tile.Attributes, ref LayerRef, mode layer.Mode) (*PlaceTile, error) {
	if err := coords.ValidatePosition(p); err != nil {
		return nil, err
	}
	if _, err := tile.New(attrs); err != nil {
		return nil, err
	}
	if ref.Kind != layer.KindBase && ref.Kind != layer.KindTile {
		return nil, layer.ErrInvalidLayer.With("kind "+string(ref.Kind)+" holds no fields", nil)
	}
	return &PlaceTile{Map: mapName, Position: p, Attributes: attrs.Clone(), Layer: ref, Mode: mode}, nil
}

// Placed reports whether the last execution put the tile down.
func (c *PlaceTile) Placed() bool { return c.placed != nil }

// Execute implements Command.
func (c *PlaceTile) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	t, err := tile.New(c.Attributes)
	if err != nil {
		return err
	}
	l, index, err := c.Layer.resolveFieldLayer(m)
	if err != nil {
		return err
	}
	placed, displaced, err := l.Place(c.Position, t, c.Mode)
	if err != nil {
		return err
	}
	c.placed, c.index, c.displaced, c.executed = nil, index, displaced, true
	if placed {
		c.placed = t
	}
	return nil
}

// Undo implements Command.
func (c *PlaceTile) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	if c.placed == nil {
		return nil
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	l, err := m.Layers().Layer(c.Layer.Kind, c.index)
	if err != nil {
		return err
	}
	l.Remove(c.Position, c.placed)
	l.Restore(c.Position, c.displaced)
	c.displaced = nil
	return nil
}

// Description implements Command.
func (c *PlaceTile) Description() string {
	return "place " + c.Attributes[tile.AttrType] + " tile on " + c.Map + " at " + c.Position.String()
}

// RemoveTile takes the topmost tile equal to Attributes off a field. Undo
// puts it back at the same stack position.
type RemoveTile struct {
	Map        string
	Position   coords.Position
	Attributes tile.Attributes
	Layer      LayerRef

	removed  tile.Tile
	layer    int
	stackPos int
}

// NewRemoveTile validates position and tile attributes up front.
func NewRemoveTile(mapName string, p coords.Position, attrs tile.Attributes, ref LayerRef) (*RemoveTile, error) {
	if err := coords.ValidatePosition(p); err != nil {
		return nil, err
	}
	if _, err := tile.New(attrs); err != nil {
		return nil, err
	}
	return &RemoveTile{Map: mapName, Position: p, Attributes: attrs.Clone(), Layer: ref}, nil
}

// Execute implements Command.
func (c *RemoveTile) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	t, err := tile.New(c.Attributes)
	if err != nil {
		return err
	}
	l, index, err := c.Layer.resolveFieldLayer(m)
	if err != nil {
		return err
	}
	pos := l.TopIndex(c.Position, t)
	if pos < 0 {
		return tile.ErrInvalidTile.With("no matching tile at "+c.Position.String(), nil)
	}
	l.Remove(c.Position, t)
	c.removed, c.layer, c.stackPos = t, index, pos
	return nil
}

// Undo implements Command.
func (c *RemoveTile) Undo(a *atlas.Atlas) error {
	if c.removed == nil {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	l, err := m.Layers().Layer(c.Layer.Kind, c.layer)
	if err != nil {
		return err
	}
	l.Insert(c.Position, c.stackPos, c.removed)
	c.removed = nil
	return nil
}

// Description implements Command.
func (c *RemoveTile) Description() string {
	return "remove tile from " + c.Map + " at " + c.Position.String()
}

type layerKey struct {
	kind  layer.Kind
	index int
}

// EraseField clears a cell on every base and tile layer. Undo restores the
// tiles to the same layer indices, creating layers and fields as needed.
type EraseField struct {
	Map      string
	Position coords.Position
	removed  map[layerKey][]tile.Tile
	executed bool
}

// NewEraseField validates the position up front.
func NewEraseField(mapName string, p coords.Position) (*EraseField, error) {
	if err := coords.ValidatePosition(p); err != nil {
		return nil, err
	}
	return &EraseField{Map: mapName, Position: p}, nil
}

// Execute implements Command.
func (c *EraseField) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	if err := coords.ValidatePosition(c.Position); err != nil {
		return err
	}
	removed := map[layerKey][]tile.Tile{}
	stack := m.Layers()
	for _, kind := range []layer.Kind{layer.KindBase, layer.KindTile} {
		for i := 0; i < stack.Count(kind); i++ {
			l, _ := stack.Layer(kind, i)
			if tiles := l.Erase(c.Position); len(tiles) > 0 {
				removed[layerKey{kind: kind, index: i}] = tiles
			}
		}
	}
	c.removed, c.executed = removed, true
	return nil
}

// Undo implements Command.
func (c *EraseField) Undo(a *atlas.Atlas) error {
	if !c.executed {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	keys := make([]layerKey, 0, len(c.removed))
	for k := range c.removed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		return keys[i].index < keys[j].index
	})
	stack := m.Layers()
	for _, k := range keys {
		if err := stack.EnsureLayers(k.kind, k.index+1); err != nil {
			return err
		}
		l, err := stack.Layer(k.kind, k.index)
		if err != nil {
			return err
		}
		l.Restore(c.Position, c.removed[k])
	}
	c.removed = nil
	return nil
}

// Erased returns how many tiles the last execution removed.
func (c *EraseField) Erased() int {
	n := 0
	for _, tiles := range c.removed {
		n += len(tiles)
	}
	return n
}

// Description implements Command.
func (c *EraseField) Description() string {
	return "erase " + c.Map + " at " + c.Position.String()
}
