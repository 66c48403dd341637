// Package codec converts atlases to and from structured documents and encodes
// those documents as JSON, YAML or MessagePack.
package codec

import (
	"fmt"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/layer"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/tile"
)

// Version is the document schema version written by this package.
const Version = 1

// ErrInvalidDocument indicates a document that cannot be turned into an atlas.
var ErrInvalidDocument = apperrors.New(apperrors.CodeInvalidDocument, "invalid atlas document")

// Document is the structured form of an atlas.
type Document struct {
	Version int              `json:"version" yaml:"version" msgpack:"version"`
	ID      string           `json:"id" yaml:"id" msgpack:"id"`
	Name    string           `json:"name" yaml:"name" msgpack:"name"`
	Regions []RegionDocument `json:"regions" yaml:"regions" msgpack:"regions"`
}

// RegionDocument is the structured form of a region.
type RegionDocument struct {
	Name string        `json:"name" yaml:"name" msgpack:"name"`
	Maps []MapDocument `json:"maps" yaml:"maps" msgpack:"maps"`
}

// MapDocument is the structured form of a map.
type MapDocument struct {
	Name        string              `json:"name" yaml:"name" msgpack:"name"`
	Coordinates CoordinatesDocument `json:"coordinates" yaml:"coordinates" msgpack:"coordinates"`
	Layers      LayersDocument      `json:"layers" yaml:"layers" msgpack:"layers"`
}

// CoordinatesDocument is the structured form of a coordinate system.
type CoordinatesDocument struct {
	Origin   string  `json:"origin" yaml:"origin" msgpack:"origin"`
	Width    int     `json:"width" yaml:"width" msgpack:"width"`
	Height   int     `json:"height" yaml:"height" msgpack:"height"`
	NumeralX string  `json:"numeralX" yaml:"numeralX" msgpack:"numeralX"`
	NumeralY string  `json:"numeralY" yaml:"numeralY" msgpack:"numeralY"`
	OffsetX  float64 `json:"offsetX" yaml:"offsetX" msgpack:"offsetX"`
	OffsetY  float64 `json:"offsetY" yaml:"offsetY" msgpack:"offsetY"`
	Margin   float64 `json:"margin" yaml:"margin" msgpack:"margin"`
}

// LayersDocument is the structured form of a layer stack.
type LayersDocument struct {
	Background  LayerDocument        `json:"background" yaml:"background" msgpack:"background"`
	Grid        LayerDocument        `json:"grid" yaml:"grid" msgpack:"grid"`
	Axis        LayerDocument        `json:"axis" yaml:"axis" msgpack:"axis"`
	Text        LayerDocument        `json:"text" yaml:"text" msgpack:"text"`
	Base        []FieldLayerDocument `json:"base" yaml:"base" msgpack:"base"`
	Tile        []FieldLayerDocument `json:"tile" yaml:"tile" msgpack:"tile"`
	CurrentBase int                  `json:"currentBase" yaml:"currentBase" msgpack:"currentBase"`
	CurrentTile int                  `json:"currentTile" yaml:"currentTile" msgpack:"currentTile"`
}

// LayerDocument is the structured form of a single layer.
type LayerDocument struct {
	Hidden     bool              `json:"hidden,omitempty" yaml:"hidden,omitempty" msgpack:"hidden,omitempty"`
	Attributes map[string]string `json:"attributes" yaml:"attributes" msgpack:"attributes"`
}

// FieldLayerDocument is the structured form of a base or tile layer.
type FieldLayerDocument struct {
	Hidden bool            `json:"hidden,omitempty" yaml:"hidden,omitempty" msgpack:"hidden,omitempty"`
	Fields []FieldDocument `json:"fields" yaml:"fields" msgpack:"fields"`
}

// FieldDocument is the structured form of a field.
type FieldDocument struct {
	X     int                 `json:"x" yaml:"x" msgpack:"x"`
	Y     int                 `json:"y" yaml:"y" msgpack:"y"`
	Tiles []map[string]string `json:"tiles" yaml:"tiles" msgpack:"tiles"`
}

// FromAtlas snapshots a into a document. Slices are ordered by name or index
// so equal atlases produce equal documents.
func FromAtlas(a *atlas.Atlas) Document {
	regions := a.Regions()
	doc := Document{
		Version: Version,
		ID:      a.ID(),
		Name:    a.Name(),
		Regions: make([]RegionDocument, 0, len(regions)),
	}
	for _, r := range regions {
		maps := r.Maps()
		rd := RegionDocument{Name: r.Name(), Maps: make([]MapDocument, 0, len(maps))}
		for _, m := range maps {
			rd.Maps = append(rd.Maps, fromMap(m))
		}
		doc.Regions = append(doc.Regions, rd)
	}
	return doc
}

func fromMap(m *atlas.Map) MapDocument {
	state := m.Coordinates().State()
	stack := m.Layers()
	return MapDocument{
		Name: m.Name(),
		Coordinates: CoordinatesDocument{
			Origin:   string(state.Origin),
			Width:    state.Width,
			Height:   state.Height,
			NumeralX: state.NumeralX,
			NumeralY: state.NumeralY,
			OffsetX:  state.OffsetX,
			OffsetY:  state.OffsetY,
			Margin:   state.Margin,
		},
		Layers: LayersDocument{
			Background:  fromLayer(stack.Background()),
			Grid:        fromLayer(stack.Grid()),
			Axis:        fromLayer(stack.Axis()),
			Text:        fromLayer(stack.Text()),
			Base:        fromFieldLayers(stack.BaseLayers()),
			Tile:        fromFieldLayers(stack.TileLayers()),
			CurrentBase: stack.CurrentIndex(layer.KindBase),
			CurrentTile: stack.CurrentIndex(layer.KindTile),
		},
	}
}

func fromLayer(l layer.Layer) LayerDocument {
	return LayerDocument{Hidden: !l.Visible(), Attributes: l.Attributes()}
}

func fromFieldLayers(layers []*layer.FieldLayer) []FieldLayerDocument {
	out := make([]FieldLayerDocument, 0, len(layers))
	for _, l := range layers {
		fields := l.Fields()
		fd := FieldLayerDocument{Hidden: !l.Visible(), Fields: make([]FieldDocument, 0, len(fields))}
		for _, f := range fields {
			tiles := f.Tiles()
			doc := FieldDocument{X: f.Position().X, Y: f.Position().Y, Tiles: make([]map[string]string, 0, len(tiles))}
			for _, t := range tiles {
				doc.Tiles = append(doc.Tiles, map[string]string(t.Attributes()))
			}
			fd.Fields = append(fd.Fields, doc)
		}
		out = append(out, fd)
	}
	return out
}

// ToAtlas rebuilds an atlas. Any inconsistency fails with ErrInvalidDocument
// wrapping the domain error that detected it.
func ToAtlas(doc Document) (*atlas.Atlas, error) {
	if doc.Version != Version {
		return nil, ErrInvalidDocument.With(fmt.Sprintf("unsupported version %d", doc.Version), nil)
	}
	a, err := atlas.NewWithID(doc.ID, doc.Name)
	if err != nil {
		return nil, invalid("atlas", err)
	}
	for _, rd := range doc.Regions {
		r, err := a.CreateRegion(rd.Name)
		if err != nil {
			return nil, invalid("region "+rd.Name, err)
		}
		for _, md := range rd.Maps {
			m, err := r.CreateMap(md.Name)
			if err != nil {
				return nil, invalid("map "+md.Name, err)
			}
			if err := toMap(m, md); err != nil {
				return nil, invalid("map "+md.Name, err)
			}
		}
	}
	a.ResetModified()
	return a, nil
}

func invalid(path string, cause error) error {
	return apperrors.Wrap(apperrors.CodeInvalidDocument, "invalid atlas document: "+path, cause)
}

func toMap(m *atlas.Map, md MapDocument) error {
	c := md.Coordinates
	if _, err := coords.FromState(coords.State{
		Origin:   coords.Origin(c.Origin),
		Width:    c.Width,
		Height:   c.Height,
		NumeralX: c.NumeralX,
		NumeralY: c.NumeralY,
		OffsetX:  c.OffsetX,
		OffsetY:  c.OffsetY,
		Margin:   c.Margin,
	}); err != nil {
		return err
	}
	if err := m.Resize(coords.Size{Width: c.Width, Height: c.Height}); err != nil {
		return err
	}
	if err := m.SetOrigin(coords.Origin(c.Origin)); err != nil {
		return err
	}
	if err := m.SetNumeralX(c.NumeralX); err != nil {
		return err
	}
	if err := m.SetNumeralY(c.NumeralY); err != nil {
		return err
	}
	if err := m.SetOffset(coords.Point{X: c.OffsetX, Y: c.OffsetY}); err != nil {
		return err
	}
	if err := m.SetMargin(c.Margin); err != nil {
		return err
	}
	return toLayers(m.Layers(), md.Layers)
}

func toLayers(stack *layer.Stack, ld LayersDocument) error {
	background := stack.Background()
	if err := applyColor(ld.Background, background.SetColor); err != nil {
		return err
	}
	background.SetImage(ld.Background.Attributes[layer.AttrImage])
	if err := applyColor(ld.Grid, stack.Grid().SetColor); err != nil {
		return err
	}
	if err := applyColor(ld.Axis, stack.Axis().SetColor); err != nil {
		return err
	}
	if err := applyFont(ld.Axis, stack.Axis().SetFont); err != nil {
		return err
	}
	if err := applyColor(ld.Text, stack.Text().SetColor); err != nil {
		return err
	}
	if err := applyFont(ld.Text, stack.Text().SetFont); err != nil {
		return err
	}
	background.SetVisible(!ld.Background.Hidden)
	stack.Grid().SetVisible(!ld.Grid.Hidden)
	stack.Axis().SetVisible(!ld.Axis.Hidden)
	stack.Text().SetVisible(!ld.Text.Hidden)

	if err := toFieldLayers(stack, layer.KindBase, ld.Base); err != nil {
		return err
	}
	if err := toFieldLayers(stack, layer.KindTile, ld.Tile); err != nil {
		return err
	}
	if err := stack.SetCurrent(layer.KindBase, ld.CurrentBase); err != nil {
		return err
	}
	return stack.SetCurrent(layer.KindTile, ld.CurrentTile)
}

func applyColor(ld LayerDocument, set func(string) error) error {
	if v, ok := ld.Attributes[layer.AttrColor]; ok {
		return set(v)
	}
	return nil
}

func applyFont(ld LayerDocument, set func(string) error) error {
	if v, ok := ld.Attributes[layer.AttrFont]; ok {
		return set(v)
	}
	return nil
}

func toFieldLayers(stack *layer.Stack, kind layer.Kind, docs []FieldLayerDocument) error {
	if len(docs) == 0 {
		return layer.ErrLayerMinimum.With(string(kind), nil)
	}
	if err := stack.EnsureLayers(kind, len(docs)); err != nil {
		return err
	}
	for i, fd := range docs {
		l, err := stack.Layer(kind, i)
		if err != nil {
			return err
		}
		l.SetVisible(!fd.Hidden)
		for _, field := range fd.Fields {
			p := coords.Position{X: field.X, Y: field.Y}
			if err := coords.ValidatePosition(p); err != nil {
				return err
			}
			if l.IsFieldPresent(p) {
				return layer.ErrInvalidLayer.With("duplicate field "+p.String(), nil)
			}
			limit := layer.MaxStackHeight
			if !l.Stackable() {
				limit = 1
			}
			if len(field.Tiles) > limit {
				return tile.ErrInvalidTile.With(fmt.Sprintf("%d tiles at %s exceed %d", len(field.Tiles), p, limit), nil)
			}
			tiles := make([]tile.Tile, 0, len(field.Tiles))
			for _, attrs := range field.Tiles {
				t, err := tile.New(tile.Attributes(attrs))
				if err != nil {
					return err
				}
				tiles = append(tiles, t)
			}
			l.Restore(p, tiles)
		}
	}
	return nil
}
