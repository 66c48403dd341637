package command

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/codec"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/layer"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/numeral"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/tile"
)

var (
	grass = tile.Attributes{tile.AttrType: tile.TypeColor, tile.AttrColor: "#00ff00"}
	water = tile.Attributes{tile.AttrType: tile.TypeColor, tile.AttrColor: "#0000ff"}
	tree  = tile.Attributes{tile.AttrType: tile.TypeShape, tile.AttrShape: "tree"}
	rock  = tile.Attributes{tile.AttrType: tile.TypeShape, tile.AttrShape: "rock"}
)

func newFixture(t *testing.T) *atlas.Atlas {
	t.Helper()
	a, err := atlas.NewWithID("atlas1", "World")
	if err != nil {
		t.Fatalf("new atlas: %v", err)
	}
	if _, err := a.CreateRegion("north"); err != nil {
		t.Fatalf("create region: %v", err)
	}
	if _, err := a.CreateRegion("south"); err != nil {
		t.Fatalf("create region: %v", err)
	}
	if _, err := a.CreateMap("north", "Keep"); err != nil {
		t.Fatalf("create map: %v", err)
	}
	if _, err := a.CreateMap("south", "Swamp"); err != nil {
		t.Fatalf("create map: %v", err)
	}
	keep := a.FindMap("Keep")
	base, _ := keep.Layers().Layer(layer.KindBase, 0)
	base.Place(coords.Position{X: 2, Y: 2}, tile.MustNew(grass), layer.Additive)
	tiles, _ := keep.Layers().Layer(layer.KindTile, 0)
	tiles.Place(coords.Position{X: 2, Y: 2}, tile.MustNew(tree), layer.Additive)
	tiles.Place(coords.Position{X: 2, Y: 2}, tile.MustNew(rock), layer.Additive)
	return a
}

func must[T any](v T, err error) func(*testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		if err != nil {
			t.Fatalf("build command: %v", err)
		}
		return v
	}
}

func TestUndoRestoresAtlasForEveryCommand(t *testing.T) {
	at := coords.Position{X: 2, Y: 2}
	tests := []struct {
		name  string
		build func(t *testing.T) Command
	}{
		{"create region", func(t *testing.T) Command { return must(NewCreateRegion("east"))(t) }},
		{"remove region", func(t *testing.T) Command { return NewRemoveRegion("north") }},
		{"rename region", func(t *testing.T) Command { return must(NewSetRegionName("north", "highlands"))(t) }},
		{"create map", func(t *testing.T) Command { return must(NewCreateMap("south", "Bog"))(t) }},
		{"remove map", func(t *testing.T) Command { return NewRemoveMap("Keep") }},
		{"move map", func(t *testing.T) Command { return NewMoveMap("Keep", "south") }},
		{"rename map", func(t *testing.T) Command { return must(NewSetMapName("Keep", "Fort"))(t) }},
		{"rename atlas", func(t *testing.T) Command { return must(NewSetAtlasName("Realm"))(t) }},
		{"resize map", func(t *testing.T) Command { return must(NewResizeMap("Keep", coords.Size{Width: 3, Height: 40}))(t) }},
		{"origin", func(t *testing.T) Command { return must(NewSetMapOrigin("Keep", "bottomRight"))(t) }},
		{"numeral", func(t *testing.T) Command { return must(NewSetMapNumeral("Keep", AxisY, numeral.Roman))(t) }},
		{"offset", func(t *testing.T) Command { return NewSetMapOffset("Keep", coords.Point{X: 3, Y: -1}) }},
		{"margin", func(t *testing.T) Command { return must(NewSetMapMargin("Keep", 2.5))(t) }},
		{"grid color", func(t *testing.T) Command { return must(NewSetMapGridColor("Keep", "red"))(t) }},
		{"background image", func(t *testing.T) Command { return must(NewSetMapBackgroundImage("Keep", "map.png"))(t) }},
		{"axis font", func(t *testing.T) Command { return must(NewSetMapAxisFont("Keep", "Mono,8"))(t) }},
		{"hide grid", func(t *testing.T) Command { return NewSetLayerVisible("Keep", LayerRef{Kind: layer.KindGrid}, false) }},
		{"hide tiles", func(t *testing.T) Command { return NewSetLayerVisible("Keep", CurrentTileLayer(), false) }},
		{"add layer", func(t *testing.T) Command { return must(NewAddLayer("Keep", layer.KindTile))(t) }},
		{"select base layer", func(t *testing.T) Command {
			return NewComposite("",
				must(NewAddLayer("Swamp", layer.KindBase))(t),
				must(NewSetCurrentLayer("Swamp", layer.KindBase, 1))(t),
			)
		}},
		{"place additive", func(t *testing.T) Command {
			return must(NewPlaceTile("Keep", at, tree, CurrentTileLayer(), layer.Additive))(t)
		}},
		{"place exclusive", func(t *testing.T) Command {
			return must(NewPlaceTile("Keep", at, water, CurrentTileLayer(), layer.Exclusive))(t)
		}},
		{"replace base", func(t *testing.T) Command {
			return must(NewPlaceTile("Keep", at, water, CurrentBaseLayer(), layer.Exclusive))(t)
		}},
		{"remove tile", func(t *testing.T) Command { return must(NewRemoveTile("Keep", at, tree, CurrentTileLayer()))(t) }},
		{"erase field", func(t *testing.T) Command { return must(NewEraseField("Keep", at))(t) }},
		{"composite", func(t *testing.T) Command {
			return NewComposite("rebuild",
				must(NewCreateRegion("east"))(t),
				must(NewCreateMap("east", "Tower"))(t),
				NewMoveMap("Keep", "east"),
				must(NewEraseField("Keep", at))(t),
			)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newFixture(t)
			cmd := tc.build(t)
			before := codec.FromAtlas(a)

			if err := cmd.Execute(a); err != nil {
				t.Fatalf("execute: %v", err)
			}
			after := codec.FromAtlas(a)
			if reflect.DeepEqual(before, after) {
				t.Fatal("execute did not change the atlas")
			}
			if err := cmd.Undo(a); err != nil {
				t.Fatalf("undo: %v", err)
			}
			if got := codec.FromAtlas(a); !reflect.DeepEqual(got, before) {
				t.Fatalf("undo mismatch\n got: %+v\nwant: %+v", got, before)
			}
			if err := cmd.Execute(a); err != nil {
				t.Fatalf("redo: %v", err)
			}
			if got := codec.FromAtlas(a); !reflect.DeepEqual(got, after) {
				t.Fatalf("redo mismatch\n got: %+v\nwant: %+v", got, after)
			}
			if err := cmd.Undo(a); err != nil {
				t.Fatalf("second undo: %v", err)
			}
			if got := codec.FromAtlas(a); !reflect.DeepEqual(got, before) {
				t.Fatal("second undo mismatch")
			}
		})
	}
}

func TestRemoveLayerRestoresCurrentSelection(t *testing.T) {
	a := newFixture(t)
	stack := a.FindMap("Keep").Layers()
	if _, err := stack.AddLayer(layer.KindTile); err != nil {
		t.Fatalf("add layer: %v", err)
	}
	before := codec.FromAtlas(a)

	cmd := NewRemoveLayer("Keep", LayerRef{Kind: layer.KindTile, Index: 0})
	if err := cmd.Execute(a); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stack.Count(layer.KindTile) != 1 {
		t.Fatalf("tile layers = %d", stack.Count(layer.KindTile))
	}
	if err := cmd.Undo(a); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := codec.FromAtlas(a); !reflect.DeepEqual(got, before) {
		t.Fatalf("undo mismatch\n got: %+v\nwant: %+v", got, before)
	}
}

func TestRemoveLastLayerFails(t *testing.T) {
	a := newFixture(t)
	err := NewRemoveLayer("Keep", CurrentBaseLayer()).Execute(a)
	if !errors.Is(err, layer.ErrLayerMinimum) {
		t.Fatalf("expected layer minimum, got %v", err)
	}
}

type spyCommand struct {
	name     string
	calls    *[]string
	fail     bool
	failUndo bool
}

func (s *spyCommand) Execute(*atlas.Atlas) error {
	*s.calls = append(*s.calls, "do "+s.name)
	if s.fail {
		return errors.New("boom")
	}
	return nil
}

func (s *spyCommand) Undo(*atlas.Atlas) error {
	*s.calls = append(*s.calls, "undo "+s.name)
	if s.failUndo {
		return errors.New("boom")
	}
	return nil
}

func (s *spyCommand) Description() string { return s.name }

func TestCompositeUndoesInReverse(t *testing.T) {
	var calls []string
	c := NewComposite("", &spyCommand{name: "a", calls: &calls}, &spyCommand{name: "b", calls: &calls})
	c.Add(&spyCommand{name: "c", calls: &calls})

	if err := c.Execute(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := c.Undo(nil); err != nil {
		t.Fatalf("undo: %v", err)
	}
	want := []string{"do a", "do b", "do c", "undo c", "undo b", "undo a"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if c.Description() != "3 changes" {
		t.Fatalf("description = %q", c.Description())
	}
}

func TestCompositeRollsBackOnFailure(t *testing.T) {
	var calls []string
	c := NewComposite("group",
		&spyCommand{name: "a", calls: &calls},
		&spyCommand{name: "b", calls: &calls},
		&spyCommand{name: "c", calls: &calls, fail: true},
	)
	if err := c.Execute(nil); err == nil {
		t.Fatal("expected error")
	}
	want := []string{"do a", "do b", "do c", "undo b", "undo a"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestCompositeUndoReappliesOnFailure(t *testing.T) {
	var calls []string
	c := NewComposite("group",
		&spyCommand{name: "a", calls: &calls},
		&spyCommand{name: "b", calls: &calls, failUndo: true},
		&spyCommand{name: "c", calls: &calls},
	)
	if err := c.Execute(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	calls = nil
	if err := c.Undo(nil); err == nil {
		t.Fatal("expected error")
	}
	want := []string{"undo c", "undo b", "do c"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestCompositeUndoFailureLeavesAtlasUnchanged(t *testing.T) {
	a := newFixture(t)
	c := NewComposite("group",
		must(NewSetMapName("Swamp", "Marsh"))(t),
		must(NewCreateRegion("east"))(t),
		NewMoveMap("Keep", "east"),
	)
	if err := c.Execute(a); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := a.CreateMap("south", "Swamp"); err != nil {
		t.Fatalf("create map: %v", err)
	}
	before := codec.FromAtlas(a)

	if err := c.Undo(a); !errors.Is(err, atlas.ErrDuplicateMapName) {
		t.Fatalf("expected duplicate map, got %v", err)
	}
	if got := codec.FromAtlas(a); !reflect.DeepEqual(got, before) {
		t.Fatalf("failed undo changed the atlas\n got: %+v\nwant: %+v", got, before)
	}
}

func TestSetCurrentLayerRedirectsPlacement(t *testing.T) {
	a := newFixture(t)
	stack := a.FindMap("Keep").Layers()
	if _, err := stack.AddLayer(layer.KindTile); err != nil {
		t.Fatalf("add layer: %v", err)
	}
	sel := must(NewSetCurrentLayer("Keep", layer.KindTile, 1))(t)
	if err := sel.Execute(a); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := stack.CurrentIndex(layer.KindTile); got != 1 {
		t.Fatalf("current tile layer = %d", got)
	}
	at := coords.Position{X: 4, Y: 4}
	if err := must(NewPlaceTile("Keep", at, tree, CurrentTileLayer(), layer.Additive))(t).Execute(a); err != nil {
		t.Fatalf("place: %v", err)
	}
	top, _ := stack.Layer(layer.KindTile, 1)
	if !top.IsFieldPresent(at) {
		t.Fatal("expected tile on the selected layer")
	}
	if err := sel.Undo(a); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := stack.CurrentIndex(layer.KindTile); got != 0 {
		t.Fatalf("current tile layer after undo = %d", got)
	}
}

func TestSetCurrentLayerRejectsBadTargets(t *testing.T) {
	if _, err := NewSetCurrentLayer("Keep", layer.KindGrid, 0); !errors.Is(err, layer.ErrInvalidLayer) {
		t.Fatalf("expected invalid layer for grid, got %v", err)
	}
	if _, err := NewSetCurrentLayer("Keep", layer.KindTile, -1); !errors.Is(err, layer.ErrInvalidLayer) {
		t.Fatalf("expected invalid layer for negative index, got %v", err)
	}
	a := newFixture(t)
	before := codec.FromAtlas(a)
	if err := must(NewSetCurrentLayer("Keep", layer.KindTile, 3))(t).Execute(a); !errors.Is(err, layer.ErrInvalidLayer) {
		t.Fatalf("expected invalid layer for missing index, got %v", err)
	}
	if got := codec.FromAtlas(a); !reflect.DeepEqual(got, before) {
		t.Fatal("failed selection changed the atlas")
	}
}

func TestCompositeRollbackLeavesAtlasUnchanged(t *testing.T) {
	a := newFixture(t)
	before := codec.FromAtlas(a)
	c := NewComposite("broken",
		must(NewCreateRegion("east"))(t),
		must(NewCreateMap("east", "Tower"))(t),
		must(NewCreateMap("east", "Keep"))(t),
	)
	if err := c.Execute(a); !errors.Is(err, atlas.ErrDuplicateMapName) {
		t.Fatalf("expected duplicate map, got %v", err)
	}
	if got := codec.FromAtlas(a); !reflect.DeepEqual(got, before) {
		t.Fatal("failed composite changed the atlas")
	}
}

func TestExclusivePlacementRestoresDisplacedOrder(t *testing.T) {
	a := newFixture(t)
	at := coords.Position{X: 2, Y: 2}
	cmd := must(NewPlaceTile("Keep", at, water, CurrentTileLayer(), layer.Exclusive))(t)
	if err := cmd.Execute(a); err != nil {
		t.Fatalf("execute: %v", err)
	}
	l, _ := a.FindMap("Keep").Layers().Current(layer.KindTile)
	if got := l.Tiles(at); len(got) != 1 || !got[0].Equal(tile.MustNew(water)) {
		t.Fatalf("tiles after exclusive place = %v", got)
	}
	if err := cmd.Undo(a); err != nil {
		t.Fatalf("undo: %v", err)
	}
	got := l.Tiles(at)
	if len(got) != 2 || !got[0].Equal(tile.MustNew(tree)) || !got[1].Equal(tile.MustNew(rock)) {
		t.Fatalf("tiles after undo = %v", got)
	}
}

func TestRejectedAdditivePlacementUndoIsNoop(t *testing.T) {
	a := newFixture(t)
	at := coords.Position{X: 2, Y: 2}
	before := codec.FromAtlas(a)

	cmd := must(NewPlaceTile("Keep", at, rock, CurrentTileLayer(), layer.Additive))(t)
	if err := cmd.Execute(a); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cmd.Placed() {
		t.Fatal("identical top tile must not be stacked")
	}
	if err := cmd.Undo(a); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := codec.FromAtlas(a); !reflect.DeepEqual(got, before) {
		t.Fatal("rejected placement changed the atlas")
	}

	occupied := must(NewPlaceTile("Keep", at, water, CurrentBaseLayer(), layer.Additive))(t)
	if err := occupied.Execute(a); err != nil {
		t.Fatalf("execute on base: %v", err)
	}
	if occupied.Placed() {
		t.Fatal("base layer must not stack")
	}
}

func TestRemoveTileKeepsStackPosition(t *testing.T) {
	a := newFixture(t)
	at := coords.Position{X: 2, Y: 2}
	l, _ := a.FindMap("Keep").Layers().Current(layer.KindTile)
	l.Place(at, tile.MustNew(tree), layer.Additive)

	cmd := must(NewRemoveTile("Keep", at, rock, CurrentTileLayer()))(t)
	if err := cmd.Execute(a); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := l.Tiles(at); len(got) != 2 {
		t.Fatalf("tiles after remove = %d", len(got))
	}
	if err := cmd.Undo(a); err != nil {
		t.Fatalf("undo: %v", err)
	}
	got := l.Tiles(at)
	if len(got) != 3 || !got[1].Equal(tile.MustNew(rock)) {
		t.Fatalf("rock must be back in the middle, got %v", got)
	}

	missing := must(NewRemoveTile("Keep", coords.Position{X: 5, Y: 5}, rock, CurrentTileLayer()))(t)
	if err := missing.Execute(a); !errors.Is(err, tile.ErrInvalidTile) {
		t.Fatalf("expected invalid tile, got %v", err)
	}
}

func TestEraseFieldCountsTiles(t *testing.T) {
	a := newFixture(t)
	cmd := must(NewEraseField("Keep", coords.Position{X: 2, Y: 2}))(t)
	if err := cmd.Execute(a); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cmd.Erased() != 3 {
		t.Fatalf("erased = %d, want 3", cmd.Erased())
	}
	for _, l := range a.FindMap("Keep").Layers().FieldLayers() {
		if l.IsFieldPresent(coords.Position{X: 2, Y: 2}) {
			t.Fatalf("%s still holds the field", l.Kind())
		}
	}
}

func TestCommandsResolveByNameAcrossRenames(t *testing.T) {
	a := newFixture(t)
	at := coords.Position{X: 0, Y: 0}
	place := must(NewPlaceTile("Keep", at, tree, CurrentTileLayer(), layer.Additive))(t)
	rename := must(NewSetMapName("Keep", "Fort"))(t)
	remove := NewRemoveMap("Fort")

	for _, cmd := range []Command{place, rename, remove} {
		if err := cmd.Execute(a); err != nil {
			t.Fatalf("%s: %v", cmd.Description(), err)
		}
	}
	for _, cmd := range []Command{remove, rename, place} {
		if err := cmd.Undo(a); err != nil {
			t.Fatalf("undo %s: %v", cmd.Description(), err)
		}
	}
	keep := a.FindMap("Keep")
	if !keep.IsValid() || keep.Region().Name() != "north" {
		t.Fatal("expected Keep back in north")
	}
	l, _ := keep.Layers().Current(layer.KindTile)
	if l.IsFieldPresent(at) {
		t.Fatal("placed tile must be undone")
	}
}

func TestUndoBeforeExecuteFails(t *testing.T) {
	a := newFixture(t)
	cmds := []Command{
		NewRemoveRegion("north"),
		NewRemoveMap("Keep"),
		NewMoveMap("Keep", "south"),
		must(NewResizeMap("Keep", coords.Size{Width: 4, Height: 4}))(t),
		must(NewPlaceTile("Keep", coords.Position{}, tree, CurrentTileLayer(), layer.Additive))(t),
		must(NewEraseField("Keep", coords.Position{}))(t),
		NewRemoveLayer("Keep", CurrentTileLayer()),
	}
	for _, cmd := range cmds {
		if err := cmd.Undo(a); !errors.Is(err, ErrInvalidCommand) {
			t.Fatalf("%s: expected invalid command, got %v", cmd.Description(), err)
		}
	}
}

func TestCommandsRejectMissingTargets(t *testing.T) {
	a := newFixture(t)
	tests := []struct {
		cmd  Command
		want error
	}{
		{NewRemoveRegion("west"), atlas.ErrInvalidRegion},
		{NewRemoveMap("Nowhere"), atlas.ErrInvalidMap},
		{NewMoveMap("Keep", "west"), atlas.ErrInvalidRegion},
		{must(NewSetMapGridColor("Nowhere", "red"))(t), atlas.ErrInvalidMap},
		{must(NewCreateRegion("north"))(t), atlas.ErrDuplicateRegionName},
		{must(NewSetMapName("Keep", "Swamp"))(t), atlas.ErrDuplicateMapName},
	}
	for _, tc := range tests {
		if err := tc.cmd.Execute(a); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.cmd.Description(), err, tc.want)
		}
	}
	if err := NewRemoveMap("Keep").Execute(atlas.InvalidAtlas()); !errors.Is(err, atlas.ErrInvalidAtlas) {
		t.Fatalf("expected invalid atlas, got %v", err)
	}
}

func TestConstructorsValidateInput(t *testing.T) {
	if _, err := NewCreateRegion("a/b"); !errors.Is(err, atlas.ErrInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
	if _, err := NewResizeMap("Keep", coords.Size{Width: 0, Height: 1}); !errors.Is(err, coords.ErrInvalidSize) {
		t.Fatalf("expected invalid size, got %v", err)
	}
	if _, err := NewSetMapOrigin("Keep", "center"); !errors.Is(err, coords.ErrUnknownOrigin) {
		t.Fatalf("expected unknown origin, got %v", err)
	}
	if _, err := NewSetMapNumeral("Keep", AxisX, "greek"); !errors.Is(err, numeral.ErrUnknownMethod) {
		t.Fatalf("expected unknown numeral, got %v", err)
	}
	if _, err := NewSetMapMargin("Keep", -1); !errors.Is(err, coords.ErrInvalidMargin) {
		t.Fatalf("expected invalid margin, got %v", err)
	}
	if _, err := NewSetMapGridColor("Keep", "notacolor"); !errors.Is(err, tile.ErrInvalidColor) {
		t.Fatalf("expected invalid color, got %v", err)
	}
	if _, err := NewPlaceTile("Keep", coords.Position{X: -1}, tree, CurrentTileLayer(), layer.Additive); !errors.Is(err, coords.ErrInvalidPosition) {
		t.Fatalf("expected invalid position, got %v", err)
	}
	if _, err := NewPlaceTile("Keep", coords.Position{}, tile.Attributes{tile.AttrType: "smell"}, CurrentTileLayer(), layer.Additive); !errors.Is(err, tile.ErrInvalidTile) {
		t.Fatalf("expected invalid tile, got %v", err)
	}
	if _, err := NewAddLayer("Keep", layer.KindGrid); !errors.Is(err, layer.ErrInvalidLayer) {
		t.Fatalf("expected invalid layer, got %v", err)
	}
}
