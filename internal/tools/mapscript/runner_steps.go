package mapscript

import (
	"context"
	"fmt"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/command"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/layer"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/session"
)

var layerProperties = map[string]command.Property{
	"grid_color":       command.PropertyGridColor,
	"background_color": command.PropertyBackgroundColor,
	"background_image": command.PropertyBackgroundImage,
	"axis_color":       command.PropertyAxisColor,
	"axis_font":        command.PropertyAxisFont,
	"text_color":       command.PropertyTextColor,
	"text_font":        command.PropertyTextFont,
}

func (r *Runner) runStep(ctx context.Context, state *runState, step Step) error {
	switch step.Kind {
	case "open":
		return r.runOpen(ctx, state, step)
	case "select":
		name, err := requiredString(step.Args, "map")
		if err != nil {
			return err
		}
		return state.session.SelectMap(name)
	case "undo", "redo":
		return r.runHistory(ctx, state, step)
	case "save":
		return r.runSave(ctx, state)
	case "expect_tiles":
		return r.runExpectTiles(state, step)
	case "batch":
		cmd, err := r.buildBatch(state, step)
		if err != nil {
			return err
		}
		return state.session.Execute(ctx, cmd)
	}

	cmd, err := r.buildCommand(state, step)
	if err != nil {
		return err
	}
	if err := state.session.Execute(ctx, cmd); err != nil {
		return err
	}
	if step.Kind == "map" {
		create := cmd.(*command.CreateMap)
		return state.session.SelectMap(create.Name)
	}
	return nil
}

func (r *Runner) runOpen(ctx context.Context, state *runState, step Step) error {
	if r.store == nil {
		return fmt.Errorf("open needs an atlas store")
	}
	atlasID, err := requiredString(step.Args, "id")
	if err != nil {
		return err
	}
	opened, err := session.Open(ctx, r.store, atlasID, r.options...)
	if err != nil {
		return err
	}
	state.session.Close()
	state.session = opened
	return nil
}

func (r *Runner) runHistory(ctx context.Context, state *runState, step Step) error {
	count, err := optionalInt(step.Args, "count", 1)
	if err != nil {
		return err
	}
	p := state.session.Processor()
	for i := 0; i < count; i++ {
		if step.Kind == "undo" {
			if !p.CanUndo() {
				return command.ErrInvalidCommand.With("nothing to undo", nil)
			}
			err = state.session.Undo(ctx)
		} else {
			if !p.CanRedo() {
				return command.ErrInvalidCommand.With("nothing to redo", nil)
			}
			err = state.session.Redo(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runSave(ctx context.Context, state *runState) error {
	if r.store == nil {
		return fmt.Errorf("save needs an atlas store")
	}
	if err := state.session.Save(ctx, r.store); err != nil {
		return err
	}
	a := state.session.Atlas()
	r.logf("%s", r.printer.Sprintf("mapscript.saved", a.Name(), a.ID()))
	return nil
}

func (r *Runner) runExpectTiles(state *runState, step Step) error {
	name, err := mapName(state, step.Args)
	if err != nil {
		return err
	}
	m := state.session.Atlas().FindMap(name)
	if !m.IsValid() {
		return atlas.ErrInvalidMap.With(name, map[string]string{"Name": name})
	}
	p, err := positionArg(step.Args)
	if err != nil {
		return err
	}
	ref, err := layerRefArg(step.Args, layer.KindTile)
	if err != nil {
		return err
	}
	want, err := requiredInt(step.Args, "count")
	if err != nil {
		return err
	}
	index := ref.Index
	if index < 0 {
		index = m.Layers().CurrentIndex(ref.Kind)
	}
	l, err := m.Layers().Layer(ref.Kind, index)
	if err != nil {
		return err
	}
	if got := len(l.Tiles(p)); got != want {
		return fmt.Errorf("expected %d tiles at %s on %s, got %d", want, p, ref, got)
	}
	return nil
}

func (r *Runner) buildBatch(state *runState, step Step) (command.Command, error) {
	name, err := requiredString(step.Args, "name")
	if err != nil {
		return nil, err
	}
	batch := command.NewComposite(name)
	for i, sub := range step.Steps {
		cmd, err := r.buildCommand(state, sub)
		if err != nil {
			return nil, fmt.Errorf("batch step %d (%s): %w", i+1, sub.Kind, err)
		}
		batch.Add(cmd)
	}
	return batch, nil
}

// buildCommand turns a recorded step into a command. Arguments are checked
// here; targets are resolved when the command executes.
func (r *Runner) buildCommand(state *runState, step Step) (command.Command, error) {
	args := step.Args
	switch step.Kind {
	case "atlas":
		name, err := requiredString(args, "name")
		if err != nil {
			return nil, err
		}
		return command.NewSetAtlasName(name)
	case "region":
		name, err := requiredString(args, "name")
		if err != nil {
			return nil, err
		}
		return command.NewCreateRegion(name)
	case "remove_region":
		name, err := requiredString(args, "name")
		if err != nil {
			return nil, err
		}
		return command.NewRemoveRegion(name), nil
	case "rename_region":
		name, to, err := twoStrings(args, "name", "to")
		if err != nil {
			return nil, err
		}
		return command.NewSetRegionName(name, to)
	case "map":
		region, name, err := twoStrings(args, "region", "name")
		if err != nil {
			return nil, err
		}
		return command.NewCreateMap(region, name)
	case "remove_map":
		name, err := requiredString(args, "map")
		if err != nil {
			return nil, err
		}
		return command.NewRemoveMap(name), nil
	case "rename_map":
		name, to, err := twoStrings(args, "map", "to")
		if err != nil {
			return nil, err
		}
		return command.NewSetMapName(name, to)
	case "move_map":
		name, region, err := twoStrings(args, "map", "region")
		if err != nil {
			return nil, err
		}
		return command.NewMoveMap(name, region), nil
	case "resize":
		return buildResize(args)
	case "origin":
		name, origin, err := twoStrings(args, "map", "origin")
		if err != nil {
			return nil, err
		}
		return command.NewSetMapOrigin(name, origin)
	case "numerals":
		name, axis, err := twoStrings(args, "map", "axis")
		if err != nil {
			return nil, err
		}
		method, err := requiredString(args, "method")
		if err != nil {
			return nil, err
		}
		return command.NewSetMapNumeral(name, command.Axis(axis), method)
	case "offset":
		return buildOffset(args)
	case "margin":
		name, err := requiredString(args, "map")
		if err != nil {
			return nil, err
		}
		margin, err := requiredFloat(args, "margin")
		if err != nil {
			return nil, err
		}
		return command.NewSetMapMargin(name, margin)
	case "grid_color", "background_color", "background_image", "axis_color", "axis_font", "text_color", "text_font":
		name, value, err := twoStrings(args, "map", "value")
		if err != nil {
			return nil, err
		}
		return command.NewSetLayerProperty(name, layerProperties[step.Kind], value)
	case "show", "hide":
		return buildVisibility(args)
	case "add_layer":
		name, kindName, err := twoStrings(args, "map", "kind")
		if err != nil {
			return nil, err
		}
		kind, err := layer.ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		return command.NewAddLayer(name, kind)
	case "remove_layer":
		name, err := requiredString(args, "map")
		if err != nil {
			return nil, err
		}
		ref, err := layerRefArg(map[string]any{"layer": args["kind"], "index": args["index"]}, layer.KindTile)
		if err != nil {
			return nil, err
		}
		return command.NewRemoveLayer(name, ref), nil
	case "select_layer":
		name, kindName, err := twoStrings(args, "map", "kind")
		if err != nil {
			return nil, err
		}
		kind, err := layer.ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		index, err := requiredInt(args, "index")
		if err != nil {
			return nil, err
		}
		return command.NewSetCurrentLayer(name, kind, index)
	case "place":
		return buildPlace(state, args)
	case "remove_tile":
		return buildRemoveTile(state, args)
	case "erase":
		name, err := mapName(state, args)
		if err != nil {
			return nil, err
		}
		p, err := positionArg(args)
		if err != nil {
			return nil, err
		}
		return command.NewEraseField(name, p)
	default:
		return nil, fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func buildResize(args map[string]any) (command.Command, error) {
	name, err := requiredString(args, "map")
	if err != nil {
		return nil, err
	}
	width, err := requiredInt(args, "width")
	if err != nil {
		return nil, err
	}
	height, err := requiredInt(args, "height")
	if err != nil {
		return nil, err
	}
	return command.NewResizeMap(name, coords.Size{Width: width, Height: height})
}

func buildOffset(args map[string]any) (command.Command, error) {
	name, err := requiredString(args, "map")
	if err != nil {
		return nil, err
	}
	x, err := requiredFloat(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := requiredFloat(args, "y")
	if err != nil {
		return nil, err
	}
	return command.NewSetMapOffset(name, coords.Point{X: x, Y: y}), nil
}

func buildVisibility(args map[string]any) (command.Command, error) {
	name, err := requiredString(args, "map")
	if err != nil {
		return nil, err
	}
	visible, err := optionalBool(args, "visible", true)
	if err != nil {
		return nil, err
	}
	ref, err := layerRefArg(args, layer.KindTile)
	if err != nil {
		return nil, err
	}
	return command.NewSetLayerVisible(name, ref, visible), nil
}

func buildPlace(state *runState, args map[string]any) (command.Command, error) {
	name, err := mapName(state, args)
	if err != nil {
		return nil, err
	}
	p, err := positionArg(args)
	if err != nil {
		return nil, err
	}
	attrs, err := tileArg(args)
	if err != nil {
		return nil, err
	}
	ref, err := layerRefArg(args, layer.KindTile)
	if err != nil {
		return nil, err
	}
	modeName, err := optionalString(args, "mode", "")
	if err != nil {
		return nil, err
	}
	mode, err := layer.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	return command.NewPlaceTile(name, p, attrs, ref, mode)
}

func buildRemoveTile(state *runState, args map[string]any) (command.Command, error) {
	name, err := mapName(state, args)
	if err != nil {
		return nil, err
	}
	p, err := positionArg(args)
	if err != nil {
		return nil, err
	}
	attrs, err := tileArg(args)
	if err != nil {
		return nil, err
	}
	ref, err := layerRefArg(args, layer.KindTile)
	if err != nil {
		return nil, err
	}
	return command.NewRemoveTile(name, p, attrs, ref)
}

// mapName returns the map key of args, falling back to the selected map.
func mapName(state *runState, args map[string]any) (string, error) {
	name, err := optionalString(args, "map", "")
	if err != nil {
		return "", err
	}
	if name != "" {
		return name, nil
	}
	m := state.session.CurrentMap()
	if !m.IsValid() {
		return "", atlas.ErrInvalidMap.With("no map selected", map[string]string{"Name": ""})
	}
	return m.Name(), nil
}

func positionArg(args map[string]any) (coords.Position, error) {
	x, err := requiredInt(args, "x")
	if err != nil {
		return coords.Position{}, err
	}
	y, err := requiredInt(args, "y")
	if err != nil {
		return coords.Position{}, err
	}
	return coords.Position{X: x, Y: y}, nil
}

func layerRefArg(args map[string]any, fallback layer.Kind) (command.LayerRef, error) {
	kindName, err := optionalString(args, "layer", string(fallback))
	if err != nil {
		return command.LayerRef{}, err
	}
	kind, err := layer.ParseKind(kindName)
	if err != nil {
		return command.LayerRef{}, err
	}
	index := command.CurrentLayer
	if args["index"] != nil {
		if index, err = requiredInt(args, "index"); err != nil {
			return command.LayerRef{}, err
		}
	}
	return command.LayerRef{Kind: kind, Index: index}, nil
}

func twoStrings(args map[string]any, first, second string) (string, string, error) {
	a, err := requiredString(args, first)
	if err != nil {
		return "", "", err
	}
	b, err := requiredString(args, second)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}
