package command

import (
	"fmt"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/layer"
)

// ErrInvalidCommand indicates a command used out of order or built with
// missing parameters.
var ErrInvalidCommand = apperrors.New(apperrors.CodeInvalidCommand, "invalid command")

// Command is one atomic, reversible mutation. Execute must leave the atlas
// unchanged when it fails and must be callable again after Undo.
type Command interface {
	Execute(a *atlas.Atlas) error
	Undo(a *atlas.Atlas) error
	Description() string
}

// CurrentLayer selects the stack's current base or tile layer.
const CurrentLayer = -1

// LayerRef names a layer of a map's stack.
type LayerRef struct {
	Kind  layer.Kind
	Index int
}

func (r LayerRef) String() string {
	if r.Index < 0 {
		return string(r.Kind)
	}
	return fmt.Sprintf("%s[%d]", r.Kind, r.Index)
}

// CurrentTileLayer refers to the current tile layer.
func CurrentTileLayer() LayerRef { return LayerRef{Kind: layer.KindTile, Index: CurrentLayer} }

// CurrentBaseLayer refers to the current base layer.
func CurrentBaseLayer() LayerRef { return LayerRef{Kind: layer.KindBase, Index: CurrentLayer} }

// resolveFieldLayer returns the layer and its concrete index.
func (r LayerRef) resolveFieldLayer(m *atlas.Map) (*layer.FieldLayer, int, error) {
	index := r.Index
	if index < 0 {
		index = m.Layers().CurrentIndex(r.Kind)
	}
	l, err := m.Layers().Layer(r.Kind, index)
	if err != nil {
		return nil, 0, err
	}
	return l, index, nil
}

func requireAtlas(a *atlas.Atlas) error {
	if !a.IsValid() {
		return atlas.ErrInvalidAtlas
	}
	return nil
}

func resolveMap(a *atlas.Atlas, name string) (*atlas.Map, error) {
	if err := requireAtlas(a); err != nil {
		return nil, err
	}
	m := a.FindMap(name)
	if !m.IsValid() {
		return nil, atlas.ErrInvalidMap.With(name, map[string]string{"Name": name})
	}
	return m, nil
}

func resolveRegion(a *atlas.Atlas, name string) (*atlas.Region, error) {
	if err := requireAtlas(a); err != nil {
		return nil, err
	}
	r := a.FindRegion(name)
	if !r.IsValid() {
		return nil, atlas.ErrInvalidRegion.With(name, map[string]string{"Name": name})
	}
	return r, nil
}

func notExecuted(description string) error {
	return ErrInvalidCommand.With(description+" was not executed", nil)
}

// Composite runs sub-commands in order and undoes them in reverse.
type Composite struct {
	Name     string
	Commands []Command
}

// NewComposite groups commands under one history entry.
func NewComposite(name string, commands ...Command) *Composite {
	return &Composite{Name: name, Commands: commands}
}

// Add appends a sub-command.
func (c *Composite) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// Execute runs every sub-command. When one fails, the ones already applied
// are undone so the atlas is left as it was.
func (c *Composite) Execute(a *atlas.Atlas) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(a); err != nil {
			for j := i - 1; j >= 0; j-- {
				if undoErr := c.Commands[j].Undo(a); undoErr != nil {
					return fmt.Errorf("%s: rollback %s: %w", c.Description(), c.Commands[j].Description(), undoErr)
				}
			}
			return err
		}
	}
	return nil
}

// Undo reverts sub-commands last to first. When one fails, the ones already
// reverted are executed again so the atlas is left as it was.
func (c *Composite) Undo(a *atlas.Atlas) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(a); err != nil {
			for j := i + 1; j < len(c.Commands); j++ {
				if redoErr := c.Commands[j].Execute(a); redoErr != nil {
					return fmt.Errorf("%s: reapply %s: %w", c.Description(), c.Commands[j].Description(), redoErr)
				}
			}
			return err
		}
	}
	return nil
}

// Description returns the group name, or a summary of its size.
func (c *Composite) Description() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%d changes", len(c.Commands))
}
