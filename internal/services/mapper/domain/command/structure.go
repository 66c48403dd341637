package command

import (
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
)

// CreateRegion inserts an empty region. Undo detaches it and redo re-inserts
// the same region.
type CreateRegion struct {
	Name    string
	created *atlas.Region
}

// NewCreateRegion validates the name up front.
func NewCreateRegion(name string) (*CreateRegion, error) {
	if err := atlas.ValidateName(name); err != nil {
		return nil, err
	}
	return &CreateRegion{Name: name}, nil
}

// Execute implements Command.
func (c *CreateRegion) Execute(a *atlas.Atlas) error {
	if err := requireAtlas(a); err != nil {
		return err
	}
	if c.created != nil {
		return a.AddRegion(c.created)
	}
	r, err := a.CreateRegion(c.Name)
	if err != nil {
		return err
	}
	c.created = r
	return nil
}

// Undo implements Command.
func (c *CreateRegion) Undo(a *atlas.Atlas) error {
	if err := requireAtlas(a); err != nil {
		return err
	}
	r, err := a.RemoveRegion(c.Name)
	if err != nil {
		return err
	}
	c.created = r
	return nil
}

// Description implements Command.
func (c *CreateRegion) Description() string { return "create region " + c.Name }

// RemoveRegion detaches a region with its maps and re-inserts it on undo.
type RemoveRegion struct {
	Name    string
	removed *atlas.Region
}

// NewRemoveRegion builds a RemoveRegion.
func NewRemoveRegion(name string) *RemoveRegion {
	return &RemoveRegion{Name: name}
}

// Execute implements Command.
func (c *RemoveRegion) Execute(a *atlas.Atlas) error {
	if _, err := resolveRegion(a, c.Name); err != nil {
		return err
	}
	r, err := a.RemoveRegion(c.Name)
	if err != nil {
		return err
	}
	c.removed = r
	return nil
}

// Undo implements Command.
func (c *RemoveRegion) Undo(a *atlas.Atlas) error {
	if c.removed == nil {
		return notExecuted(c.Description())
	}
	if err := requireAtlas(a); err != nil {
		return err
	}
	if err := a.AddRegion(c.removed); err != nil {
		return err
	}
	c.removed = nil
	return nil
}

// Description implements Command.
func (c *RemoveRegion) Description() string { return "remove region " + c.Name }

// SetRegionName renames a region.
type SetRegionName struct {
	Region string
	Name   string
}

// NewSetRegionName validates the new name up front.
func NewSetRegionName(region, name string) (*SetRegionName, error) {
	if err := atlas.ValidateName(name); err != nil {
		return nil, err
	}
	return &SetRegionName{Region: region, Name: name}, nil
}

// Execute implements Command.
func (c *SetRegionName) Execute(a *atlas.Atlas) error {
	r, err := resolveRegion(a, c.Region)
	if err != nil {
		return err
	}
	return r.SetName(c.Name)
}

// Undo implements Command.
func (c *SetRegionName) Undo(a *atlas.Atlas) error {
	r, err := resolveRegion(a, c.Name)
	if err != nil {
		return err
	}
	return r.SetName(c.Region)
}

// Description implements Command.
func (c *SetRegionName) Description() string {
	return "rename region " + c.Region + " to " + c.Name
}

// CreateMap inserts a fresh map into a region. Undo detaches it and redo
// re-inserts the same map.
type CreateMap struct {
	Region  string
	Name    string
	created *atlas.Map
}

// NewCreateMap validates the map name up front.
func NewCreateMap(region, name string) (*CreateMap, error) {
	if err := atlas.ValidateName(name); err != nil {
		return nil, err
	}
	return &CreateMap{Region: region, Name: name}, nil
}

// Execute implements Command.
func (c *CreateMap) Execute(a *atlas.Atlas) error {
	r, err := resolveRegion(a, c.Region)
	if err != nil {
		return err
	}
	if c.created != nil {
		return r.AddMap(c.created)
	}
	m, err := r.CreateMap(c.Name)
	if err != nil {
		return err
	}
	c.created = m
	return nil
}

// Undo implements Command.
func (c *CreateMap) Undo(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Name)
	if err != nil {
		return err
	}
	removed, err := m.Region().RemoveMap(c.Name)
	if err != nil {
		return err
	}
	c.created = removed
	return nil
}

// Description implements Command.
func (c *CreateMap) Description() string {
	return "create map " + c.Name + " in " + c.Region
}

// RemoveMap detaches a map and re-inserts it into its original region on undo.
type RemoveMap struct {
	Name    string
	region  string
	removed *atlas.Map
}

// NewRemoveMap builds a RemoveMap.
func NewRemoveMap(name string) *RemoveMap {
	return &RemoveMap{Name: name}
}

// Execute implements Command.
func (c *RemoveMap) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Name)
	if err != nil {
		return err
	}
	region := m.Region().Name()
	removed, err := m.Region().RemoveMap(c.Name)
	if err != nil {
		return err
	}
	c.region = region
	c.removed = removed
	return nil
}

// Undo implements Command.
func (c *RemoveMap) Undo(a *atlas.Atlas) error {
	if c.removed == nil {
		return notExecuted(c.Description())
	}
	r, err := resolveRegion(a, c.region)
	if err != nil {
		return err
	}
	if err := r.AddMap(c.removed); err != nil {
		return err
	}
	c.removed = nil
	return nil
}

// Description implements Command.
func (c *RemoveMap) Description() string { return "remove map " + c.Name }

// MoveMap transfers a map to another region.
type MoveMap struct {
	Map    string
	Region string
	from   string
}

// NewMoveMap builds a MoveMap.
func NewMoveMap(mapName, region string) *MoveMap {
	return &MoveMap{Map: mapName, Region: region}
}

// Execute implements Command.
func (c *MoveMap) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	to, err := resolveRegion(a, c.Region)
	if err != nil {
		return err
	}
	from := m.Region().Name()
	if err := transferMap(m, to); err != nil {
		return err
	}
	c.from = from
	return nil
}

// Undo implements Command.
func (c *MoveMap) Undo(a *atlas.Atlas) error {
	if c.from == "" {
		return notExecuted(c.Description())
	}
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	back, err := resolveRegion(a, c.from)
	if err != nil {
		return err
	}
	return transferMap(m, back)
}

// Description implements Command.
func (c *MoveMap) Description() string {
	return "move map " + c.Map + " to " + c.Region
}

func transferMap(m *atlas.Map, to *atlas.Region) error {
	from := m.Region()
	if from == to {
		return nil
	}
	detached, err := from.RemoveMap(m.Name())
	if err != nil {
		return err
	}
	if err := to.AddMap(detached); err != nil {
		if restoreErr := from.AddMap(detached); restoreErr != nil {
			return restoreErr
		}
		return err
	}
	return nil
}

// SetMapName renames a map.
type SetMapName struct {
	Map  string
	Name string
}

// NewSetMapName validates the new name up front.
func NewSetMapName(mapName, name string) (*SetMapName, error) {
	if err := atlas.ValidateName(name); err != nil {
		return nil, err
	}
	return &SetMapName{Map: mapName, Name: name}, nil
}

// Execute implements Command.
func (c *SetMapName) Execute(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Map)
	if err != nil {
		return err
	}
	return m.SetName(c.Name)
}

// Undo implements Command.
func (c *SetMapName) Undo(a *atlas.Atlas) error {
	m, err := resolveMap(a, c.Name)
	if err != nil {
		return err
	}
	return m.SetName(c.Map)
}

// Description implements Command.
func (c *SetMapName) Description() string {
	return "rename map " + c.Map + " to " + c.Name
}

// SetAtlasName renames the atlas.
type SetAtlasName struct {
	Name string
	old  string
}

// NewSetAtlasName validates the new name up front.
func NewSetAtlasName(name string) (*SetAtlasName, error) {
	if err := atlas.ValidateName(name); err != nil {
		return nil, err
	}
	return &SetAtlasName{Name: name}, nil
}

// Execute implements Command.
func (c *SetAtlasName) Execute(a *atlas.Atlas) error {
	if err := requireAtlas(a); err != nil {
		return err
	}
	old := a.Name()
	if err := a.SetName(c.Name); err != nil {
		return err
	}
	c.old = old
	return nil
}

// Undo implements Command.
func (c *SetAtlasName) Undo(a *atlas.Atlas) error {
	if c.old == "" {
		return notExecuted(c.Description())
	}
	if err := requireAtlas(a); err != nil {
		return err
	}
	return a.SetName(c.old)
}

// Description implements Command.
func (c *SetAtlasName) Description() string { return "rename atlas to " + c.Name }
