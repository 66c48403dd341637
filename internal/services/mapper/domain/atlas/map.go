package atlas

import (
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/coords"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/event"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/layer"
)

// Map is a named grid drawing with a coordinate system and a layer stack.
// It belongs to at most one region at a time.
type Map struct {
	valid  bool
	name   string
	region *Region
	system *coords.System
	layers *layer.Stack
}

// NewMap returns a detached map with default geometry and layers.
func NewMap(name string) (*Map, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	m := &Map{valid: true, name: name, system: coords.New()}
	m.layers = layer.NewStack(m)
	return m, nil
}

// InvalidMap returns the sentinel for an unresolved map.
func InvalidMap() *Map {
	m := &Map{system: coords.New()}
	m.layers = layer.NewStack(nil)
	return m
}

// IsValid reports whether m is a real map.
func (m *Map) IsValid() bool { return m != nil && m.valid }

// Name returns the map name.
func (m *Map) Name() string {
	if m == nil {
		return ""
	}
	return m.name
}

// Region returns the owning region, or the invalid region when detached.
func (m *Map) Region() *Region {
	if m.region == nil {
		return InvalidRegion()
	}
	return m.region
}

// Coordinates returns the map's coordinate system for reading. Mutations go
// through the Map setters so observers are notified.
func (m *Map) Coordinates() *coords.System { return m.system }

// Layers returns the layer stack.
func (m *Map) Layers() *layer.Stack { return m.layers }

// SetName renames the map, keeping names unique across the atlas.
func (m *Map) SetName(name string) error {
	if !m.IsValid() {
		return invalidMap(m.name)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if name == m.name {
		return nil
	}
	if r := m.region; r != nil {
		if r.nameTaken(name) {
			return duplicateMap(name)
		}
		delete(r.maps, m.name)
		r.maps[name] = m
	}
	old := m.name
	m.name = name
	m.Publish(event.Event{Type: event.TypeMapRenamed, OldName: old, Name: name})
	return nil
}

// Resize changes the grid extent.
func (m *Map) Resize(size coords.Size) error {
	if !m.IsValid() {
		return invalidMap(m.name)
	}
	if err := m.system.Resize(size); err != nil {
		return err
	}
	m.Publish(event.Event{Type: event.TypeMapResized, Property: size.String()})
	return nil
}

// SetOrigin changes the numbering origin.
func (m *Map) SetOrigin(origin coords.Origin) error {
	return m.geometry("origin", func() error { return m.system.SetOrigin(origin) })
}

// SetNumeralX selects the horizontal axis converter.
func (m *Map) SetNumeralX(name string) error {
	return m.geometry("numeralX", func() error { return m.system.SetNumeralX(name) })
}

// SetNumeralY selects the vertical axis converter.
func (m *Map) SetNumeralY(name string) error {
	return m.geometry("numeralY", func() error { return m.system.SetNumeralY(name) })
}

// SetOffset changes the screen translation.
func (m *Map) SetOffset(offset coords.Point) error {
	return m.geometry("offset", func() error {
		m.system.SetOffset(offset)
		return nil
	})
}

// SetMargin changes the border width.
func (m *Map) SetMargin(margin float64) error {
	return m.geometry("margin", func() error { return m.system.SetMargin(margin) })
}

func (m *Map) geometry(property string, apply func() error) error {
	if !m.IsValid() {
		return invalidMap(m.name)
	}
	if err := apply(); err != nil {
		return err
	}
	m.Publish(event.Event{Type: event.TypeMapGeometry, Property: property})
	return nil
}

// Publish forwards e to the owning region, tagged with this map's name.
// Events from detached maps are dropped.
func (m *Map) Publish(e event.Event) {
	if m.region == nil {
		return
	}
	if e.Map == "" {
		e.Map = m.name
	}
	m.region.publish(e)
}
