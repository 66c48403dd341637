package atlas

import (
	"sort"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/event"
)

// Region owns maps keyed by name.
type Region struct {
	valid bool
	name  string
	atlas *Atlas
	maps  map[string]*Map
}

// NewRegion returns a detached empty region.
func NewRegion(name string) (*Region, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Region{valid: true, name: name, maps: map[string]*Map{}}, nil
}

// InvalidRegion returns the sentinel for an unresolved region.
func InvalidRegion() *Region {
	return &Region{maps: map[string]*Map{}}
}

// IsValid reports whether r is a real region.
func (r *Region) IsValid() bool { return r != nil && r.valid }

// Name returns the region name.
func (r *Region) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

// Atlas returns the owning atlas, or the invalid atlas when detached.
func (r *Region) Atlas() *Atlas {
	if r.atlas == nil {
		return InvalidAtlas()
	}
	return r.atlas
}

// SetName renames the region, keeping names unique within the atlas.
func (r *Region) SetName(name string) error {
	if !r.IsValid() {
		return invalidRegion(r.name)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if name == r.name {
		return nil
	}
	if r.atlas != nil {
		if _, exists := r.atlas.regions[name]; exists {
			return duplicateRegion(name)
		}
		delete(r.atlas.regions, r.name)
		r.atlas.regions[name] = r
	}
	old := r.name
	r.name = name
	r.publish(event.Event{Type: event.TypeRegionRenamed, OldName: old, Name: name})
	return nil
}

// Maps returns the region's maps sorted by name.
func (r *Region) Maps() []*Map {
	out := make([]*Map, 0, len(r.maps))
	for _, m := range r.maps {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// FindMap resolves a map of this region by name.
func (r *Region) FindMap(name string) *Map {
	if m, ok := r.maps[name]; ok {
		return m
	}
	return InvalidMap()
}

// CreateMap inserts a fresh map.
func (r *Region) CreateMap(name string) (*Map, error) {
	m, err := NewMap(name)
	if err != nil {
		return nil, err
	}
	if err := r.AddMap(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddMap adopts a detached map. Map names are unique across the atlas.
func (r *Region) AddMap(m *Map) error {
	if !r.IsValid() {
		return invalidRegion(r.name)
	}
	if !m.IsValid() {
		return invalidMap(m.Name())
	}
	if m.region != nil {
		return invalidMap(m.name).With("map is already attached", nil)
	}
	if r.nameTaken(m.name) {
		return duplicateMap(m.name)
	}
	r.maps[m.name] = m
	m.region = r
	r.publish(event.Event{Type: event.TypeMapAdded, Map: m.name, Name: m.name})
	return nil
}

// RemoveMap detaches a map and returns it.
func (r *Region) RemoveMap(name string) (*Map, error) {
	if !r.IsValid() {
		return nil, invalidRegion(r.name)
	}
	m, ok := r.maps[name]
	if !ok {
		return nil, invalidMap(name)
	}
	delete(r.maps, name)
	m.region = nil
	r.publish(event.Event{Type: event.TypeMapRemoved, Map: name, Name: name})
	return m, nil
}

func (r *Region) nameTaken(mapName string) bool {
	if r.atlas != nil {
		return r.atlas.FindMap(mapName).IsValid()
	}
	_, ok := r.maps[mapName]
	return ok
}

func (r *Region) publish(e event.Event) {
	if r.atlas == nil {
		return
	}
	if e.Region == "" {
		e.Region = r.name
	}
	r.atlas.publish(e)
}
