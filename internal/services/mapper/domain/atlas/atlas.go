// Package atlas is the aggregate of regions and maps. Lookups never return
// nil: an absent entity resolves to an invalid sentinel whose IsValid
// reports false.
package atlas

import (
	"sort"

	"github.com/dyle/rpgmapper-sub001/internal/platform/id"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/event"
)

// Atlas owns regions keyed by name.
type Atlas struct {
	valid    bool
	id       string
	name     string
	regions  map[string]*Region
	hub      *event.Hub
	modified bool
}

// New creates an empty atlas with a fresh identifier.
func New(name string) (*Atlas, error) {
	atlasID, err := id.NewID()
	if err != nil {
		return nil, err
	}
	return NewWithID(atlasID, name)
}

// NewWithID creates an empty atlas with a known identifier.
func NewWithID(atlasID, name string) (*Atlas, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if atlasID == "" {
		return nil, ErrInvalidAtlas.With("id is required", nil)
	}
	return &Atlas{
		valid:   true,
		id:      atlasID,
		name:    name,
		regions: map[string]*Region{},
		hub:     event.NewHub(),
	}, nil
}

// InvalidAtlas returns the sentinel used where no atlas is loaded.
func InvalidAtlas() *Atlas {
	return &Atlas{regions: map[string]*Region{}}
}

// IsValid reports whether a is a real atlas.
func (a *Atlas) IsValid() bool { return a != nil && a.valid }

// ID returns the storage identifier.
func (a *Atlas) ID() string { return a.id }

// Name returns the atlas name.
func (a *Atlas) Name() string { return a.name }

// SetName renames the atlas.
func (a *Atlas) SetName(name string) error {
	if !a.IsValid() {
		return ErrInvalidAtlas
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if name == a.name {
		return nil
	}
	old := a.name
	a.name = name
	a.publish(event.Event{Type: event.TypeAtlasRenamed, OldName: old, Name: name})
	return nil
}

// Events returns the hub observers subscribe to.
func (a *Atlas) Events() *event.Hub { return a.hub }

// Modified reports whether any change was published since ResetModified.
func (a *Atlas) Modified() bool { return a.modified }

// ResetModified clears the modified flag.
func (a *Atlas) ResetModified() { a.modified = false }

// Regions returns regions sorted by name.
func (a *Atlas) Regions() []*Region {
	out := make([]*Region, 0, len(a.regions))
	for _, r := range a.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// FindRegion resolves a region by name.
func (a *Atlas) FindRegion(name string) *Region {
	if r, ok := a.regions[name]; ok {
		return r
	}
	return InvalidRegion()
}

// Maps returns every map of the atlas sorted by name.
func (a *Atlas) Maps() []*Map {
	var out []*Map
	for _, r := range a.regions {
		for _, m := range r.maps {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// FindMap resolves a map by name across all regions.
func (a *Atlas) FindMap(name string) *Map {
	for _, r := range a.regions {
		if m, ok := r.maps[name]; ok {
			return m
		}
	}
	return InvalidMap()
}

// CreateRegion inserts an empty region.
func (a *Atlas) CreateRegion(name string) (*Region, error) {
	r, err := NewRegion(name)
	if err != nil {
		return nil, err
	}
	if err := a.AddRegion(r); err != nil {
		return nil, err
	}
	return r, nil
}

// AddRegion adopts a detached region together with its maps.
func (a *Atlas) AddRegion(r *Region) error {
	if !a.IsValid() {
		return ErrInvalidAtlas
	}
	if !r.IsValid() {
		return invalidRegion(r.Name())
	}
	if r.atlas != nil {
		return invalidRegion(r.name).With("region is already attached", nil)
	}
	if _, exists := a.regions[r.name]; exists {
		return duplicateRegion(r.name)
	}
	for name := range r.maps {
		if a.FindMap(name).IsValid() {
			return duplicateMap(name)
		}
	}
	a.regions[r.name] = r
	r.atlas = a
	a.publish(event.Event{Type: event.TypeRegionAdded, Region: r.name, Name: r.name})
	return nil
}

// RemoveRegion detaches a region. Its maps stay inside it.
func (a *Atlas) RemoveRegion(name string) (*Region, error) {
	if !a.IsValid() {
		return nil, ErrInvalidAtlas
	}
	r, ok := a.regions[name]
	if !ok {
		return nil, invalidRegion(name)
	}
	delete(a.regions, name)
	r.atlas = nil
	a.publish(event.Event{Type: event.TypeRegionRemoved, Region: name, Name: name})
	return r, nil
}

// CreateMap inserts a fresh map into the named region.
func (a *Atlas) CreateMap(regionName, mapName string) (*Map, error) {
	r := a.FindRegion(regionName)
	if !r.IsValid() {
		return nil, invalidRegion(regionName)
	}
	return r.CreateMap(mapName)
}

func (a *Atlas) publish(e event.Event) {
	if a == nil || !a.valid {
		return
	}
	a.modified = true
	a.hub.Publish(e)
}
