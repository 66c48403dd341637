// Package session binds an atlas to its processor, tracks the map being
// edited and moves the atlas in and out of storage.
package session

import (
	"context"
	"fmt"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/codec"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/command"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/engine"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/event"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/storage"
)

// StorageFormat is the encoding used for stored atlas documents.
const StorageFormat = codec.FormatMsgPack

// Session is one editing context. It is not safe for concurrent use.
type Session struct {
	atlas       *atlas.Atlas
	processor   *engine.Processor
	current     string
	unsubscribe func()
}

// New starts a session on a fresh, empty atlas.
func New(name string, opts ...engine.Option) (*Session, error) {
	a, err := atlas.New(name)
	if err != nil {
		return nil, err
	}
	return FromAtlas(a, opts...), nil
}

// FromAtlas starts a session on an existing atlas with an empty history.
func FromAtlas(a *atlas.Atlas, opts ...engine.Option) *Session {
	s := &Session{processor: engine.NewProcessor(a, opts...)}
	s.atlas = s.processor.Atlas()
	s.unsubscribe = s.atlas.Events().Subscribe(s.follow)
	return s
}

// Open loads a stored atlas. The history starts empty and the session is
// unmodified.
func Open(ctx context.Context, store storage.AtlasStore, atlasID string, opts ...engine.Option) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("atlas store is required")
	}
	record, err := store.GetAtlas(ctx, atlasID)
	if err != nil {
		return nil, err
	}
	a, err := codec.Decode(record.Document, StorageFormat)
	if err != nil {
		return nil, fmt.Errorf("load atlas %s: %w", atlasID, err)
	}
	return FromAtlas(a, opts...), nil
}

// Close detaches the session from the atlas events.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Atlas returns the edited atlas.
func (s *Session) Atlas() *atlas.Atlas { return s.atlas }

// Processor returns the command processor.
func (s *Session) Processor() *engine.Processor { return s.processor }

// Execute runs cmd through the processor.
func (s *Session) Execute(ctx context.Context, cmd command.Command) error {
	return s.processor.Execute(ctx, cmd)
}

// Undo reverts the latest command.
func (s *Session) Undo(ctx context.Context) error { return s.processor.Undo(ctx) }

// Redo re-applies the latest undone command.
func (s *Session) Redo(ctx context.Context) error { return s.processor.Redo(ctx) }

// Modified reports whether the atlas differs from the last save or load.
func (s *Session) Modified() bool { return s.processor.Modifications() != 0 }

// CurrentMap returns the selected map, or the invalid map when nothing is
// selected or the selection no longer exists.
func (s *Session) CurrentMap() *atlas.Map {
	if s.current == "" {
		return atlas.InvalidMap()
	}
	return s.atlas.FindMap(s.current)
}

// SelectMap makes name the current map. An empty name clears the selection.
func (s *Session) SelectMap(name string) error {
	if name != "" && !s.atlas.FindMap(name).IsValid() {
		return atlas.ErrInvalidMap.With(name, map[string]string{"Name": name})
	}
	if name == s.current {
		return nil
	}
	old := s.current
	s.current = name
	s.atlas.Events().Publish(event.Event{Type: event.TypeSelectionChanged, Map: name, OldName: old, Name: name})
	return nil
}

// follow keeps the selection on a map across renames.
func (s *Session) follow(e event.Event) {
	if e.Type == event.TypeMapRenamed && e.OldName != "" && e.OldName == s.current {
		s.current = e.Name
	}
}

// Save encodes the atlas and stores it. A successful save resets the
// modification counter.
func (s *Session) Save(ctx context.Context, store storage.AtlasStore) error {
	if store == nil {
		return fmt.Errorf("atlas store is required")
	}
	data, err := codec.Encode(s.atlas, StorageFormat)
	if err != nil {
		return err
	}
	if err := store.PutAtlas(ctx, storage.AtlasRecord{
		ID:       s.atlas.ID(),
		Name:     s.atlas.Name(),
		Document: data,
	}); err != nil {
		return fmt.Errorf("save atlas %s: %w", s.atlas.ID(), err)
	}
	s.processor.ResetModifications()
	s.atlas.ResetModified()
	return nil
}

// Export encodes the atlas in format.
func (s *Session) Export(format codec.Format) ([]byte, error) {
	return codec.Encode(s.atlas, format)
}
