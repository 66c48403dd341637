package engine

import (
	"context"
	"slices"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/command"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/engine"

// Option configures a Processor.
type Option func(*Processor)

// WithHistoryLimit keeps at most limit history entries, dropping the oldest.
// Zero or less keeps everything.
func WithHistoryLimit(limit int) Option {
	return func(p *Processor) { p.limit = limit }
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Processor) {
		if tp != nil {
			p.tracer = tp.Tracer(tracerName)
		}
	}
}

// Processor executes commands and maintains history, redo list and a signed
// modification counter.
type Processor struct {
	atlas         *atlas.Atlas
	history       []command.Command
	undone        []command.Command
	modifications int
	limit         int
	tracer        trace.Tracer
}

// NewProcessor binds a processor to a.
func NewProcessor(a *atlas.Atlas, opts ...Option) *Processor {
	if a == nil {
		a = atlas.InvalidAtlas()
	}
	p := &Processor{atlas: a, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Atlas returns the atlas commands run against.
func (p *Processor) Atlas() *atlas.Atlas { return p.atlas }

// Execute runs cmd, appends it to the history and clears the redo list.
func (p *Processor) Execute(ctx context.Context, cmd command.Command) error {
	if cmd == nil {
		return command.ErrInvalidCommand.With("nil command", nil)
	}
	_, span := p.start(ctx, "processor.execute", cmd)
	defer span.End()

	if err := cmd.Execute(p.atlas); err != nil {
		return p.fail(span, err)
	}
	p.undone = nil
	p.push(cmd)
	p.modifications++
	p.finish(span)
	return nil
}

// Undo reverts the most recent command. An empty history is a no-op.
func (p *Processor) Undo(ctx context.Context) error {
	if len(p.history) == 0 {
		return nil
	}
	cmd := p.history[len(p.history)-1]
	_, span := p.start(ctx, "processor.undo", cmd)
	defer span.End()

	if err := cmd.Undo(p.atlas); err != nil {
		return p.fail(span, err)
	}
	p.history = p.history[:len(p.history)-1]
	p.undone = append(p.undone, cmd)
	p.modifications--
	p.finish(span)
	return nil
}

// Redo re-executes the most recently undone command. An empty redo list is a
// no-op.
func (p *Processor) Redo(ctx context.Context) error {
	if len(p.undone) == 0 {
		return nil
	}
	cmd := p.undone[len(p.undone)-1]
	_, span := p.start(ctx, "processor.redo", cmd)
	defer span.End()

	if err := cmd.Execute(p.atlas); err != nil {
		return p.fail(span, err)
	}
	p.undone = p.undone[:len(p.undone)-1]
	p.push(cmd)
	p.modifications++
	p.finish(span)
	return nil
}

// CanUndo reports whether the history is non-empty.
func (p *Processor) CanUndo() bool { return len(p.history) > 0 }

// CanRedo reports whether the redo list is non-empty.
func (p *Processor) CanRedo() bool { return len(p.undone) > 0 }

// Modifications returns executes and redos minus undos since the last reset.
func (p *Processor) Modifications() int { return p.modifications }

// ResetModifications marks the current state as saved.
func (p *Processor) ResetModifications() { p.modifications = 0 }

// History returns applied commands, oldest first.
func (p *Processor) History() []command.Command { return slices.Clone(p.history) }

// Undone returns the redo list, oldest first. Redo takes the last entry.
func (p *Processor) Undone() []command.Command { return slices.Clone(p.undone) }

// Clear drops both lists and resets the counter.
func (p *Processor) Clear() {
	p.history = nil
	p.undone = nil
	p.modifications = 0
}

func (p *Processor) push(cmd command.Command) {
	p.history = append(p.history, cmd)
	if p.limit > 0 && len(p.history) > p.limit {
		p.history = slices.Delete(p.history, 0, len(p.history)-p.limit)
	}
}

func (p *Processor) start(ctx context.Context, name string, cmd command.Command) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return p.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("command.description", cmd.Description()),
		attribute.String("atlas.id", p.atlas.ID()),
	))
}

func (p *Processor) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (p *Processor) finish(span trace.Span) {
	span.SetAttributes(attribute.Int("processor.modifications", p.modifications))
}
