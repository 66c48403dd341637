package mapscript

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	"github.com/dyle/rpgmapper-sub001/internal/platform/errors/i18n"
	"github.com/dyle/rpgmapper-sub001/internal/platform/i18n/catalog"
	"github.com/dyle/rpgmapper-sub001/internal/platform/timeouts"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/engine"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/session"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/storage"
	"golang.org/x/text/message"
)

// Config controls script execution.
type Config struct {
	Timeout      time.Duration
	Locale       string
	HistoryLimit int
	Verbose      bool
	Logger       *log.Logger
	// Store backs the open and save steps. Scripts without them run without one.
	Store storage.AtlasStore
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: timeouts.ScriptStep,
		Locale:  catalog.BaseLocale,
	}
}

// Runner executes map scripts step by step.
type Runner struct {
	store   storage.AtlasStore
	logger  *log.Logger
	verbose bool
	timeout time.Duration
	locale  string
	printer *message.Printer
	options []engine.Option
}

// NewRunner applies config defaults and prepares a runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScriptStep
	}
	locale := catalog.Default().Match(cfg.Locale)
	var options []engine.Option
	if cfg.HistoryLimit > 0 {
		options = append(options, engine.WithHistoryLimit(cfg.HistoryLimit))
	}
	return &Runner{
		store:   cfg.Store,
		logger:  logger,
		verbose: cfg.Verbose,
		timeout: timeout,
		locale:  locale,
		printer: catalog.Default().Printer(locale),
		options: options,
	}
}

// StepError reports the step a script stopped at.
type StepError struct {
	Index int
	Kind  string
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Kind, e.Err)
}

// Unwrap returns the step failure.
func (e *StepError) Unwrap() error { return e.Err }

// Localized renders the failure for users of locale.
func (e *StepError) Localized(locale string) string {
	return catalog.Default().Printer(locale).Sprintf("mapscript.step_failed", e.Index, e.Kind, Describe(e.Err, locale))
}

// Describe renders err for users. Domain errors come from the locale
// catalog; anything else keeps its own text.
func Describe(err error, locale string) string {
	if err == nil {
		return ""
	}
	if apperrors.CodeOf(err) == apperrors.CodeUnknown {
		return err.Error()
	}
	return i18n.Localize(err, locale)
}

// RunFile loads and executes a script file.
func RunFile(ctx context.Context, cfg Config, path string) (*session.Session, error) {
	script, err := LoadScriptFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewRunner(cfg).RunScript(ctx, script)
}

type runState struct {
	session *session.Session
}

// RunScript executes script against a new atlas named after the script and
// returns the session it leaves behind. On failure the session is returned
// as far as it got.
func (r *Runner) RunScript(ctx context.Context, script *Script) (*session.Session, error) {
	if script == nil {
		return nil, errors.New("script is required")
	}
	s, err := session.New(script.Name, r.options...)
	if err != nil {
		return nil, fmt.Errorf("start atlas %q: %w", script.Name, err)
	}
	state := &runState{session: s}

	r.logf("script start: %s (%d steps)", script.Name, len(script.Steps))
	for index, step := range script.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(script.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err := r.checkExpectation(stepNumber, step, err); err != nil {
			return state.session, err
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(script.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("script done: %s", script.Name)
	return state.session, nil
}

func (r *Runner) checkExpectation(stepNumber int, step Step, err error) error {
	if step.ExpectError == "" {
		if err != nil {
			return &StepError{Index: stepNumber, Kind: step.Kind, Err: err}
		}
		return nil
	}
	if err == nil {
		return &StepError{Index: stepNumber, Kind: step.Kind, Err: fmt.Errorf("expected error %s", step.ExpectError)}
	}
	if got := apperrors.CodeOf(err); string(got) != step.ExpectError {
		return &StepError{Index: stepNumber, Kind: step.Kind, Err: fmt.Errorf("expected error %s, got %s: %w", step.ExpectError, got, err)}
	}
	r.logf("%s", r.printer.Sprintf("mapscript.expected_error", stepNumber, step.Kind, Describe(err, r.locale)))
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
