// Package mapscript wires the map script runner to the command line.
package mapscript

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	platformcmd "github.com/dyle/rpgmapper-sub001/internal/platform/cmd"
	"github.com/dyle/rpgmapper-sub001/internal/platform/i18n/catalog"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/codec"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/session"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/storage/sqlite"
	"github.com/dyle/rpgmapper-sub001/internal/tools/mapscript"
)

// Config holds mapscript command configuration.
type Config struct {
	Script       string        `env:"RPGMAPPER_SCRIPT_FILE"`
	DBPath       string        `env:"RPGMAPPER_DB_PATH"        envDefault:"data/atlas.db"`
	ExportPath   string        `env:"RPGMAPPER_EXPORT_PATH"`
	ExportFormat string        `env:"RPGMAPPER_EXPORT_FORMAT"`
	Locale       string        `env:"RPGMAPPER_LOCALE"         envDefault:"en-US"`
	HistoryLimit int           `env:"RPGMAPPER_HISTORY_LIMIT"`
	Verbose      bool          `env:"RPGMAPPER_VERBOSE"`
	Watch        bool          `env:"RPGMAPPER_WATCH"`
	Timeout      time.Duration `env:"RPGMAPPER_TIMEOUT"        envDefault:"30s"`
}

// ParseConfig parses env defaults and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}

	fs.StringVar(&cfg.Script, "script", cfg.Script, "path to map script lua file")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite atlas store path (empty disables open and save)")
	fs.StringVar(&cfg.ExportPath, "export", cfg.ExportPath, "write the resulting atlas to this file")
	fs.StringVar(&cfg.ExportFormat, "format", cfg.ExportFormat, "export format: json, yaml or msgpack (default from file extension)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for messages")
	fs.IntVar(&cfg.HistoryLimit, "history", cfg.HistoryLimit, "undo history limit (0 keeps everything)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "rerun the script whenever it changes")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Script == "" && fs.NArg() > 0 {
		cfg.Script = fs.Arg(0)
	}
	return cfg, nil
}

// Run executes the mapscript command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Script == "" {
		return errors.New("script path is required")
	}
	format, err := exportFormat(cfg)
	if err != nil {
		return err
	}

	logger := log.New(errOut, "", 0)
	runnerCfg := mapscript.Config{
		Timeout:      cfg.Timeout,
		Locale:       cfg.Locale,
		HistoryLimit: cfg.HistoryLimit,
		Verbose:      cfg.Verbose,
		Logger:       logger,
	}
	if cfg.DBPath != "" {
		store, err := openStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Printf("close store: %v", err)
			}
		}()
		runnerCfg.Store = store
	}

	locale := catalog.Default().Match(cfg.Locale)
	printer := catalog.Default().Printer(locale)
	runOnce := func(ctx context.Context) error {
		s, err := mapscript.RunFile(ctx, runnerCfg, cfg.Script)
		if s != nil {
			defer s.Close()
		}
		if err != nil {
			var stepErr *mapscript.StepError
			if errors.As(err, &stepErr) {
				fmt.Fprintln(errOut, stepErr.Localized(locale))
			}
			return err
		}
		a := s.Atlas()
		fmt.Fprintln(out, printer.Sprintf("mapscript.summary", a.Name(), len(a.Regions()), len(a.Maps()), s.Processor().Modifications()))
		if cfg.ExportPath == "" {
			return nil
		}
		if err := export(s, cfg.ExportPath, format); err != nil {
			return err
		}
		fmt.Fprintln(out, printer.Sprintf("mapscript.exported", cfg.ExportPath))
		return nil
	}

	if cfg.Watch {
		return mapscript.Watch(ctx, cfg.Script, logger, runOnce)
	}
	return runOnce(ctx)
}

func exportFormat(cfg Config) (codec.Format, error) {
	if cfg.ExportFormat == "" {
		if format, ok := codec.FormatForPath(cfg.ExportPath); ok {
			return format, nil
		}
		return codec.FormatYAML, nil
	}
	return codec.ParseFormat(cfg.ExportFormat)
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open atlas store: %w", err)
	}
	return store, nil
}

func export(s *session.Session, path string, format codec.Format) error {
	data, err := s.Export(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
