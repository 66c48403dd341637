// Package timeouts defines shared timeout constants used by rpgmapper tools.
package timeouts

import "time"

// ScriptStep caps a single map script step when no timeout is configured.
const ScriptStep = 10 * time.Second

// TelemetryShutdown limits how long trace export may take when a tool exits.
const TelemetryShutdown = 5 * time.Second

// WatchDebounce folds bursts of file events into one script run.
const WatchDebounce = 100 * time.Millisecond
