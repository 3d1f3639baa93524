// Package observability delivers structured events from the multikey map to
// pluggable observers. Level values follow the OpenTelemetry SeverityNumber
// ranges so events can be forwarded to OTel collectors without translation.
package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8), maps to slog.LevelDebug
	LevelInfo    Level = 9  // OTel INFO (9-12), maps to slog.LevelInfo
	LevelWarning Level = 13 // OTel WARN (13-16), maps to slog.LevelWarn
	LevelError   Level = 17 // OTel ERROR (17-20), maps to slog.LevelError
)

// severity describes one OTel SeverityNumber band. max is the highest number
// in the band and text is its SeverityText.
type severity struct {
	max  Level
	text string
	slog slog.Level
}

var severities = [...]severity{
	{max: 4, text: "TRACE", slog: slog.LevelDebug},
	{max: 8, text: "DEBUG", slog: slog.LevelDebug},
	{max: 12, text: "INFO", slog: slog.LevelInfo},
	{max: 16, text: "WARN", slog: slog.LevelWarn},
	{max: 20, text: "ERROR", slog: slog.LevelError},
	{max: 24, text: "FATAL", slog: slog.LevelError},
}

// ErrUnknownLevel is returned by ParseLevel for unrecognised severity text.
var ErrUnknownLevel = errors.New("unknown level")

func (l Level) severity() severity {
	for _, s := range severities {
		if l <= s.max {
			return s
		}
	}
	return severities[len(severities)-1]
}

// String returns the OTel SeverityText of the band containing l.
func (l Level) String() string {
	return l.severity().text
}

// SlogLevel returns the slog level that events at l are logged with.
func (l Level) SlogLevel() slog.Level {
	return l.severity().slog
}

// ParseLevel accepts OTel SeverityText, case-insensitively, and returns the
// lowest Level in that band. "verbose" and "warning" are accepted as aliases.
func ParseLevel(text string) (Level, error) {
	switch name := strings.ToUpper(strings.TrimSpace(text)); name {
	case "VERBOSE":
		return LevelVerbose, nil
	case "WARNING":
		return LevelWarning, nil
	default:
		floor := Level(1)
		for _, s := range severities {
			if s.text == name {
				return floor, nil
			}
			floor = s.max + 1
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, text)
}

// EventType names an event, dot-separated by subsystem
// (e.g. "multikey.slot.append").
type EventType string

// Event is a single observation. Data carries event-specific attributes such
// as slot indices, key counts, or digests.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events. Implementations used with a shared map must be
// safe for concurrent use.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
