package multikey

import (
	"time"

	"github.com/tailored-agentic-units/multikey/observability"
)

// Map event types.
const (
	EventSlotAppend    observability.EventType = "multikey.slot.append"
	EventSlotOverwrite observability.EventType = "multikey.slot.overwrite"
	EventHashRegister  observability.EventType = "multikey.hash.register"
	EventHashRelease   observability.EventType = "multikey.hash.release"
	EventError         observability.EventType = "multikey.error"
)

func (m *Map[K, V]) reject(source string, err error) error {
	m.emit(observability.Event{
		Type:      EventError,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    source,
		Data:      map[string]any{"error": err.Error()},
	})
	return err
}

func (m *Map[K, V]) verbose(t observability.EventType, source string, data map[string]any) {
	m.emit(observability.Event{
		Type:      t,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
