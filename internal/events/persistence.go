// internal/events/persistence.go
package events

import (
	"encoding/json"
	"fmt"

	"github.com/Halcyonic/VoidTrader/internal/models"
)

// EngineSnapshot is the persisted shape of cooldown and history state, one
// per game session. The storage mechanism behind it is the caller's concern;
// only this JSON contract belongs to the core.
type EngineSnapshot struct {
	EventHistory        []models.HistoryRecord         `json:"event_history"`
	GlobalEventCooldown float64                        `json:"global_event_cooldown"`
	LastGlobalEvent     float64                        `json:"last_global_event"`
	Events              map[string]PersistedEventState `json:"events"`
}

// PersistedEventState is the per-definition slice of mutable state.
type PersistedEventState struct {
	LastTriggered float64 `json:"last_triggered"`
}

// Snapshot captures the engine's mutable state for persistence.
func (e *Engine) Snapshot() EngineSnapshot {
	snap := EngineSnapshot{
		EventHistory:        e.history.All(),
		GlobalEventCooldown: e.globalCooldown,
		LastGlobalEvent:     e.lastGlobalEvent,
		Events:              make(map[string]PersistedEventState, e.catalog.Len()),
	}
	for _, def := range e.catalog.All() {
		snap.Events[def.ID] = PersistedEventState{LastTriggered: def.LastTriggered}
	}
	return snap
}

// MarshalState serializes the engine's mutable state as the session JSON.
func (e *Engine) MarshalState() ([]byte, error) {
	data, err := json.MarshalIndent(e.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize event state: %w", err)
	}
	return data, nil
}

// RestoreState loads a persisted session back into the engine. Loading is
// best-effort: absent keys fall back to defaults (empty history, 60 second
// global cooldown, no prior global event), persisted ids with no catalog
// entry are ignored, and catalog entries absent from the data keep their
// current timestamps. Malformed JSON returns an error and leaves the
// in-memory state untouched.
func (e *Engine) RestoreState(data []byte) error {
	snap := EngineSnapshot{
		GlobalEventCooldown: DefaultGlobalCooldown,
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse event state: %w", err)
	}

	e.history = NewHistoryLog()
	for _, rec := range snap.EventHistory {
		e.history.Record(rec)
	}
	e.globalCooldown = snap.GlobalEventCooldown
	e.lastGlobalEvent = snap.LastGlobalEvent

	for id, st := range snap.Events {
		if def, ok := e.catalog.Get(id); ok {
			def.LastTriggered = st.LastTriggered
		}
	}

	return nil
}
