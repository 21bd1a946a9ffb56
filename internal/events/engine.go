// internal/events/engine.go
package events

import (
	"math/rand"
	"time"

	"github.com/Halcyonic/VoidTrader/internal/models"
)

// DefaultGlobalCooldown is the minimum spacing in seconds between any two
// fired events, regardless of which definitions are eligible.
const DefaultGlobalCooldown = 60.0

// checkChanceCap limits the total probability mass spent per check, so some
// event fires on at most 30% of checks no matter how many candidates exist.
// Event density stays rare and context-flavored rather than guaranteed.
const checkChanceCap = 0.3

// Engine owns the event catalog, the history log, the cooldown bookkeeping
// and a seedable RNG. It is synchronous and single-writer: one engine per
// game session, serialized by the caller.
type Engine struct {
	catalog *Catalog
	history *HistoryLog
	rng     *rand.Rand
	clock   func() time.Time

	globalCooldown  float64 // seconds
	lastGlobalEvent float64 // unix seconds, 0 when nothing fired yet
}

// NewEngine creates an engine around the given catalog. A nil catalog gets
// the stock event set; a nil rng gets a time-seeded source. The RNG is an
// injected dependency so replays with a fixed seed are reproducible.
func NewEngine(catalog *Catalog, rng *rand.Rand) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		catalog:        catalog,
		history:        NewHistoryLog(),
		rng:            rng,
		clock:          time.Now,
		globalCooldown: DefaultGlobalCooldown,
	}
}

// Seed re-seeds the engine's RNG for reproducible event sequences.
func (e *Engine) Seed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// SetClock replaces the time source. Intended for tests and replay harnesses.
func (e *Engine) SetClock(clock func() time.Time) {
	if clock != nil {
		e.clock = clock
	}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// History returns the engine's history log.
func (e *Engine) History() *HistoryLog {
	return e.history
}

// GlobalCooldown returns the global cooldown in seconds.
func (e *Engine) GlobalCooldown() float64 {
	return e.globalCooldown
}

// SetGlobalCooldown overrides the global cooldown in seconds.
func (e *Engine) SetGlobalCooldown(seconds float64) {
	e.globalCooldown = seconds
}

func (e *Engine) now() float64 {
	return float64(e.clock().UnixNano()) / float64(time.Second)
}

// Check runs one trigger check for the given context at the current time.
func (e *Engine) Check(ctx models.EventContext, state *models.GameState) *models.EventDefinition {
	return e.CheckAt(ctx, state, e.now())
}

// CheckAt runs one trigger check at an explicit time (unix seconds).
//
// The draw is a capped categorical sample: candidate weights are normalized,
// scaled by checkChanceCap, and walked in registration order until the roll
// falls inside the cumulative band. A roll beyond the cap means no event
// fires even though candidates existed.
func (e *Engine) CheckAt(ctx models.EventContext, state *models.GameState, now float64) *models.EventDefinition {
	if now-e.lastGlobalEvent < e.globalCooldown {
		return nil
	}

	var candidates []*models.EventDefinition
	for _, def := range e.catalog.All() {
		if def.Context == ctx && CanTrigger(def, state, now) {
			candidates = append(candidates, def)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	weights := make([]float64, len(candidates))
	totalWeight := 0.0
	for i, def := range candidates {
		weights[i] = WeightedProbability(def, state, now)
		totalWeight += weights[i]
	}
	if totalWeight <= 0 {
		return nil
	}

	roll := e.rng.Float64()
	cumulative := 0.0
	for i, def := range candidates {
		cumulative += weights[i] / totalWeight * checkChanceCap
		if roll <= cumulative {
			def.LastTriggered = now
			e.lastGlobalEvent = now
			return def
		}
	}

	return nil
}

// Statistics summarises the history log together with the engine's cooldown
// state.
type Statistics struct {
	TotalEvents        int            `json:"total_events"`
	EventCounts        map[string]int `json:"event_types"`
	MostCommonID       string         `json:"most_common_id,omitempty"`
	MostCommonCount    int            `json:"most_common_count,omitempty"`
	GlobalCooldown     float64        `json:"global_cooldown"`
	TimeSinceLastEvent float64        `json:"time_since_last_event"`
}

// Statistics returns aggregate numbers about fired events.
func (e *Engine) Statistics() Statistics {
	mostID, mostCount := e.history.mostCommon()
	return Statistics{
		TotalEvents:        e.history.Len(),
		EventCounts:        e.history.Counts(),
		MostCommonID:       mostID,
		MostCommonCount:    mostCount,
		GlobalCooldown:     e.globalCooldown,
		TimeSinceLastEvent: e.now() - e.lastGlobalEvent,
	}
}

// DebugInfo reports the engine's registration and history state.
func (e *Engine) DebugInfo() map[string]any {
	return map[string]any{
		"system":                  "RandomEventEngine",
		"total_events_registered": e.catalog.Len(),
		"statistics":              e.Statistics(),
		"recent_history":          e.history.Recent(5),
	}
}
