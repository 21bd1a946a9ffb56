// internal/models/event.go
package models

// EventType classifies a random event for outcome resolution
type EventType string

const (
	EventMalfunction      EventType = "malfunction"
	EventPirateAttack     EventType = "pirate_attack"
	EventMarketCrash      EventType = "market_crash"
	EventMarketBoom       EventType = "market_boom"
	EventDistressCall     EventType = "distress_call"
	EventStorm            EventType = "storm"
	EventDiscovery        EventType = "discovery"
	EventSystemFailure    EventType = "system_failure"
	EventFuelLeak         EventType = "fuel_leak"
	EventCargoTheft       EventType = "cargo_theft"
	EventFriendlyTrader   EventType = "friendly_trader"
	EventMysteriousSignal EventType = "mysterious_signal"
)

// EventContext restricts when an event may be considered
type EventContext string

const (
	ContextInSpace      EventContext = "in_space"
	ContextAtStation    EventContext = "at_station"
	ContextDuringTravel EventContext = "during_travel"
	ContextAfterTrade   EventContext = "after_trade"
	ContextAfterCombat  EventContext = "after_combat"
	ContextOnPlanet     EventContext = "on_planet"
)

// EventDefinition describes a random event. All fields except LastTriggered
// are immutable after registration; LastTriggered is written only by the
// trigger engine and is monotonically non-decreasing.
type EventDefinition struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Type                EventType    `json:"event_type"`
	Context             EventContext `json:"context"`
	BaseProbability     float64      `json:"base_probability"`
	CooldownSeconds     int          `json:"cooldown_seconds"`
	MinLevel            int          `json:"min_level"`
	MaxLevel            int          `json:"max_level"`
	FactionRequirements []string     `json:"faction_requirements,omitempty"`
	ItemRequirements    []string     `json:"item_requirements,omitempty"`

	// Unix seconds of the last successful trigger, 0 when never fired.
	LastTriggered float64 `json:"last_triggered"`
}

// EventOutcome is the result of one resolution call. A non-empty Choices list
// means the caller must re-invoke resolution with one of the listed choices;
// an empty list means the outcome is terminal.
type EventOutcome struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Effects   map[string]any `json:"effects,omitempty"`
	Choices   []string       `json:"choices,omitempty"`
	Rewards   map[string]int `json:"rewards,omitempty"`
	Penalties map[string]int `json:"penalties,omitempty"`
}

// StateExcerpt is the slice of game state captured alongside each fired event.
type StateExcerpt struct {
	PlayerLevel   int `json:"player_level"`
	CurrentSector int `json:"current_sector"`
	Credits       int `json:"credits"`
}

// HistoryRecord is one append-only entry of the event history.
type HistoryRecord struct {
	EventID   string       `json:"event_id"`
	Timestamp float64      `json:"timestamp"`
	Snapshot  StateExcerpt `json:"game_state_snapshot"`
}
