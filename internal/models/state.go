// internal/models/state.go
package models

import "encoding/json"

// InventoryItem is the minimal view of a carried item the engine reads.
type InventoryItem struct {
	Name string `json:"name"`
}

// GameState is the read-only snapshot of player/game state the event engine
// consumes. The engine never mutates it; all consequences are returned as
// outcome deltas. Keys outside the documented schema survive a JSON round
// trip untouched via Extra.
type GameState struct {
	PlayerLevel      int             `json:"player_level"`
	Reputation       map[string]int  `json:"reputation"`
	SectorDanger     int             `json:"sector_danger"`
	PlayerHealth     int             `json:"player_health"`
	Inventory        []InventoryItem `json:"inventory"`
	Credits          int             `json:"credits"`
	CombatPower      int             `json:"combat_power"`
	PilotingSkill    int             `json:"piloting_skill"`
	EngineeringSkill int             `json:"engineering_skill"`
	CurrentSector    int             `json:"current_sector"`

	Extra map[string]json.RawMessage `json:"-"`
}

// NewGameState returns a snapshot with the engine's documented defaults for
// absent values: a healthy level-1 player with average skills.
func NewGameState() *GameState {
	return &GameState{
		PlayerLevel:      1,
		Reputation:       map[string]int{},
		SectorDanger:     1,
		PlayerHealth:     100,
		CombatPower:      50,
		PilotingSkill:    50,
		EngineeringSkill: 50,
		CurrentSector:    1,
	}
}

// stateKnownKeys lists the schema fields handled explicitly; everything else
// passes through Extra.
var stateKnownKeys = map[string]bool{
	"player_level": true, "reputation": true, "sector_danger": true,
	"player_health": true, "inventory": true, "credits": true,
	"combat_power": true, "piloting_skill": true, "engineering_skill": true,
	"current_sector": true,
}

// UnmarshalJSON applies defaults for missing keys and preserves unknown keys.
func (gs *GameState) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*gs = *NewGameState()

	assign := func(key string, dst any) error {
		if v, ok := raw[key]; ok {
			return json.Unmarshal(v, dst)
		}
		return nil
	}

	if err := assign("player_level", &gs.PlayerLevel); err != nil {
		return err
	}
	if err := assign("reputation", &gs.Reputation); err != nil {
		return err
	}
	if err := assign("sector_danger", &gs.SectorDanger); err != nil {
		return err
	}
	if err := assign("player_health", &gs.PlayerHealth); err != nil {
		return err
	}
	if err := assign("inventory", &gs.Inventory); err != nil {
		return err
	}
	if err := assign("credits", &gs.Credits); err != nil {
		return err
	}
	if err := assign("combat_power", &gs.CombatPower); err != nil {
		return err
	}
	if err := assign("piloting_skill", &gs.PilotingSkill); err != nil {
		return err
	}
	if err := assign("engineering_skill", &gs.EngineeringSkill); err != nil {
		return err
	}
	if err := assign("current_sector", &gs.CurrentSector); err != nil {
		return err
	}

	for key, v := range raw {
		if stateKnownKeys[key] {
			continue
		}
		if gs.Extra == nil {
			gs.Extra = make(map[string]json.RawMessage)
		}
		gs.Extra[key] = v
	}

	return nil
}

// MarshalJSON flattens Extra back alongside the schema fields.
func (gs GameState) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"player_level":      gs.PlayerLevel,
		"reputation":        gs.Reputation,
		"sector_danger":     gs.SectorDanger,
		"player_health":     gs.PlayerHealth,
		"inventory":         gs.Inventory,
		"credits":           gs.Credits,
		"combat_power":      gs.CombatPower,
		"piloting_skill":    gs.PilotingSkill,
		"engineering_skill": gs.EngineeringSkill,
		"current_sector":    gs.CurrentSector,
	}
	for key, v := range gs.Extra {
		if !stateKnownKeys[key] {
			out[key] = v
		}
	}
	return json.Marshal(out)
}

// HasItem reports whether the inventory contains an item with the given name.
func (gs *GameState) HasItem(name string) bool {
	for _, item := range gs.Inventory {
		if item.Name == name {
			return true
		}
	}
	return false
}

// ReputationWith returns the player's standing with a faction, 0 when the
// faction is unknown.
func (gs *GameState) ReputationWith(faction string) int {
	if gs.Reputation == nil {
		return 0
	}
	return gs.Reputation[faction]
}

// Excerpt returns the fields recorded in event history entries.
func (gs *GameState) Excerpt() StateExcerpt {
	return StateExcerpt{
		PlayerLevel:   gs.PlayerLevel,
		CurrentSector: gs.CurrentSector,
		Credits:       gs.Credits,
	}
}
