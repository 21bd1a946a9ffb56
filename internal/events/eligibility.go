// internal/events/eligibility.go
package events

import (
	"github.com/Halcyonic/VoidTrader/internal/models"
)

// CanTrigger reports whether a definition may fire at time now (unix
// seconds). All gates must hold: per-event cooldown elapsed, player level
// inside the band, no negative standing with required factions, and every
// required item present in the inventory.
func CanTrigger(def *models.EventDefinition, state *models.GameState, now float64) bool {
	if now-def.LastTriggered < float64(def.CooldownSeconds) {
		return false
	}

	if state.PlayerLevel < def.MinLevel || state.PlayerLevel > def.MaxLevel {
		return false
	}

	for _, faction := range def.FactionRequirements {
		// Unknown factions count as neutral standing and pass.
		if state.ReputationWith(faction) < 0 {
			return false
		}
	}

	for _, item := range def.ItemRequirements {
		if !state.HasItem(item) {
			return false
		}
	}

	return true
}

// WeightedProbability returns the state-adjusted trigger probability for one
// check. Ineligible definitions score exactly 0. The adjustments compound:
// dangerous sectors boost hazard events, a battered ship doubles malfunction
// odds, and good standing with the pirates halves ambushes.
func WeightedProbability(def *models.EventDefinition, state *models.GameState, now float64) float64 {
	if !CanTrigger(def, state, now) {
		return 0
	}

	probability := def.BaseProbability

	switch def.Type {
	case models.EventPirateAttack, models.EventMalfunction, models.EventStorm:
		probability *= 1.0 + float64(state.SectorDanger)*0.2
	}

	if def.Type == models.EventMalfunction && state.PlayerHealth < 50 {
		probability *= 2.0
	}

	if def.Type == models.EventPirateAttack && state.ReputationWith("Pirates") > 50 {
		probability *= 0.5
	}

	if probability > 1.0 {
		probability = 1.0
	}
	return probability
}
