// internal/events/resolver.go
package events

import (
	"fmt"

	"github.com/Halcyonic/VoidTrader/internal/models"
)

// Resolve runs one resolution step for an event. An empty choice is the
// presentation stage: the handler describes the situation and, for decision
// events, offers choices. A non-empty choice is the resolution stage and
// yields a terminal outcome. Randomness is drawn fresh on every call, so the
// two stages roll independent values.
//
// Every call appends a history record, including presentation-stage calls;
// one two-stage interaction therefore produces two entries. That matches the
// original engine's observable behavior and is kept on purpose.
func (e *Engine) Resolve(def *models.EventDefinition, state *models.GameState, choice string) models.EventOutcome {
	e.history.Record(models.HistoryRecord{
		EventID:   def.ID,
		Timestamp: e.now(),
		Snapshot:  state.Excerpt(),
	})

	switch def.Type {
	case models.EventMalfunction:
		return e.resolveMalfunction(def, choice)
	case models.EventPirateAttack:
		return e.resolvePirateAttack(def, state, choice)
	case models.EventMarketCrash:
		return e.resolveMarketCrash(def)
	case models.EventMarketBoom:
		return e.resolveMarketBoom(def)
	case models.EventDistressCall:
		return e.resolveDistressCall(def, state, choice)
	case models.EventStorm:
		return e.resolveStorm(def)
	case models.EventDiscovery:
		return e.resolveDiscovery(def)
	case models.EventFuelLeak:
		return e.resolveFuelLeak(def, state, choice)
	case models.EventFriendlyTrader:
		return e.resolveFriendlyTrader(def, choice)
	case models.EventMysteriousSignal:
		return e.resolveMysteriousSignal(def, choice)
	default:
		return models.EventOutcome{
			Success: false,
			Message: fmt.Sprintf("Unknown event type: %s", def.Type),
		}
	}
}

// ResolveByID looks up the definition and resolves it.
func (e *Engine) ResolveByID(id string, state *models.GameState, choice string) (models.EventOutcome, error) {
	def, ok := e.catalog.Get(id)
	if !ok {
		return models.EventOutcome{}, fmt.Errorf("event %q is not registered", id)
	}
	return e.Resolve(def, state, choice), nil
}

// randInt draws an integer in [min, max] inclusive.
func (e *Engine) randInt(min, max int) int {
	return min + e.rng.Intn(max-min+1)
}

// randFloat draws a float in [min, max).
func (e *Engine) randFloat(min, max float64) float64 {
	return min + e.rng.Float64()*(max-min)
}

func (e *Engine) pick(options []string) string {
	return options[e.rng.Intn(len(options))]
}

func (e *Engine) resolveMalfunction(def *models.EventDefinition, choice string) models.EventOutcome {
	damage := e.randInt(10, 30)
	fuelLoss := e.randInt(5, 15)

	if choice == "" {
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("%s Your ship takes %d damage and loses %d fuel.", def.Description, damage, fuelLoss),
			Effects: map[string]any{
				"health_damage": damage,
				"fuel_loss":     fuelLoss,
			},
			Choices: []string{"repair_now", "continue_damaged"},
		}
	}

	switch choice {
	case "repair_now":
		repairCost := damage * 10
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("You perform emergency repairs for %d credits.", repairCost),
			Effects: map[string]any{
				"credit_cost":    repairCost,
				"health_restore": damage,
			},
		}
	case "continue_damaged":
		return models.EventOutcome{
			Success: true,
			Message: "You decide to continue with the damaged systems. Be careful!",
			Effects: map[string]any{
				"ongoing_malfunction": true,
			},
		}
	}

	return models.EventOutcome{Success: false, Message: "Invalid choice for malfunction event."}
}

func (e *Engine) resolvePirateAttack(def *models.EventDefinition, state *models.GameState, choice string) models.EventOutcome {
	piratePower := e.randInt(30, 80)

	if choice == "" {
		escapeChance := min(90, state.PilotingSkill)
		bribeAmount := e.randInt(200, 500)
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("%s Pirate ship power: %d. What do you do?", def.Description, piratePower),
			Effects: map[string]any{
				"pirate_power":  piratePower,
				"escape_chance": escapeChance,
				"bribe_amount":  bribeAmount,
			},
			Choices: []string{"fight", "flee", "bribe"},
		}
	}

	switch choice {
	case "fight":
		if state.CombatPower > piratePower {
			loot := e.randInt(100, 300)
			return models.EventOutcome{
				Success: true,
				Message: fmt.Sprintf("You defeated the pirates and found %d credits in their wreckage!", loot),
				Rewards: map[string]int{"credits": loot},
				Effects: map[string]any{"reputation_pirates": -10},
			}
		}
		damage := e.randInt(20, 50)
		creditLoss := e.randInt(50, 200)
		return models.EventOutcome{
			Success:   false,
			Message:   fmt.Sprintf("The pirates overpowered you! You lose %d health and %d credits.", damage, creditLoss),
			Penalties: map[string]int{"health": damage, "credits": creditLoss},
		}
	case "flee":
		escapeChance := min(90, state.PilotingSkill)
		if e.randInt(1, 100) <= escapeChance {
			return models.EventOutcome{
				Success: true,
				Message: "You successfully escaped from the pirates!",
				Effects: map[string]any{"fuel_loss": 10},
			}
		}
		damage := e.randInt(10, 25)
		return models.EventOutcome{
			Success:   false,
			Message:   fmt.Sprintf("Escape failed! You take %d damage in the chase.", damage),
			Penalties: map[string]int{"health": damage},
		}
	case "bribe":
		bribeAmount := e.randInt(200, 500)
		if state.Credits >= bribeAmount {
			return models.EventOutcome{
				Success: true,
				Message: fmt.Sprintf("You pay %d credits and the pirates let you pass.", bribeAmount),
				Effects: map[string]any{"credit_cost": bribeAmount},
			}
		}
		return models.EventOutcome{
			Success: false,
			Message: "You don't have enough credits to bribe the pirates!",
			Choices: []string{"fight", "flee"},
		}
	}

	return models.EventOutcome{Success: false, Message: "Invalid choice for pirate attack."}
}

func (e *Engine) resolveMarketCrash(def *models.EventDefinition) models.EventOutcome {
	affected := e.pick([]string{"Electronics", "Weapons", "Medicine", "Food"})
	priceDrop := e.randFloat(0.3, 0.6)

	return models.EventOutcome{
		Success: true,
		Message: fmt.Sprintf("%s %s prices have dropped by %d%%!", def.Description, affected, int(priceDrop*100)),
		Effects: map[string]any{
			"market_crash":     true,
			"affected_good":    affected,
			"price_multiplier": 1.0 - priceDrop,
		},
	}
}

func (e *Engine) resolveMarketBoom(def *models.EventDefinition) models.EventOutcome {
	affected := e.pick([]string{"Tritium", "Dilithium", "Ammolite", "Rare Metals"})
	priceIncrease := e.randFloat(0.5, 1.2)

	return models.EventOutcome{
		Success: true,
		Message: fmt.Sprintf("%s %s prices have increased by %d%%!", def.Description, affected, int(priceIncrease*100)),
		Effects: map[string]any{
			"market_boom":      true,
			"affected_good":    affected,
			"price_multiplier": 1.0 + priceIncrease,
		},
	}
}

func (e *Engine) resolveDistressCall(def *models.EventDefinition, state *models.GameState, choice string) models.EventOutcome {
	if choice == "" {
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("%s Do you want to respond?", def.Description),
			Choices: []string{"respond", "ignore"},
		}
	}

	switch choice {
	case "respond":
		if e.randInt(1, 100) <= state.EngineeringSkill {
			reward := e.randInt(300, 800)
			return models.EventOutcome{
				Success: true,
				Message: fmt.Sprintf("You successfully rescued the ship's crew! They reward you with %d credits.", reward),
				Rewards: map[string]int{"credits": reward},
				Effects: map[string]any{"reputation_traders": 15},
			}
		}
		fuelCost := e.randInt(15, 25)
		return models.EventOutcome{
			Success:   false,
			Message:   fmt.Sprintf("The rescue attempt failed and cost you %d fuel.", fuelCost),
			Penalties: map[string]int{"fuel": fuelCost},
		}
	case "ignore":
		return models.EventOutcome{
			Success: true,
			Message: "You decide to ignore the distress call and continue on your way.",
			Effects: map[string]any{"reputation_traders": -5},
		}
	}

	return models.EventOutcome{Success: false, Message: "Invalid choice for distress call."}
}

func (e *Engine) resolveStorm(def *models.EventDefinition) models.EventOutcome {
	damage := e.randInt(5, 20)
	sensorImpairment := e.randInt(2, 5) // turns

	return models.EventOutcome{
		Success: true,
		Message: fmt.Sprintf("%s The storm damages your ship for %d health and impairs sensors for %d turns.", def.Description, damage, sensorImpairment),
		Effects: map[string]any{
			"health_damage":     damage,
			"sensor_impairment": sensorImpairment,
		},
	}
}

func (e *Engine) resolveDiscovery(def *models.EventDefinition) models.EventOutcome {
	type find struct {
		name       string
		rewardType string
		reward     any
	}
	finds := []find{
		{"Ancient Artifact", "credits", e.randInt(500, 1500)},
		{"Rare Mineral Deposit", "item", "Rare Metals"},
		{"Abandoned Ship", "fuel", e.randInt(20, 50)},
		{"Space Debris", "scrap", e.randInt(10, 30)},
		{"Data Cache", "experience", e.randInt(50, 150)},
	}

	found := finds[e.rng.Intn(len(finds))]

	rewards := map[string]int{}
	effects := map[string]any{}
	if value, ok := found.reward.(int); ok {
		rewards[found.rewardType] = value
	} else {
		// Item finds carry the item name rather than a quantity.
		effects[found.rewardType] = found.reward
	}

	return models.EventOutcome{
		Success: true,
		Message: fmt.Sprintf("%s You discovered: %s!", def.Description, found.name),
		Rewards: rewards,
		Effects: effects,
	}
}

func (e *Engine) resolveFuelLeak(def *models.EventDefinition, state *models.GameState, choice string) models.EventOutcome {
	fuelLoss := e.randInt(15, 30)

	if choice == "" {
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("%s You're losing %d fuel units!", def.Description, fuelLoss),
			Effects: map[string]any{"fuel_loss": fuelLoss},
			Choices: []string{"emergency_patch", "jettison_cargo"},
		}
	}

	switch choice {
	case "emergency_patch":
		if e.randInt(1, 100) <= state.EngineeringSkill {
			return models.EventOutcome{
				Success: true,
				Message: "Emergency patch successful! Fuel leak sealed.",
				Effects: map[string]any{"fuel_loss_prevented": true},
			}
		}
		return models.EventOutcome{
			Success:   false,
			Message:   fmt.Sprintf("Patch failed! You lose %d fuel.", fuelLoss),
			Penalties: map[string]int{"fuel": fuelLoss},
		}
	case "jettison_cargo":
		return models.EventOutcome{
			Success: true,
			Message: "You jettison some cargo to reduce pressure and seal the leak.",
			Effects: map[string]any{"cargo_loss": 1},
		}
	}

	return models.EventOutcome{Success: false, Message: "Invalid choice for fuel leak."}
}

func (e *Engine) resolveFriendlyTrader(def *models.EventDefinition, choice string) models.EventOutcome {
	offeredGood := e.pick([]string{"Electronics", "Medicine", "Food", "Iron"})
	discount := e.randFloat(0.2, 0.4)

	if choice == "" {
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("%s They offer %s at %d%% off market price!", def.Description, offeredGood, int(discount*100)),
			Effects: map[string]any{
				"trade_offer":  true,
				"offered_good": offeredGood,
				"discount":     discount,
			},
			Choices: []string{"accept", "decline"},
		}
	}

	switch choice {
	case "accept":
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("You accept the trader's offer for discounted %s.", offeredGood),
			Effects: map[string]any{
				"special_trade": true,
				"good":          offeredGood,
				"discount":      discount,
			},
		}
	case "decline":
		return models.EventOutcome{
			Success: true,
			Message: "You politely decline the trader's offer.",
			Effects: map[string]any{},
		}
	}

	return models.EventOutcome{Success: false, Message: "Invalid choice for trader encounter."}
}

func (e *Engine) resolveMysteriousSignal(def *models.EventDefinition, choice string) models.EventOutcome {
	if choice == "" {
		return models.EventOutcome{
			Success: true,
			Message: fmt.Sprintf("%s The signal's origin is unknown. Investigate?", def.Description),
			Choices: []string{"investigate", "ignore"},
		}
	}

	switch choice {
	case "investigate":
		type signalOutcome struct {
			kind    string
			message string
			effects map[string]any
		}
		outcomes := []signalOutcome{
			{"alien_technology", "You discover alien technology!", map[string]any{"credits": 2000, "experience": 200}},
			{"trap", "It was a trap! Pirates ambush you!", map[string]any{"health": -30}},
			{"derelict", "You find a derelict ship with valuable cargo.", map[string]any{"credits": 1000}},
			{"nothing", "The signal leads to nothing but empty space.", map[string]any{}},
		}

		outcome := outcomes[e.rng.Intn(len(outcomes))]
		return models.EventOutcome{
			Success: outcome.kind != "trap",
			Message: outcome.message,
			Effects: outcome.effects,
		}
	case "ignore":
		return models.EventOutcome{
			Success: true,
			Message: "You decide the risk isn't worth it and continue on your course.",
			Effects: map[string]any{},
		}
	}

	return models.EventOutcome{Success: false, Message: "Invalid choice for mysterious signal."}
}
