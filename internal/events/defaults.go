// internal/events/defaults.go
package events

import (
	"github.com/Halcyonic/VoidTrader/internal/models"
)

// DefaultCatalog returns the stock event set every new session starts with.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Register(&models.EventDefinition{
		ID:              "ship_malfunction",
		Name:            "Ship Malfunction",
		Description:     "Your ship's systems are experiencing technical difficulties.",
		Type:            models.EventMalfunction,
		Context:         models.ContextInSpace,
		BaseProbability: 0.05,
		CooldownSeconds: 600,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "pirate_ambush",
		Name:            "Pirate Ambush",
		Description:     "Pirates have targeted your ship for attack!",
		Type:            models.EventPirateAttack,
		Context:         models.ContextInSpace,
		BaseProbability: 0.08,
		CooldownSeconds: 900,
		MinLevel:        2,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "market_crash",
		Name:            "Market Crash",
		Description:     "Economic instability causes market prices to plummet.",
		Type:            models.EventMarketCrash,
		Context:         models.ContextAtStation,
		BaseProbability: 0.03,
		CooldownSeconds: 1800,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "market_boom",
		Name:            "Market Boom",
		Description:     "Economic prosperity drives commodity prices up!",
		Type:            models.EventMarketBoom,
		Context:         models.ContextAtStation,
		BaseProbability: 0.04,
		CooldownSeconds: 1800,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "distress_signal",
		Name:            "Distress Signal",
		Description:     "You receive a distress signal from a nearby ship.",
		Type:            models.EventDistressCall,
		Context:         models.ContextInSpace,
		BaseProbability: 0.06,
		CooldownSeconds: 1200,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "space_storm",
		Name:            "Space Storm",
		Description:     "A dangerous space storm threatens your ship's systems.",
		Type:            models.EventStorm,
		Context:         models.ContextDuringTravel,
		BaseProbability: 0.04,
		CooldownSeconds: 800,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "rare_discovery",
		Name:            "Rare Discovery",
		Description:     "You've discovered something unusual in this sector.",
		Type:            models.EventDiscovery,
		Context:         models.ContextInSpace,
		BaseProbability: 0.02,
		CooldownSeconds: 2400,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "fuel_leak",
		Name:            "Fuel Leak",
		Description:     "A fuel leak is detected in your ship's systems.",
		Type:            models.EventFuelLeak,
		Context:         models.ContextInSpace,
		BaseProbability: 0.03,
		CooldownSeconds: 600,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "friendly_trader",
		Name:            "Friendly Trader",
		Description:     "A friendly trader offers you a special deal.",
		Type:            models.EventFriendlyTrader,
		Context:         models.ContextInSpace,
		BaseProbability: 0.05,
		CooldownSeconds: 1200,
		MinLevel:        1,
		MaxLevel:        100,
	})

	c.Register(&models.EventDefinition{
		ID:              "mysterious_signal",
		Name:            "Mysterious Signal",
		Description:     "Your sensors detect an unknown signal.",
		Type:            models.EventMysteriousSignal,
		Context:         models.ContextInSpace,
		BaseProbability: 0.01,
		CooldownSeconds: 3600,
		MinLevel:        5,
		MaxLevel:        100,
	})

	return c
}
