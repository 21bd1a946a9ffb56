// cmd/demo/main.go
//
// Interactive console walkthrough of the event engine. Each turn runs one
// trigger check against a simulated pilot; fired events are resolved through
// the same choice flow the HTTP API exposes.
package main

import (
	"bufio"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/Halcyonic/VoidTrader/internal/events"
	"github.com/Halcyonic/VoidTrader/internal/models"
)

func main() {
	fmt.Println("VoidTrader Event Engine Demo")
	fmt.Println("============================")

	var rng *rand.Rand
	if raw := os.Getenv("EVENT_RNG_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("invalid EVENT_RNG_SEED: %v", err)
		}
		rng = rand.New(rand.NewSource(seed))
		fmt.Printf("(seeded with %d)\n", seed)
	}

	engine := events.NewEngine(events.DefaultCatalog(), rng)
	// No real-time pacing in a console session.
	engine.SetGlobalCooldown(0)

	state := models.NewGameState()
	state.PlayerLevel = 5
	state.Credits = 1000
	state.CombatPower = 60
	state.PilotingSkill = 70
	state.EngineeringSkill = 55
	state.Inventory = []models.InventoryItem{{Name: "Food Rations"}, {Name: "Rare Metals"}}

	reader := bufio.NewReader(os.Stdin)
	contexts := []models.EventContext{
		models.ContextInSpace,
		models.ContextDuringTravel,
		models.ContextAtStation,
	}

	fuel := 100
	turn := 0
	for {
		turn++
		ctx := contexts[turn%len(contexts)]
		fmt.Printf("\n--- Turn %d (%s) --- credits=%d health=%d fuel=%d\n",
			turn, ctx, state.Credits, state.PlayerHealth, fuel)
		fmt.Print("Press enter to advance, q to quit: ")

		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) == "q" {
			break
		}

		fired := engine.Check(ctx, state)
		if fired == nil {
			fmt.Println("Nothing happens.")
			continue
		}

		fmt.Printf("\n!!! %s\n", fired.Name)
		playOut(engine, fired, state, &fuel, reader)
	}

	stats := engine.Statistics()
	fmt.Printf("\n%d events over %d turns.\n", stats.TotalEvents, turn)
	for id, count := range stats.EventCounts {
		fmt.Printf("  %-20s %d\n", id, count)
	}
}

// playOut presents an event and walks through its choices until the
// outcome is terminal.
func playOut(engine *events.Engine, def *models.EventDefinition, state *models.GameState, fuel *int, reader *bufio.Reader) {
	outcome := engine.Resolve(def, state, "")
	fmt.Println(outcome.Message)

	for len(outcome.Choices) > 0 {
		fmt.Printf("Choices: %s\n", strings.Join(outcome.Choices, ", "))
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		choice := strings.TrimSpace(line)

		outcome = engine.Resolve(def, state, choice)
		fmt.Println(outcome.Message)
	}

	applyOutcome(state, fuel, outcome)
}

// applyOutcome folds rewards and penalties back into the simulated state.
// A real game client owns this step; the engine only reports deltas.
func applyOutcome(state *models.GameState, fuel *int, outcome models.EventOutcome) {
	for key, value := range outcome.Rewards {
		switch key {
		case "credits":
			state.Credits += value
		case "fuel":
			*fuel += value
		}
	}
	for key, value := range outcome.Penalties {
		switch key {
		case "credits":
			state.Credits -= value
		case "fuel":
			*fuel -= value
		case "health":
			state.PlayerHealth -= value
		}
	}
	if damage, ok := outcome.Effects["health_damage"].(int); ok {
		state.PlayerHealth -= damage
	}
}
