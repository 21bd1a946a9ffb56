package events

import (
	"testing"

	"github.com/Halcyonic/VoidTrader/internal/models"
)

func defWithID(id string) *models.EventDefinition {
	return &models.EventDefinition{
		ID:              id,
		Name:            id,
		Type:            models.EventDiscovery,
		Context:         models.ContextInSpace,
		BaseProbability: 0.5,
		MinLevel:        1,
		MaxLevel:        100,
	}
}

func TestCatalogRegisterAndGet(t *testing.T) {
	c := NewCatalog()
	c.Register(defWithID("a"))

	def, ok := c.Get("a")
	if !ok {
		t.Fatal("expected registered event to be found")
	}
	if def.ID != "a" {
		t.Fatalf("expected id a, got %s", def.ID)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestCatalogLastRegistrationWins(t *testing.T) {
	c := NewCatalog()
	first := defWithID("a")
	first.Name = "first"
	second := defWithID("a")
	second.Name = "second"

	c.Register(first)
	c.Register(second)

	def, _ := c.Get("a")
	if def.Name != "second" {
		t.Fatalf("expected overwrite, got %s", def.Name)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", c.Len())
	}
}

func TestCatalogUnregisterAbsentIsNoop(t *testing.T) {
	c := NewCatalog()
	c.Register(defWithID("a"))
	c.Unregister("missing")
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	c.Unregister("a")
	if c.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be gone")
	}
}

func TestCatalogIterationFollowsRegistrationOrder(t *testing.T) {
	c := NewCatalog()
	ids := []string{"delta", "alpha", "zulu", "bravo"}
	for _, id := range ids {
		c.Register(defWithID(id))
	}
	// Overwriting keeps the original slot.
	c.Register(defWithID("alpha"))

	got := c.All()
	if len(got) != len(ids) {
		t.Fatalf("expected %d entries, got %d", len(ids), len(got))
	}
	for i, id := range ids {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestDefaultCatalogContents(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() != 10 {
		t.Fatalf("expected 10 stock events, got %d", c.Len())
	}
	pirate, ok := c.Get("pirate_ambush")
	if !ok {
		t.Fatal("expected pirate_ambush to be registered")
	}
	if pirate.MinLevel != 2 {
		t.Fatalf("expected pirate_ambush min level 2, got %d", pirate.MinLevel)
	}
	if pirate.BaseProbability != 0.08 {
		t.Fatalf("expected base probability 0.08, got %v", pirate.BaseProbability)
	}
	signal, _ := c.Get("mysterious_signal")
	if signal.CooldownSeconds != 3600 {
		t.Fatalf("expected 3600s cooldown, got %d", signal.CooldownSeconds)
	}
}
