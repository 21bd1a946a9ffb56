// internal/events/catalog.go
package events

import (
	"github.com/Halcyonic/VoidTrader/internal/models"
)

// Catalog is the registry of event definitions. Iteration follows
// registration order, which is the documented tie-break for the trigger
// engine's weighted draw, so the container keeps an explicit id slice
// instead of relying on map ordering.
type Catalog struct {
	order []string
	byID  map[string]*models.EventDefinition
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID: make(map[string]*models.EventDefinition),
	}
}

// Register inserts or overwrites a definition by id. Last registration wins;
// an overwrite keeps the original registration slot.
func (c *Catalog) Register(def *models.EventDefinition) {
	if def == nil || def.ID == "" {
		return
	}
	if _, exists := c.byID[def.ID]; !exists {
		c.order = append(c.order, def.ID)
	}
	c.byID[def.ID] = def
}

// Unregister removes a definition if present. Absent ids are a no-op.
func (c *Catalog) Unregister(id string) {
	if _, exists := c.byID[id]; !exists {
		return
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (*models.EventDefinition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Len returns the number of registered definitions.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns the definitions in registration order.
func (c *Catalog) All() []*models.EventDefinition {
	defs := make([]*models.EventDefinition, 0, len(c.order))
	for _, id := range c.order {
		defs = append(defs, c.byID[id])
	}
	return defs
}
