package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

//go:embed data/*.json
var catalogFS embed.FS

// EmbeddedCatalog serves the deck and spread reference data from embedded
// JSON files.
type EmbeddedCatalog struct {
	once    sync.Once
	cards   []string
	spreads []domain.Spread
	byName  map[string]domain.Spread
	err     error
}

func NewEmbeddedCatalog() *EmbeddedCatalog {
	return &EmbeddedCatalog{}
}

func (c *EmbeddedCatalog) init() {
	raw, err := catalogFS.ReadFile("data/cards.json")
	if err != nil {
		c.err = fmt.Errorf("read embedded cards: %w", err)
		return
	}
	if err := json.Unmarshal(raw, &c.cards); err != nil {
		c.err = fmt.Errorf("parse embedded cards: %w", err)
		return
	}
	if len(c.cards) != domain.DeckSize {
		c.err = fmt.Errorf("embedded deck has %d cards, want %d", len(c.cards), domain.DeckSize)
		return
	}

	raw, err = catalogFS.ReadFile("data/spreads.json")
	if err != nil {
		c.err = fmt.Errorf("read embedded spreads: %w", err)
		return
	}
	if err := json.Unmarshal(raw, &c.spreads); err != nil {
		c.err = fmt.Errorf("parse embedded spreads: %w", err)
		return
	}

	c.byName = make(map[string]domain.Spread, len(c.spreads))
	for _, s := range c.spreads {
		c.byName[s.Name] = s
	}
}

// Load forces initialization so data errors surface at startup instead
// of on first use.
func (c *EmbeddedCatalog) Load() error {
	c.once.Do(c.init)
	return c.err
}

// Cards returns the 78 card names in canonical deck order.
func (c *EmbeddedCatalog) Cards() []string {
	c.once.Do(c.init)
	if c.err != nil {
		panic(c.err)
	}
	return c.cards
}

// Spreads returns every spread template.
func (c *EmbeddedCatalog) Spreads() []domain.Spread {
	c.once.Do(c.init)
	if c.err != nil {
		panic(c.err)
	}
	return c.spreads
}

// SpreadByName returns the named spread or domain.ErrSpreadNotFound.
func (c *EmbeddedCatalog) SpreadByName(name string) (domain.Spread, error) {
	c.once.Do(c.init)
	if c.err != nil {
		panic(c.err)
	}
	spread, ok := c.byName[name]
	if !ok {
		return domain.Spread{}, domain.ErrSpreadNotFound
	}
	return spread, nil
}
