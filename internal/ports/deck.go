package ports

import (
	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

// Catalog provides the immutable deck and spread reference data.
type Catalog interface {
	// Cards returns the 78 card names in canonical deck order.
	Cards() []string
	// Spreads returns every spread template.
	Spreads() []domain.Spread
	// SpreadByName returns the named spread or domain.ErrSpreadNotFound.
	SpreadByName(name string) (domain.Spread, error)
}
