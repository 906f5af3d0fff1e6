package ports

import (
	"context"

	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

// SpreadInput holds everything the LLM needs to interpret a full spread.
// Positions must match Cards index-for-index (synthesized for freestyle).
type SpreadInput struct {
	Spread    domain.Spread
	Positions []domain.Position
	Theme     string
	Question  string
	Cards     []domain.DrawnCard
}

// SpreadOutput is a validated, enriched spread interpretation. Cards
// correspond to the input cards in order.
type SpreadOutput struct {
	Cards   []domain.InterpretedCard
	Summary string
}

// DailyOutput is the card-of-the-day variant: the enriched card plus its
// daily message.
type DailyOutput struct {
	Card           domain.InterpretedCard
	Interpretation string
}

// CardDetails is a stateless glossary lookup result, with no position
// context and no reversal.
type CardDetails struct {
	Name            string `json:"name"`
	UprightMeaning  string `json:"upright_meaning"`
	ReversedMeaning string `json:"reversed_meaning"`
	Description     string `json:"description"`
}

// Interpreter generates tarot interpretations via an LLM. Implementations
// surface every transport, schema, and parse failure as an error wrapping
// domain.ErrUpstreamLLM or domain.ErrInvalidLLMJSON; no partial result is
// ever returned.
type Interpreter interface {
	InterpretSpread(ctx context.Context, in SpreadInput) (SpreadOutput, error)
	InterpretCardOfDay(ctx context.Context, card domain.DrawnCard) (DailyOutput, error)
	CardDetails(ctx context.Context, name string) (CardDetails, error)
}
