package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// DeckSize is the number of cards in a full Rider-Waite deck.
const DeckSize = 78

// Position describes what one slot in a spread stands for.
type Position struct {
	Meaning     string `json:"meaning"`
	Description string `json:"description"`
}

// Spread is a named template defining how many cards are drawn and what
// each position represents. A CardCount of zero marks the freestyle
// spread, whose positions are synthesized per drawn card.
type Spread struct {
	Name        string     `json:"name"`
	CardCount   int        `json:"cardCount"`
	Description string     `json:"description"`
	Positions   []Position `json:"positions"`
	Themes      []string   `json:"themes"`
}

// Freestyle reports whether the spread has no fixed card count.
func (s Spread) Freestyle() bool { return s.CardCount == 0 }

// DrawnCard is a card picked from the deck. Reversed is rolled once at
// draw time and never re-rolled for that draw.
type DrawnCard struct {
	Name     string `json:"name"`
	Reversed bool   `json:"isReversed"`
}

// InterpretedCard is a drawn card enriched with the model's meanings and
// its position context in the spread. ImageURL and Reversed are always
// derived from the drawn card, never from the model's response.
type InterpretedCard struct {
	Name                string `json:"name"`
	UprightMeaning      string `json:"upright_meaning"`
	ReversedMeaning     string `json:"reversed_meaning"`
	Description         string `json:"description"`
	ImageURL            string `json:"image_url"`
	PositionMeaning     string `json:"position_meaning"`
	PositionDescription string `json:"position_description"`
	Reversed            bool   `json:"isReversed"`
}

// Reading is one completed draw-and-interpret cycle. ID is the creation
// timestamp in unix milliseconds. Readings are stored newest first and
// mutated only to attach notes.
type Reading struct {
	ID       int64             `json:"id"`
	Date     string            `json:"date"`
	Theme    string            `json:"theme"`
	Spread   string            `json:"spreadName"`
	Question string            `json:"question"`
	Cards    []InterpretedCard `json:"cards"`
	Summary  string            `json:"summary"`
	Notes    string            `json:"notes,omitempty"`
}

// DailyReading is the once-per-calendar-day single-card reading. Date is
// the local calendar day in YYYY-MM-DD; a stored reading with any other
// date is treated as absent.
type DailyReading struct {
	Card           InterpretedCard `json:"card"`
	Interpretation string          `json:"interpretation"`
	Date           string          `json:"date"`
}
