package domain

import "slices"

// State identifies which screen of the reading flow is active.
type State string

const (
	StateInitial      State = "initial"
	StateShuffling    State = "shuffling"
	StateReady        State = "ready"
	StateRevealing    State = "revealing"
	StateRevealed     State = "revealed"
	StateHistory      State = "history"
	StateCardOfTheDay State = "card_of_the_day"
	StateGlossary     State = "glossary"
)

// Session is the explicit state-machine value for one reading flow. All
// mutations go through named transition methods; guard violations return
// typed errors and leave the session untouched.
//
// The interpretation token is a single slot: while it is held exactly one
// interpretation request is in flight and every transition that would
// start another one is rejected. Sessions are not safe for concurrent
// use; callers serialize access.
type Session struct {
	State    State
	Spread   Spread
	Theme    string
	Question string

	Selected []int
	Drawn    []DrawnCard

	Cards   []InterpretedCard
	Summary string
	Daily   *DailyReading
	Err     string

	token bool
}

// NewSession returns a session in the initial state.
func NewSession() *Session {
	return &Session{State: StateInitial}
}

// Interpreting reports whether the single interpretation slot is held.
func (s *Session) Interpreting() bool { return s.token }

// Start moves INITIAL -> SHUFFLING, clearing any prior reading state.
func (s *Session) Start(spread Spread, theme, question string) error {
	if s.State != StateInitial {
		return invalidTransition("start", s.State)
	}
	s.Spread = spread
	s.Theme = theme
	s.Question = question
	s.Selected = nil
	s.Drawn = nil
	s.Cards = nil
	s.Summary = ""
	s.Err = ""
	s.State = StateShuffling
	return nil
}

// ShuffleComplete moves SHUFFLING -> READY.
func (s *Session) ShuffleComplete() error {
	if s.State != StateShuffling {
		return invalidTransition("shuffle complete", s.State)
	}
	s.State = StateReady
	return nil
}

// Select records a drawn card for index. Re-selecting an already-chosen
// index is a no-op, as is any select once a fixed-size spread is fully
// selected: the session may be back in READY after a failed
// interpretation, and the complete selection must stay intact for the
// retry. It returns true when a fixed-size spread has just reached its
// full card count and interpretation should auto-trigger.
func (s *Session) Select(index int, card DrawnCard) (complete bool, err error) {
	if s.State != StateReady {
		return false, invalidTransition("select", s.State)
	}
	if index < 0 || index >= DeckSize {
		return false, ErrInvalidCardIndex
	}
	if !s.Spread.Freestyle() && len(s.Selected) >= s.Spread.CardCount {
		return false, nil
	}
	if slices.Contains(s.Selected, index) {
		return false, nil
	}
	s.Selected = append(s.Selected, index)
	s.Drawn = append(s.Drawn, card)
	return !s.Spread.Freestyle() && len(s.Selected) == s.Spread.CardCount, nil
}

// BeginInterpretation moves READY -> REVEALING and acquires the
// interpretation token. Freestyle spreads need at least one selection;
// fixed spreads must be fully selected, which also makes an explicit
// finalize after a failed auto-triggered request act as a retry.
func (s *Session) BeginInterpretation() error {
	if s.token {
		return ErrInterpretInFlight
	}
	if s.State != StateReady {
		return invalidTransition("interpret", s.State)
	}
	if len(s.Selected) == 0 {
		return ErrEmptySelection
	}
	if !s.Spread.Freestyle() && len(s.Selected) != s.Spread.CardCount {
		return ErrIncompleteSelection
	}
	s.State = StateRevealing
	s.Err = ""
	s.token = true
	return nil
}

// CompleteInterpretation moves REVEALING -> REVEALED with the results and
// releases the token.
func (s *Session) CompleteInterpretation(cards []InterpretedCard, summary string) error {
	if s.State != StateRevealing {
		return invalidTransition("complete interpretation", s.State)
	}
	s.Cards = cards
	s.Summary = summary
	s.State = StateRevealed
	s.token = false
	return nil
}

// FailInterpretation moves REVEALING -> READY, surfacing msg and keeping
// the selection intact so the user can retry.
func (s *Session) FailInterpretation(msg string) error {
	if s.State != StateRevealing {
		return invalidTransition("fail interpretation", s.State)
	}
	s.Err = msg
	s.State = StateReady
	s.token = false
	return nil
}

// BeginCardOfTheDay moves INITIAL -> CARD_OF_THE_DAY and acquires the
// token while the daily card is resolved.
func (s *Session) BeginCardOfTheDay() error {
	if s.token {
		return ErrInterpretInFlight
	}
	if s.State != StateInitial {
		return invalidTransition("card of the day", s.State)
	}
	s.State = StateCardOfTheDay
	s.Err = ""
	s.token = true
	return nil
}

// CompleteCardOfTheDay publishes the daily reading and releases the token.
func (s *Session) CompleteCardOfTheDay(d DailyReading) error {
	if s.State != StateCardOfTheDay {
		return invalidTransition("complete card of the day", s.State)
	}
	s.Daily = &d
	s.token = false
	return nil
}

// FailCardOfTheDay returns to INITIAL with msg surfaced.
func (s *Session) FailCardOfTheDay(msg string) error {
	if s.State != StateCardOfTheDay {
		return invalidTransition("fail card of the day", s.State)
	}
	s.Err = msg
	s.State = StateInitial
	s.token = false
	return nil
}

// ShowHistory moves INITIAL -> HISTORY.
func (s *Session) ShowHistory() error {
	if s.State != StateInitial {
		return invalidTransition("history", s.State)
	}
	s.State = StateHistory
	return nil
}

// ShowGlossary moves INITIAL -> GLOSSARY.
func (s *Session) ShowGlossary() error {
	if s.State != StateInitial {
		return invalidTransition("glossary", s.State)
	}
	s.State = StateGlossary
	return nil
}

// Back returns to INITIAL from any state, clearing flow state but not
// anything persisted. It is rejected while an interpretation is in
// flight: requests are never cancelled, so the session waits for the
// outcome first.
func (s *Session) Back() error {
	if s.token {
		return ErrInterpretInFlight
	}
	*s = Session{State: StateInitial}
	return nil
}

// Clone returns a snapshot safe to read outside the owner's lock.
func (s *Session) Clone() Session {
	c := *s
	c.Selected = slices.Clone(s.Selected)
	c.Drawn = slices.Clone(s.Drawn)
	c.Cards = slices.Clone(s.Cards)
	if s.Daily != nil {
		d := *s.Daily
		c.Daily = &d
	}
	return c
}
