package domain_test

import (
	"errors"
	"testing"

	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

func threeCardSpread() domain.Spread {
	return domain.Spread{
		Name:      "Ba Lá Bài",
		CardCount: 3,
		Positions: []domain.Position{
			{Meaning: "Quá khứ"}, {Meaning: "Hiện tại"}, {Meaning: "Tương lai"},
		},
	}
}

func freestyleSpread() domain.Spread {
	return domain.Spread{Name: "Tự Do (Freestyle)", CardCount: 0}
}

func readySession(t *testing.T, spread domain.Spread) *domain.Session {
	t.Helper()
	s := domain.NewSession()
	if err := s.Start(spread, "Tổng quan", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.ShuffleComplete(); err != nil {
		t.Fatalf("shuffle complete: %v", err)
	}
	return s
}

func TestSession_InitialState(t *testing.T) {
	s := domain.NewSession()
	if s.State != domain.StateInitial {
		t.Fatalf("expected initial state, got %s", s.State)
	}
}

func TestSession_StartClearsPriorState(t *testing.T) {
	s := readySession(t, threeCardSpread())
	if _, err := s.Select(0, domain.DrawnCard{Name: "The Fool"}); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.Err = "stale error"

	if err := s.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if err := s.Start(freestyleSpread(), "Tình yêu", "q"); err != nil {
		t.Fatalf("restart: %v", err)
	}

	if s.State != domain.StateShuffling {
		t.Errorf("expected shuffling, got %s", s.State)
	}
	if len(s.Selected) != 0 || len(s.Drawn) != 0 || s.Err != "" {
		t.Errorf("prior reading state not cleared: %+v", s)
	}
}

func TestSession_StartRejectedOutsideInitial(t *testing.T) {
	s := readySession(t, threeCardSpread())
	err := s.Start(threeCardSpread(), "Tổng quan", "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSession_SelectAutoCompletesFixedSpread(t *testing.T) {
	s := readySession(t, threeCardSpread())

	for i, index := range []int{0, 23, 50} {
		complete, err := s.Select(index, domain.DrawnCard{Name: "card"})
		if err != nil {
			t.Fatalf("select %d: %v", index, err)
		}
		wantComplete := i == 2
		if complete != wantComplete {
			t.Errorf("select %d: complete = %v, want %v", index, complete, wantComplete)
		}
	}
	if len(s.Selected) != 3 {
		t.Fatalf("expected 3 selections, got %d", len(s.Selected))
	}
}

func TestSession_SelectDuplicateIsNoOp(t *testing.T) {
	s := readySession(t, threeCardSpread())

	if _, err := s.Select(5, domain.DrawnCard{Name: "first"}); err != nil {
		t.Fatalf("select: %v", err)
	}
	complete, err := s.Select(5, domain.DrawnCard{Name: "second"})
	if err != nil {
		t.Fatalf("duplicate select: %v", err)
	}
	if complete {
		t.Error("duplicate select must not complete the spread")
	}
	if len(s.Selected) != 1 || len(s.Drawn) != 1 {
		t.Fatalf("selection changed by duplicate: %v", s.Selected)
	}
	if s.Drawn[0].Name != "first" {
		t.Errorf("drawn card re-rolled on duplicate select: %s", s.Drawn[0].Name)
	}
}

func TestSession_SelectNeverCompletesFreestyle(t *testing.T) {
	s := readySession(t, freestyleSpread())
	for index := range 10 {
		complete, err := s.Select(index, domain.DrawnCard{})
		if err != nil {
			t.Fatalf("select %d: %v", index, err)
		}
		if complete {
			t.Fatalf("freestyle select %d reported complete", index)
		}
	}
}

func TestSession_BeginInterpretationGuards(t *testing.T) {
	t.Run("freestyle requires a selection", func(t *testing.T) {
		s := readySession(t, freestyleSpread())
		if err := s.BeginInterpretation(); !errors.Is(err, domain.ErrEmptySelection) {
			t.Fatalf("expected ErrEmptySelection, got %v", err)
		}
		if _, err := s.Select(0, domain.DrawnCard{}); err != nil {
			t.Fatalf("select: %v", err)
		}
		if err := s.BeginInterpretation(); err != nil {
			t.Fatalf("expected begin to succeed with one card, got %v", err)
		}
	})

	t.Run("fixed spread requires full selection", func(t *testing.T) {
		s := readySession(t, threeCardSpread())
		if _, err := s.Select(0, domain.DrawnCard{}); err != nil {
			t.Fatalf("select: %v", err)
		}
		if err := s.BeginInterpretation(); !errors.Is(err, domain.ErrIncompleteSelection) {
			t.Fatalf("expected ErrIncompleteSelection, got %v", err)
		}
	})

	t.Run("second begin rejected while in flight", func(t *testing.T) {
		s := readySession(t, freestyleSpread())
		if _, err := s.Select(0, domain.DrawnCard{}); err != nil {
			t.Fatalf("select: %v", err)
		}
		if err := s.BeginInterpretation(); err != nil {
			t.Fatalf("begin: %v", err)
		}
		if err := s.BeginInterpretation(); !errors.Is(err, domain.ErrInterpretInFlight) {
			t.Fatalf("expected ErrInterpretInFlight, got %v", err)
		}
	})
}

func TestSession_FailInterpretationPreservesSelection(t *testing.T) {
	s := readySession(t, threeCardSpread())
	for _, index := range []int{0, 23, 50} {
		if _, err := s.Select(index, domain.DrawnCard{}); err != nil {
			t.Fatalf("select: %v", err)
		}
	}
	if err := s.BeginInterpretation(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.FailInterpretation("lỗi"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	if s.State != domain.StateReady {
		t.Errorf("expected ready after failure, got %s", s.State)
	}
	if s.Err != "lỗi" {
		t.Errorf("expected error message set, got %q", s.Err)
	}
	if len(s.Selected) != 3 {
		t.Errorf("selection not preserved: %v", s.Selected)
	}

	// The full selection allows an explicit retry.
	if err := s.BeginInterpretation(); err != nil {
		t.Fatalf("retry begin: %v", err)
	}
}

func TestSession_SelectAfterFailureKeepsRetryPossible(t *testing.T) {
	s := readySession(t, threeCardSpread())
	for _, index := range []int{0, 23, 50} {
		if _, err := s.Select(index, domain.DrawnCard{}); err != nil {
			t.Fatalf("select: %v", err)
		}
	}
	if err := s.BeginInterpretation(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.FailInterpretation("lỗi"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	// A further pick on the complete selection is ignored.
	complete, err := s.Select(60, domain.DrawnCard{Name: "extra"})
	if err != nil {
		t.Fatalf("select after failure: %v", err)
	}
	if complete {
		t.Error("ignored select must not report completion")
	}
	if len(s.Selected) != 3 || len(s.Drawn) != 3 {
		t.Fatalf("selection grew past the card count: %v", s.Selected)
	}

	if err := s.BeginInterpretation(); err != nil {
		t.Fatalf("retry begin: %v", err)
	}
}

func TestSession_CompleteInterpretation(t *testing.T) {
	s := readySession(t, freestyleSpread())
	if _, err := s.Select(3, domain.DrawnCard{Name: "The Star"}); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.BeginInterpretation(); err != nil {
		t.Fatalf("begin: %v", err)
	}

	cards := []domain.InterpretedCard{{Name: "The Star"}}
	if err := s.CompleteInterpretation(cards, "a summary"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.State != domain.StateRevealed {
		t.Errorf("expected revealed, got %s", s.State)
	}
	if s.Summary != "a summary" || len(s.Cards) != 1 {
		t.Errorf("results not recorded: %+v", s)
	}
	if s.Interpreting() {
		t.Error("token not released after completion")
	}
}

func TestSession_CardOfTheDayFlow(t *testing.T) {
	s := domain.NewSession()
	if err := s.BeginCardOfTheDay(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if s.State != domain.StateCardOfTheDay {
		t.Fatalf("expected card_of_the_day, got %s", s.State)
	}

	daily := domain.DailyReading{
		Card:           domain.InterpretedCard{Name: "The Sun"},
		Interpretation: "thông điệp",
		Date:           "2026-08-30",
	}
	if err := s.CompleteCardOfTheDay(daily); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.Daily == nil || s.Daily.Card.Name != "The Sun" {
		t.Errorf("daily reading not recorded: %+v", s.Daily)
	}
}

func TestSession_FailCardOfTheDayReturnsToInitial(t *testing.T) {
	s := domain.NewSession()
	if err := s.BeginCardOfTheDay(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.FailCardOfTheDay("lỗi"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if s.State != domain.StateInitial {
		t.Errorf("expected initial after failure, got %s", s.State)
	}
	if s.Err != "lỗi" {
		t.Errorf("expected error set, got %q", s.Err)
	}
}

func TestSession_BackClearsFlowState(t *testing.T) {
	s := readySession(t, threeCardSpread())
	if _, err := s.Select(0, domain.DrawnCard{}); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := s.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if s.State != domain.StateInitial {
		t.Errorf("expected initial, got %s", s.State)
	}
	if s.Spread.Name != "" || len(s.Selected) != 0 || s.Theme != "" || s.Question != "" {
		t.Errorf("flow state not cleared: %+v", s)
	}
}

func TestSession_BackRejectedWhileInterpreting(t *testing.T) {
	s := readySession(t, freestyleSpread())
	if _, err := s.Select(0, domain.DrawnCard{}); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.BeginInterpretation(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.Back(); !errors.Is(err, domain.ErrInterpretInFlight) {
		t.Fatalf("expected ErrInterpretInFlight, got %v", err)
	}
}

func TestSession_HistoryAndGlossaryNavigation(t *testing.T) {
	s := domain.NewSession()
	if err := s.ShowHistory(); err != nil {
		t.Fatalf("history: %v", err)
	}
	if s.State != domain.StateHistory {
		t.Fatalf("expected history, got %s", s.State)
	}
	if err := s.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}

	if err := s.ShowGlossary(); err != nil {
		t.Fatalf("glossary: %v", err)
	}
	if s.State != domain.StateGlossary {
		t.Fatalf("expected glossary, got %s", s.State)
	}

	// Navigation only starts from the initial screen.
	if err := s.ShowHistory(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := readySession(t, threeCardSpread())
	if _, err := s.Select(1, domain.DrawnCard{Name: "The Fool"}); err != nil {
		t.Fatalf("select: %v", err)
	}

	clone := s.Clone()
	clone.Selected[0] = 99
	clone.Drawn[0].Name = "mutated"

	if s.Selected[0] != 1 || s.Drawn[0].Name != "The Fool" {
		t.Error("clone shares backing storage with the session")
	}
}
