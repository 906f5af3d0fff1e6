package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minhthuy266/gemini-tarot/internal/domain"
	"github.com/minhthuy266/gemini-tarot/internal/ports"
)

const readingDateFormat = "02/01/2006 15:04"

// User-facing failure messages, matching the original Vietnamese UI.
const (
	msgInterpretFailed = "Không thể nhận diễn giải từ Gemini API. Vui lòng thử lại."
	msgDailyFailed     = "Không thể lấy Lá Bài Của Ngày. Vui lòng thử lại."
)

// TarotService drives the reading flow: it owns the session registry and
// orchestrates draws, interpretation calls, and persistence.
//
// All session mutations happen under mu. The interpretation call itself
// runs outside the lock; the session's single-slot token keeps a second
// request from starting while one is in flight.
type TarotService struct {
	catalog     ports.Catalog
	interpreter ports.Interpreter
	store       ports.ReadingStore
	rng         domain.RNG
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func NewTarotService(catalog ports.Catalog, interp ports.Interpreter, store ports.ReadingStore, rng domain.RNG, logger *slog.Logger) *TarotService {
	return &TarotService{
		catalog:     catalog,
		interpreter: interp,
		store:       store,
		rng:         rng,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*domain.Session),
	}
}

// WithClock overrides the clock, for tests.
func (s *TarotService) WithClock(now func() time.Time) *TarotService {
	s.now = now
	return s
}

// CreateSession registers a fresh session and returns its id.
func (s *TarotService) CreateSession() (string, domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	sess := domain.NewSession()
	s.sessions[id] = sess
	return id, sess.Clone()
}

// Session returns a snapshot of the identified session.
func (s *TarotService) Session(id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.locked(id)
	if err != nil {
		return domain.Session{}, err
	}
	return sess.Clone(), nil
}

// locked looks up a session. Callers must hold mu.
func (s *TarotService) locked(id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// transition applies fn to the session under the lock and returns the
// resulting snapshot.
func (s *TarotService) transition(id string, fn func(*domain.Session) error) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.locked(id)
	if err != nil {
		return domain.Session{}, err
	}
	if err := fn(sess); err != nil {
		return sess.Clone(), err
	}
	return sess.Clone(), nil
}

// StartReading begins a new reading with the named spread.
func (s *TarotService) StartReading(id, spreadName, theme, question string) (domain.Session, error) {
	spread, err := s.catalog.SpreadByName(spreadName)
	if err != nil {
		return domain.Session{}, err
	}
	return s.transition(id, func(sess *domain.Session) error {
		return sess.Start(spread, theme, question)
	})
}

// CompleteShuffle signals that shuffling is done and cards can be picked.
func (s *TarotService) CompleteShuffle(id string) (domain.Session, error) {
	return s.transition(id, func(sess *domain.Session) error {
		return sess.ShuffleComplete()
	})
}

// GoBack returns the session to the initial screen.
func (s *TarotService) GoBack(id string) (domain.Session, error) {
	return s.transition(id, func(sess *domain.Session) error {
		return sess.Back()
	})
}

// ShowHistory navigates to the reading history screen.
func (s *TarotService) ShowHistory(id string) (domain.Session, error) {
	return s.transition(id, func(sess *domain.Session) error {
		return sess.ShowHistory()
	})
}

// ShowGlossary navigates to the glossary screen.
func (s *TarotService) ShowGlossary(id string) (domain.Session, error) {
	return s.transition(id, func(sess *domain.Session) error {
		return sess.ShowGlossary()
	})
}

// SelectCard records one card pick. When a fixed-size spread reaches its
// full count this automatically triggers the interpretation.
func (s *TarotService) SelectCard(ctx context.Context, id string, index int) (domain.Session, error) {
	s.mu.Lock()
	sess, err := s.locked(id)
	if err != nil {
		s.mu.Unlock()
		return domain.Session{}, err
	}

	card, err := domain.Draw(s.catalog.Cards(), index, s.rng)
	if err != nil {
		snap := sess.Clone()
		s.mu.Unlock()
		return snap, err
	}

	complete, err := sess.Select(index, card)
	if err != nil || !complete {
		snap := sess.Clone()
		s.mu.Unlock()
		return snap, err
	}
	s.mu.Unlock()

	return s.FinalizeReading(ctx, id)
}

// FinalizeReading runs the interpretation for the current selection. For
// freestyle this is the explicit finish; for fixed spreads it doubles as
// the retry path after a failed auto-triggered request.
func (s *TarotService) FinalizeReading(ctx context.Context, id string) (domain.Session, error) {
	s.mu.Lock()
	sess, err := s.locked(id)
	if err != nil {
		s.mu.Unlock()
		return domain.Session{}, err
	}
	if err := sess.BeginInterpretation(); err != nil {
		snap := sess.Clone()
		s.mu.Unlock()
		return snap, err
	}

	in := ports.SpreadInput{
		Spread:    sess.Spread,
		Positions: domain.ResolvePositions(sess.Spread, len(sess.Drawn)),
		Theme:     sess.Theme,
		Question:  sess.Question,
		Cards:     slices.Clone(sess.Drawn),
	}
	reading := domain.Reading{
		Theme:    sess.Theme,
		Spread:   sess.Spread.Name,
		Question: sess.Question,
	}
	s.mu.Unlock()

	out, err := s.interpreter.InterpretSpread(ctx, in)
	if err == nil {
		reading.ID = s.now().UnixMilli()
		reading.Date = s.now().Format(readingDateFormat)
		reading.Cards = out.Cards
		reading.Summary = out.Summary
		if perr := s.store.AppendReading(ctx, reading); perr != nil {
			err = fmt.Errorf("persist reading: %w", perr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.ErrorContext(ctx, "interpretation failed", "session_id", id, "error", err)
		_ = sess.FailInterpretation(msgInterpretFailed)
		return sess.Clone(), err
	}
	_ = sess.CompleteInterpretation(out.Cards, out.Summary)
	return sess.Clone(), nil
}

// CardOfTheDay shows the daily card: the cached reading when one exists
// for today, otherwise one fresh draw interpreted and persisted.
func (s *TarotService) CardOfTheDay(ctx context.Context, id string) (domain.Session, error) {
	s.mu.Lock()
	sess, err := s.locked(id)
	if err != nil {
		s.mu.Unlock()
		return domain.Session{}, err
	}
	if err := sess.BeginCardOfTheDay(); err != nil {
		snap := sess.Clone()
		s.mu.Unlock()
		return snap, err
	}
	s.mu.Unlock()

	cached, err := s.store.GetDailyReading(ctx)
	if err != nil {
		// Unreadable storage counts as absent, never fatal.
		s.logger.WarnContext(ctx, "daily card lookup failed", "error", err)
	}
	if cached != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		_ = sess.CompleteCardOfTheDay(*cached)
		return sess.Clone(), nil
	}

	// Only a cache miss costs a draw.
	s.mu.Lock()
	card := domain.DrawRandom(s.catalog.Cards(), s.rng)
	s.mu.Unlock()

	out, err := s.interpreter.InterpretCardOfDay(ctx, card)
	var daily domain.DailyReading
	if err == nil {
		daily = domain.DailyReading{
			Card:           out.Card,
			Interpretation: out.Interpretation,
			Date:           s.now().Format("2006-01-02"),
		}
		if perr := s.store.SetDailyReading(ctx, daily); perr != nil {
			err = fmt.Errorf("persist daily card: %w", perr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.ErrorContext(ctx, "card of the day failed", "session_id", id, "error", err)
		_ = sess.FailCardOfTheDay(msgDailyFailed)
		return sess.Clone(), err
	}
	_ = sess.CompleteCardOfTheDay(daily)
	return sess.Clone(), nil
}

// ListReadings returns the saved readings, newest first.
func (s *TarotService) ListReadings(ctx context.Context) ([]domain.Reading, error) {
	return s.store.ListReadings(ctx)
}

// DeleteReading removes one saved reading by id.
func (s *TarotService) DeleteReading(ctx context.Context, id int64) error {
	return s.store.DeleteReading(ctx, id)
}

// UpdateNotes replaces the journal notes on one saved reading.
func (s *TarotService) UpdateNotes(ctx context.Context, id int64, notes string) error {
	return s.store.UpdateNotes(ctx, id, notes)
}

// Spreads returns the spread templates.
func (s *TarotService) Spreads() []domain.Spread {
	return s.catalog.Spreads()
}

// Cards returns the 78 card names in deck order.
func (s *TarotService) Cards() []string {
	return s.catalog.Cards()
}

// CardDetails fetches glossary details for one canonical card name.
func (s *TarotService) CardDetails(ctx context.Context, name string) (ports.CardDetails, error) {
	if !slices.Contains(s.catalog.Cards(), name) {
		return ports.CardDetails{}, domain.ErrCardNotFound
	}
	return s.interpreter.CardDetails(ctx, name)
}
