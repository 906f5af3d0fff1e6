package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

// Fixed keys under which the two logical records live.
const (
	keyReadings  = "tarotReadings"
	keyDailyCard = "dailyCardReading"
)

// Store implements ports.ReadingStore on the kv table. Every operation
// reads, modifies, and rewrites an entire serialized collection; the last
// writer wins. A missing or corrupt blob decodes as the empty collection,
// never as an error.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for tests exercising the date rollover.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func load[T any](ctx context.Context, s *Store, key string) (T, error) {
	var out T
	var rec kvRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(rec.Value, &out); err != nil {
		// Corrupt storage reads back as the empty default, discarding
		// anything a partial decode filled in.
		s.logger.Warn("corrupt blob, treating as empty", "key", key, "error", err)
		var zero T
		return zero, nil
	}
	return out, nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&kvRecord{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ListReadings returns all saved readings, newest first.
func (s *Store) ListReadings(ctx context.Context) ([]domain.Reading, error) {
	return load[[]domain.Reading](ctx, s, keyReadings)
}

// AppendReading prepends r to the collection.
func (s *Store) AppendReading(ctx context.Context, r domain.Reading) error {
	readings, err := s.ListReadings(ctx)
	if err != nil {
		return err
	}
	updated := append([]domain.Reading{r}, readings...)
	return s.save(ctx, keyReadings, updated)
}

// DeleteReading removes exactly the reading with the given id.
func (s *Store) DeleteReading(ctx context.Context, id int64) error {
	readings, err := s.ListReadings(ctx)
	if err != nil {
		return err
	}
	kept := readings[:0]
	for _, r := range readings {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(readings) {
		return domain.ErrReadingNotFound
	}
	return s.save(ctx, keyReadings, kept)
}

// UpdateNotes replaces the notes field of the reading with the given id.
func (s *Store) UpdateNotes(ctx context.Context, id int64, notes string) error {
	readings, err := s.ListReadings(ctx)
	if err != nil {
		return err
	}
	for i := range readings {
		if readings[i].ID == id {
			readings[i].Notes = notes
			return s.save(ctx, keyReadings, readings)
		}
	}
	return domain.ErrReadingNotFound
}

// GetDailyReading returns the stored daily reading only when its date is
// today in the local calendar; a stale or absent slot reports nil.
func (s *Store) GetDailyReading(ctx context.Context) (*domain.DailyReading, error) {
	daily, err := load[domain.DailyReading](ctx, s, keyDailyCard)
	if err != nil {
		return nil, err
	}
	if daily.Date != s.now().Format("2006-01-02") {
		return nil, nil
	}
	return &daily, nil
}

// SetDailyReading replaces the single daily-card slot.
func (s *Store) SetDailyReading(ctx context.Context, d domain.DailyReading) error {
	return s.save(ctx, keyDailyCard, d)
}
