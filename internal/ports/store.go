package ports

import (
	"context"

	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

// ReadingStore persists completed readings and the card of the day. The
// reading collection is kept newest first; every mutation is a whole-blob
// read-modify-write with last-writer-wins semantics, and a corrupt blob
// reads back as the empty collection.
type ReadingStore interface {
	ListReadings(ctx context.Context) ([]domain.Reading, error)
	// AppendReading prepends r so the newest reading lists first.
	AppendReading(ctx context.Context, r domain.Reading) error
	// DeleteReading removes exactly the reading with the given id, or
	// returns domain.ErrReadingNotFound.
	DeleteReading(ctx context.Context, id int64) error
	// UpdateNotes replaces the notes field of the reading with the given
	// id, or returns domain.ErrReadingNotFound.
	UpdateNotes(ctx context.Context, id int64, notes string) error

	// GetDailyReading returns the stored daily reading only when its date
	// is today in the local calendar; otherwise it reports absent (nil).
	GetDailyReading(ctx context.Context) (*domain.DailyReading, error)
	SetDailyReading(ctx context.Context, d domain.DailyReading) error
}
