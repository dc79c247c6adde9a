package tariff

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrMissingTitle       = errors.New("tariff title is required")
	ErrNegativeSessions   = errors.New("tariff session count cannot be negative")
	ErrNegativePriceCents = errors.New("tariff price cannot be negative")
)

// Tariff is a read-only catalog entry; the catalog itself is maintained
// outside this service.
type Tariff struct {
	id           uuid.UUID
	title        string
	duration     Duration
	sessionCount int
	priceCents   int64
}

func NewTariff(id uuid.UUID, title, durationRaw string, sessionCount int, priceCents int64) (*Tariff, error) {
	if title == "" {
		return nil, ErrMissingTitle
	}
	if sessionCount < 0 {
		return nil, ErrNegativeSessions
	}
	if priceCents < 0 {
		return nil, ErrNegativePriceCents
	}

	return &Tariff{
		id:           id,
		title:        title,
		duration:     ParseDuration(durationRaw),
		sessionCount: sessionCount,
		priceCents:   priceCents,
	}, nil
}

func (t *Tariff) ID() uuid.UUID      { return t.id }
func (t *Tariff) Title() string      { return t.title }
func (t *Tariff) Duration() Duration { return t.duration }
func (t *Tariff) SessionCount() int  { return t.sessionCount }
func (t *Tariff) PriceCents() int64  { return t.priceCents }
