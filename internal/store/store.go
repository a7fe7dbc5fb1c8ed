// Package store persists credit balances and search history over database/sql.
package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/versefinder/versefinder/internal/database"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEntryNotFound   = errors.New("history entry not found")
)

// Store implements the credit ledger and the history recorder.
type Store struct {
	db      *sql.DB
	dialect database.Dialect
	now     func() time.Time
	newID   func() string
}

type Option func(*Store)

// WithClock overrides the source of server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new history entry ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(db *sql.DB, dialect database.Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current server time at the precision both drivers store.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
