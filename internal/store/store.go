// Package store is the data-access layer for checks, notification channels
// and the alert delivery queue. CRUD traffic goes through the gorm chain
// API in the handlers; the monitoring hot paths in this package use raw SQL
// because they depend on Postgres interval arithmetic and row-locking
// semantics (FOR UPDATE SKIP LOCKED).
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row vanished between read and write, or a
// ping key matched no live check.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *gorm.DB

	// now is swapped out in tests.
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// DB exposes the underlying handle for the CRUD handlers.
func (s *Store) DB() *gorm.DB {
	return s.db
}
