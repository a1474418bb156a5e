package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist. Handlers
// map it to 404; everything else is a server fault.
var ErrNotFound = errors.New("record not found")

// Store groups the entity operations over one database handle. Each method
// is a short-lived, self-contained operation; multi-statement work runs
// inside an explicit transaction.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

func asStoreErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
