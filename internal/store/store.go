// Package store is the persistence gateway: one method set per entity,
// every query scoped by the owning user, no business logic beyond
// filter/sort composition and field validation.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrInvalid = errors.New("invalid input")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
