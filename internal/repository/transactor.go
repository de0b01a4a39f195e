package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor opens a unit of work. Every *Tx repository method called from fn
// must receive the tx handed to fn; returning an error from fn rolls back all of it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct{ db *gorm.DB }

func NewTransactor(db *gorm.DB) Transactor { return &gormTransactor{db: db} }

func (t *gormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
