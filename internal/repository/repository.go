package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by every repository when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (SKU, email) is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

// Set bundles one implementation of every repository so the composition root can
// swap storage backends in one place.
type Set struct {
	Products      ProductRepository
	Transactions  TransactionRepository
	Audits        AuditRepository
	Notifications NotificationRepository
	Users         UserRepository
}

// NewGormSet returns the PostgreSQL-backed repositories.
func NewGormSet(db *gorm.DB) Set {
	return Set{
		Products:      NewProductRepository(db),
		Transactions:  NewTransactionRepository(db),
		Audits:        NewAuditRepository(db),
		Notifications: NewNotificationRepository(db),
		Users:         NewUserRepository(db),
	}
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func normalizePage(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}
