package persistence

import (
	"context"

	"github.com/hospos/backend/internal/domain/banking"
	"gorm.io/gorm"
)

// GormSessionManager implements banking.SessionManager on top of GORM
// transactions. The banking.Session handed to callbacks is a *gorm.DB bound
// to the transaction.
type GormSessionManager struct {
	db *gorm.DB
}

// NewGormSessionManager creates a new GormSessionManager
func NewGormSessionManager(db *gorm.DB) *GormSessionManager {
	return &GormSessionManager{db: db}
}

// RunInSession executes fn inside a database transaction. A returned error
// rolls the transaction back.
func (m *GormSessionManager) RunInSession(ctx context.Context, fn func(session banking.Session) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

// sessionDB resolves an opaque banking.Session to a *gorm.DB, falling back
// to the repository's own connection when no session is supplied.
func sessionDB(session banking.Session, fallback *gorm.DB) *gorm.DB {
	if tx, ok := session.(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback
}

var _ banking.SessionManager = (*GormSessionManager)(nil)
