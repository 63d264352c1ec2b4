// Package locking adds row locks to queries on dialects that support them.
// SQLite has no row-level locks; it serialises writers on the database file,
// so the clause is left out there.
package locking

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate appends FOR UPDATE on Postgres.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() != "postgres" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
