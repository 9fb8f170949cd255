package helper

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate adds SELECT ... FOR UPDATE on postgres. SQLite serializes
// writers on its own and rejects the clause.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
