package database

import (
	_ "embed"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return Wrap("apply schema", err)
	}
	return nil
}
