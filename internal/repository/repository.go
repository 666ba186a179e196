package repository

import (
	"database/sql"
	"fmt"
)

// requireRowsAffected maps zero-row writes to sql.ErrNoRows so services can
// translate them into NOT_FOUND.
func requireRowsAffected(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s not found: %w", entity, sql.ErrNoRows)
	}
	return nil
}
