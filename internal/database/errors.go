package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeUndefinedTable is the PostgreSQL SQLSTATE for a missing relation.
const codeUndefinedTable = "42P01"

// IsUndefinedTable reports whether err says a queried table does not exist.
// Errors that lost their *pgconn.PgError on the way (e.g. flattened by a proxy) are
// recognised by their message.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUndefinedTable
	}

	msg := err.Error()

	return strings.Contains(msg, "relation \"") && strings.Contains(msg, "does not exist")
}
