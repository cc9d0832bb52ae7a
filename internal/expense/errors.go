package expense

import (
	"errors"

	"github.com/MrJamesThe3rd/spendtrack/internal/database"
)

var (
	// ErrStorageNotInitialized means the expenses table does not exist yet. Clients show a
	// one-time setup prompt for it instead of a generic failure.
	ErrStorageNotInitialized = errors.New("storage not initialized")

	ErrNotFound        = errors.New("expense not found")
	ErrInvalidDate     = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidMonth    = errors.New("invalid month, want YYYY-MM")
	ErrMissingCategory = errors.New("category is required")
	ErrMissingOwner    = errors.New("owner is required")
)

// normalize maps a missing-table failure to ErrStorageNotInitialized and returns every
// other error untouched.
func normalize(err error) error {
	if err == nil {
		return nil
	}

	if database.IsUndefinedTable(err) {
		return ErrStorageNotInitialized
	}

	return err
}
