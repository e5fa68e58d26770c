// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the form flows to distinguish between different failure
// scenarios without looking at driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrTourNotFound is returned when a tour cannot be found by id or slug.
var ErrTourNotFound = errors.New("tour not found")

// ErrBookingNotFound is returned when a booking cannot be found by id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicate signals a unique key violation, such as a tour slug or a
// newsletter email that already exists.  Handlers translate it into 409,
// the newsletter flow into an "already subscribed" outcome.
var ErrDuplicate = errors.New("duplicate entry")

// ErrNotConfirmed is returned by destructive operations that were called
// without an explicit confirmation.
var ErrNotConfirmed = errors.New("confirmation required")

// mysqlDuplicateEntry is the server error number for ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a MySQL unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound maps sql.ErrNoRows to the given sentinel and passes other
// errors through.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
