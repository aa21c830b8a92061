// Package repository defines the persistence adapters of the booking
// core: the order store (MySQL and in-memory), the pending reservation
// store (Redis and in-memory) and the users table used for admin seeding.
// Sentinel values here allow higher layers to distinguish failure
// scenarios without importing driver packages.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL unique constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
