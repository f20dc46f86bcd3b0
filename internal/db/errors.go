package db

import "errors"

// ErrKeyNotFound is returned by KVStore.Get for missing keys.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names attached to errors for diagnostics. Redis ops use the command name.
const (
	OpPing    = "PING"
	OpGet     = "GET"
	OpSet     = "SET"
	OpDel     = "DEL"
	OpFetch   = "fetch_by_date_range"
	OpCount   = "count"
	OpInsert  = "insert"
	OpMigrate = "migrate"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
