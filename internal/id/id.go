// Package id generates time-sortable run identifiers. ULIDs sort
// lexicographically by generation time, which keeps journal rows and
// SQLite indexes in run order.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string.
func New() string {
	return ulid.Make().String()
}
