// Package repository stores the local booking audit trail in MySQL. The
// sentinel errors let handlers tell failure kinds apart without knowing
// about the database driver.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
