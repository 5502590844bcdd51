// Package store is the durable key/value layer of the application — the
// client-scoped analog of a browser's localStorage. Each key is an
// independent slot holding one serialized snapshot; there is no
// cross-slot transactionality and the store performs no retries.
package store

import "context"

// The three slots the session layer uses. Each is independent.
const (
	KeyUser        = "user"        // serialized session envelope, absent when signed out
	KeyEnrollments = "enrollments" // serialized ordered course-ID list
	KeyCourses     = "courses"     // serialized authored-course list (best-effort only)
)

// Store is the persistence contract.
//
// Get returns (nil, false, nil) when the key is absent. Callers must treat
// a read error the same as absence — the session layer resets the whole
// store rather than operate on partially readable state. Write failures are
// recoverable: the in-memory value stays authoritative.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
