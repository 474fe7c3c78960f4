package ports

import (
	"context"

	"github.com/aretw0/framecast/pkg/domain"
)

// SessionStore mirrors session snapshots so that other processes (CLI,
// replicas) can inspect active sessions. It never stores frame pixels.
type SessionStore interface {
	// Save upserts the snapshot of a session.
	Save(ctx context.Context, snap domain.SessionSnapshot) error

	// Load retrieves a snapshot.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (domain.SessionSnapshot, error)

	// Delete removes a snapshot. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
