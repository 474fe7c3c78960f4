package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	snapshot := func(id string, frame int64) domain.SessionSnapshot {
		now := time.Now().UTC().Truncate(time.Second)
		return domain.SessionSnapshot{
			ID:        id,
			State:     domain.StateLive,
			Mode:      domain.ModePaced,
			Frame:     frame,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := snapshot(sessionID, 42)

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.ID, loaded.ID)
		assert.Equal(t, snap.State, loaded.State)
		assert.Equal(t, snap.Mode, loaded.Mode)
		assert.Equal(t, int64(42), loaded.Frame)
		assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, snapshot(sessionID, 7)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), loaded.Frame)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, snapshot(sessionID, 1))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, snapshot(id1, 0))
		_ = store.Save(ctx, snapshot(id2, 0))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
