package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
)

var errAbort = errors.New("abort")

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	store := New()
	ctx := context.Background()

	inTx := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- store.WithTx(ctx, func(stores repository.Stores) error {
			if err := stores.Workspaces().Create(ctx, models.Workspace{ID: "tx-ws", Name: "Draft"}); err != nil {
				return err
			}
			close(inTx)
			<-release
			return errAbort
		})
	}()

	<-inTx
	require.NoError(t, store.Workspaces().Create(ctx, models.Workspace{ID: "w1", Name: "Team"}))
	assert.Equal(t, 2, store.Counts().Workspaces)
	close(release)

	require.ErrorIs(t, <-done, errAbort)

	_, err := store.Workspaces().GetByID(ctx, "w1")
	require.NoError(t, err)
	_, err = store.Workspaces().GetByID(ctx, "tx-ws")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRollbackRestoresTouchedRows(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, models.User{ID: "u1", Email: "ann@x.com"}))
	require.NoError(t, store.Sessions().Create(ctx, models.Session{ID: "s1", TokenHash: "h1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Workspaces().Create(ctx, models.Workspace{ID: "w1", Name: "Team"}))

	err := store.WithTx(ctx, func(stores repository.Stores) error {
		require.NoError(t, stores.Users().SetVerificationCode(ctx, "u1", "ABC123", time.Now().Add(time.Hour)))
		require.NoError(t, stores.Sessions().DeleteByTokenHash(ctx, "h1"))
		require.NoError(t, stores.Workspaces().Update(ctx, models.Workspace{ID: "w1", Name: "Renamed"}))
		require.NoError(t, stores.Workspaces().Update(ctx, models.Workspace{ID: "w1", Name: "Renamed again"}))
		require.NoError(t, stores.Categories().Create(ctx, models.Category{ID: "c1", WorkspaceID: "w1", Name: "Work"}))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	user, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, user.VerificationCode)

	_, err = store.Sessions().FindByTokenHash(ctx, "h1")
	require.NoError(t, err)

	ws, err := store.Workspaces().GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "Team", ws.Name)

	assert.Equal(t, 0, store.Counts().Categories)
}

func TestCommittedTransactionKeepsWrites(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.WithTx(ctx, func(stores repository.Stores) error {
		return stores.Workspaces().Create(ctx, models.Workspace{ID: "w1", Name: "Team"})
	}))
	assert.Equal(t, 1, store.Counts().Workspaces)
}

func TestInvitationConsumeAndRevoke(t *testing.T) {
	store := New()
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	invitation := func(id string) models.Invitation {
		return models.Invitation{
			ID:          id,
			WorkspaceID: "w1",
			Email:       "Bob@x.com",
			Role:        models.RoleEditor,
			InvitedBy:   "u1",
			ExpiresAt:   now.Add(time.Hour),
		}
	}
	require.NoError(t, store.Invitations().Create(ctx, invitation("i1")))
	require.NoError(t, store.Invitations().Create(ctx, invitation("i2")))
	require.NoError(t, store.Invitations().Create(ctx, invitation("i3")))
	assert.ErrorIs(t, store.Invitations().Create(ctx, invitation("i1")), repository.ErrConflict)

	assert.ErrorIs(t, store.Invitations().Consume(ctx, "w2", "i1", now), repository.ErrNotFound)
	require.NoError(t, store.Invitations().Consume(ctx, "w1", "i1", now))
	assert.ErrorIs(t, store.Invitations().Consume(ctx, "w1", "i1", now), repository.ErrNotFound)

	assert.ErrorIs(t, store.Invitations().Consume(ctx, "w1", "i2", now.Add(2*time.Hour)), repository.ErrNotFound)

	n, err := store.Invitations().RevokePending(ctx, "w1", "bob@X.com", now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.ErrorIs(t, store.Invitations().Consume(ctx, "w1", "i3", now), repository.ErrNotFound)
}
