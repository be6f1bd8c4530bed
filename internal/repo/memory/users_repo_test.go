package memory

import (
	"context"
	"testing"

	"github.com/geocoder89/notehub/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepo_CreateAndGetByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	created, err := repo.Create(ctx, "alice", "alice@x.com", "hash")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	_, err := repo.Create(ctx, "alice", "alice@x.com", "hash")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "imposter", "alice@x.com", "hash2")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.Equal(t, 1, repo.Count("alice@x.com"))
}

func TestUsersRepo_UnknownEmail(t *testing.T) {
	repo := NewUsersRepo()

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
