package file

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
)

func newTestRepository(t *testing.T) repository.UserRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.json")

	return NewUserRepository(NewStoreAtPath(path))
}

func TestUserRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	alice := &entity.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash-a"}
	require.NoError(t, repo.Create(ctx, alice))
	assert.Equal(t, int64(1), alice.ID)

	bob := &entity.User{Username: "bob", Email: "b@x.com", PasswordHash: "hash-b"}
	require.NoError(t, repo.Create(ctx, bob))
	assert.Equal(t, int64(2), bob.ID)

	assert.False(t, alice.CreatedAt.IsZero())
	assert.False(t, alice.UpdatedAt.IsZero())
}

func TestUserRepository_CreateRejectsDuplicateUsername(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "alice", Email: "a@x.com"}))

	err := repo.Create(ctx, &entity.User{Username: "alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestUserRepository_FindByUsername(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}))

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, "a@x.com", found.Email)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_FindByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	alice := &entity.User{Username: "alice", Email: "a@x.com"}
	require.NoError(t, repo.Create(ctx, alice))

	found, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_UpdateReplacesRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	alice := &entity.User{Username: "alice", Email: "a@x.com", PasswordHash: "old-hash"}
	require.NoError(t, repo.Create(ctx, alice))

	alice.PasswordHash = "new-hash"
	require.NoError(t, repo.Update(ctx, alice))

	found, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)
}

func TestUserRepository_UpdateUnknownUser(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Update(context.Background(), &entity.User{ID: 42, Username: "ghost"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	first := NewUserRepository(NewStoreAtPath(path))
	require.NoError(t, first.Create(ctx, &entity.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}))

	// A fresh repository over the same file sees the record.
	second := NewUserRepository(NewStoreAtPath(path))
	found, err := second.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.ID)
}

func TestUserRepository_ConcurrentCreateKeepsUsernameUnique(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const attempts = 16

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(ctx, &entity.User{Username: "alice", Email: "a@x.com"})
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, repository.ErrUserExists):
			conflicted++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}

func TestStore_LoadAllMissingFile(t *testing.T) {
	store := NewStoreAtPath(filepath.Join(t.TempDir(), "absent.json"))

	records, err := store.LoadAll()
	assert.NoError(t, err)
	assert.Empty(t, records)
}
