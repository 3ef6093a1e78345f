package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	require.NoError(t, err)
	return fs
}

func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		s := New()
		s.SetUser(7, "amal", "buyer")
		s.AddFlash(FlashSuccess, "hello")
		s.ExpiresAt = time.Now().Add(time.Minute)
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, uint(7), got.UserID)
		assert.Equal(t, "amal", got.Username)
		assert.Equal(t, "buyer", got.Role)
		assert.Equal(t, []Flash{{Category: FlashSuccess, Message: "hello"}}, got.Flashes)
		assert.False(t, got.Dirty())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, New().ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non uuid id", func(t *testing.T) {
		_, err := store.Get(ctx, "../../etc/passwd")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := New()
		s.ExpiresAt = time.Now().Add(time.Minute)
		require.NoError(t, store.Save(ctx, s))
		require.NoError(t, store.Delete(ctx, s.ID))
		require.NoError(t, store.Delete(ctx, s.ID))

		_, err := store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		s := New()
		s.ExpiresAt = time.Now().Add(-time.Second)
		require.NoError(t, store.Save(ctx, s))

		_, err := store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFileStore(t *testing.T) {
	testStoreContract(t, newFileStore(t))
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	testStoreContract(t, store)
}

func TestRedisStore_KeyExpiresWithSession(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	s := New()
	s.ExpiresAt = time.Now().Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists(utils.SessionKey(s.ID)))

	mr.FastForward(31 * time.Minute)
	assert.False(t, mr.Exists(utils.SessionKey(s.ID)))
}

func TestFileStore_Purge(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	live := New()
	live.ExpiresAt = time.Now().Add(time.Minute)
	require.NoError(t, store.Save(ctx, live))

	dead := New()
	dead.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Save(ctx, dead))

	corrupt := New().ID
	require.NoError(t, os.WriteFile(store.path(corrupt), []byte("{not json"), 0o600))

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.Get(ctx, live.ID)
	assert.NoError(t, err)
	_, err = os.Stat(store.path(dead.ID))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_SaveRejectsForeignID(t *testing.T) {
	store := newFileStore(t)
	err := store.Save(context.Background(), &Session{ID: "../escape", ExpiresAt: time.Now().Add(time.Minute)})
	assert.Error(t, err)
}
