package pg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyConnectionString(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrEmptyConnectionString)
}

func TestConnect_InvalidDSN(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), Config{
		ConnectionString: "://not-a-dsn",
		RetryAttempts:    1,
	})
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"other pg error", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := migrations.ReadDir("migrations")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
}

// testStore connects to the database named by PG_TEST_CONN_URL, applies
// migrations, and truncates the tables so each test starts empty. Tests
// using it are skipped when the variable is unset.
func testStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("PG_TEST_CONN_URL")
	if dsn == "" {
		t.Skip("PG_TEST_CONN_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, Config{ConnectionString: dsn, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `TRUNCATE users, apps, stats RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return NewStore(pool)
}

func TestEnsureAdmin(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	t.Run("first boot creates the admin", func(t *testing.T) {
		admin, err := store.EnsureAdmin(ctx, "server-key")
		require.NoError(t, err)
		assert.Equal(t, "server-key", admin.Key)

		again, err := store.EnsureAdmin(ctx, "server-key")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, again.ID)
	})

	t.Run("rotation to a fresh key moves the oldest account", func(t *testing.T) {
		admin, err := store.EnsureAdmin(ctx, "rotated-key")
		require.NoError(t, err)
		assert.Equal(t, "rotated-key", admin.Key)

		_, err = store.UserByKey(ctx, "server-key")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("rotation to another user's key promotes that user", func(t *testing.T) {
		other, err := store.CreateUser(ctx, "user-key", "User")
		require.NoError(t, err)

		admin, err := store.EnsureAdmin(ctx, "user-key")
		require.NoError(t, err)
		assert.Equal(t, other.ID, admin.ID)

		// The previous holder keeps its key untouched.
		prev, err := store.UserByKey(ctx, "rotated-key")
		require.NoError(t, err)
		assert.NotEqual(t, other.ID, prev.ID)
	})
}
