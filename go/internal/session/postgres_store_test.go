package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/leagueconsole/go/internal/dbconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInetFromAddr(t *testing.T) {
	v4 := inetFromAddr("192.168.1.10:52311")
	require.True(t, v4.Valid)
	assert.Equal(t, "192.168.1.10/32", v4.IPNet.String())

	v6 := inetFromAddr("[::1]:8080")
	require.True(t, v6.Valid)
	assert.Equal(t, "::1/128", v6.IPNet.String())

	assert.False(t, inetFromAddr("localhost:8080").Valid)
	assert.False(t, inetFromAddr("").Valid)
}

func TestPostgresStore(t *testing.T) {
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set; skipping Postgres session store test")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbconfig.NewConfigFromEnv().DSN())
	require.NoError(t, err)
	defer pool.Close()

	sealer, err := NewSealer("test-secret")
	require.NoError(t, err)

	table := "console_sessions_test_" + uuid.NewString()[:8]
	store := NewPostgresStore(pool, sealer, table)
	require.NoError(t, store.EnsureSchema(ctx))
	defer pool.Exec(ctx, "DROP TABLE "+store.table)

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
	s := &Session{
		ID:          uuid.New(),
		Credentials: creds,
		RemoteAddr:  "10.0.0.7",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		ExpiresAt:   &expires,
	}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, creds, got.Credentials)
	assert.Equal(t, "10.0.0.7", got.RemoteAddr)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, expires.Equal(*got.ExpiresAt))

	var stored string
	require.NoError(t, pool.QueryRow(ctx, "SELECT password FROM "+store.table+" WHERE id = $1", s.ID).Scan(&stored))
	assert.NotEqual(t, creds.Password, stored)

	n, err := store.DeleteExpired(ctx, expires.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, s.ID), ErrNotFound)
}
