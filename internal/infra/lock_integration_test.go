//go:build integration

package infra

// Redis lease semantics against a real server.
// Run with: go test -tags integration ./internal/infra/... -v

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedisLocker(t *testing.T) *RedisFarmLocker {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := NewRedis(rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisFarmLocker(rdb)
}

func TestRedisFarmLockerExclusion(t *testing.T) {
	l := setupRedisLocker(t)
	ctx := context.Background()

	ok, release, err := l.TryLock(ctx, "caja:u1:finca", 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok2, _, err := l.TryLock(ctx, "caja:u1:finca", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok2)

	release()

	ok3, release3, err := l.TryLock(ctx, "caja:u1:finca", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok3)
	release3()
}

// A release arriving after the TTL expired must not delete the lease a
// successor acquired in the meantime.
func TestRedisFarmLockerReleaseTardioNoRobaLease(t *testing.T) {
	l := setupRedisLocker(t)
	ctx := context.Background()

	ok, staleRelease, err := l.TryLock(ctx, "caja:u1:finca", 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	// Let the first lease expire, then hand the farm to a successor
	time.Sleep(300 * time.Millisecond)
	ok2, release2, err := l.TryLock(ctx, "caja:u1:finca", 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok2)
	defer release2()

	// The stale holder's release fires late: the successor keeps its lease
	staleRelease()

	ok3, _, err := l.TryLock(ctx, "caja:u1:finca", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok3, "el lease del sucesor debe seguir vigente")
}
