package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svec-cse/efacilities-api/internal/models"
)

func TestMemoryOTPStoreRoundTrip(t *testing.T) {
	store := NewMemoryOTPStore(10 * time.Minute)
	ctx := context.Background()

	ch, err := store.Get(ctx, "24A81A0501@sves.org.in")
	require.NoError(t, err)
	assert.Nil(t, ch)

	require.NoError(t, store.Put(ctx, &models.OTPChallenge{
		Email:    "24A81A0501@sves.org.in",
		Code:     "123456",
		IssuedAt: time.Now(),
	}))

	ch, err = store.Get(ctx, "24A81A0501@sves.org.in")
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, "123456", ch.Code)

	require.NoError(t, store.Delete(ctx, "24A81A0501@sves.org.in"))
	ch, err = store.Get(ctx, "24A81A0501@sves.org.in")
	require.NoError(t, err)
	assert.Nil(t, ch)
}

func TestMemoryOTPStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryOTPStore(10 * time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.OTPChallenge{Email: "a@sves.org.in", Code: "111111"}))

	first, err := store.Get(ctx, "a@sves.org.in")
	require.NoError(t, err)
	first.Attempts = 99

	second, err := store.Get(ctx, "a@sves.org.in")
	require.NoError(t, err)
	assert.Zero(t, second.Attempts)
}

func TestMemoryOTPStorePutReplaces(t *testing.T) {
	store := NewMemoryOTPStore(10 * time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.OTPChallenge{Email: "a@sves.org.in", Code: "111111", Attempts: 2}))
	require.NoError(t, store.Put(ctx, &models.OTPChallenge{Email: "a@sves.org.in", Code: "222222"}))

	ch, err := store.Get(ctx, "a@sves.org.in")
	require.NoError(t, err)
	assert.Equal(t, "222222", ch.Code)
	assert.Zero(t, ch.Attempts)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryOTPStoreSweep(t *testing.T) {
	store := NewMemoryOTPStore(10 * time.Minute)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Put(ctx, &models.OTPChallenge{Email: "old@sves.org.in", IssuedAt: now.Add(-11 * time.Minute)}))
	require.NoError(t, store.Put(ctx, &models.OTPChallenge{Email: "fresh@sves.org.in", IssuedAt: now}))

	store.sweep(now)

	assert.Equal(t, 1, store.Len())
	ch, err := store.Get(ctx, "fresh@sves.org.in")
	require.NoError(t, err)
	assert.NotNil(t, ch)
}

func TestMemoryOTPStoreSweeperStopIsIdempotent(t *testing.T) {
	store := NewMemoryOTPStore(time.Minute)
	stop := store.StartSweeper(time.Millisecond)
	stop()
	stop()
}
