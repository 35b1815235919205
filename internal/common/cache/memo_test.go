package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"vehicle-finance-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payment struct {
	Monthly float64 `json:"monthly"`
}

func newMiniredisMemo(t *testing.T, ttl time.Duration) (*Memo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, ttl, logger.NewTestLogger(t)), mr
}

func TestKey_StableAndInputSensitive(t *testing.T) {
	a, err := Key("loan", 30000.0, "excellent", nil)
	require.NoError(t, err)
	b, err := Key("loan", 30000.0, "excellent", nil)
	require.NoError(t, err)
	c, err := Key("loan", 30000.0, "good", nil)
	require.NoError(t, err)
	d, err := Key("estimate", 30000.0, "excellent", nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Regexp(t, `^calc:loan:[0-9a-f]{16}$`, a)
}

func TestKey_Unencodable(t *testing.T) {
	_, err := Key("loan", make(chan int))
	assert.Error(t, err)
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	memo, mr := newMiniredisMemo(t, 10*time.Minute)
	ctx := context.Background()
	key, _ := Key("loan", 24000.0)

	calls := 0
	compute := func() (payment, error) {
		calls++
		return payment{Monthly: 447.43}, nil
	}

	v, hit, err := GetOrCompute(ctx, memo, key, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 447.43, v.Monthly)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	v, hit, err = GetOrCompute(ctx, memo, key, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 447.43, v.Monthly)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_ComputeErrorNotCached(t *testing.T) {
	memo, mr := newMiniredisMemo(t, time.Minute)
	key, _ := Key("loan", 1.0)

	_, _, err := GetOrCompute(context.Background(), memo, key, func() (payment, error) {
		return payment{}, errors.New("boom")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(key))
}

func TestGetOrCompute_CorruptEntryRecomputed(t *testing.T) {
	memo, mr := newMiniredisMemo(t, time.Minute)
	key, _ := Key("loan", 2.0)
	require.NoError(t, mr.Set(key, "not-json"))

	v, hit, err := GetOrCompute(context.Background(), memo, key, func() (payment, error) {
		return payment{Monthly: 10}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 10.0, v.Monthly)
}

func TestGetOrCompute_RedisReadErrorFallsBack(t *testing.T) {
	db, mock := redismock.NewClientMock()
	memo := New(db, time.Minute, logger.NewTestLogger(t))
	key, _ := Key("estimate", 60000.0)

	mock.ExpectGet(key).SetErr(errors.New("LOADING Redis is loading the dataset in memory"))

	v, hit, err := GetOrCompute(context.Background(), memo, key, func() (payment, error) {
		return payment{Monthly: 150}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 150.0, v.Monthly)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCompute_Disabled(t *testing.T) {
	v, hit, err := GetOrCompute(context.Background(), nil, "ignored", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, v)
}
