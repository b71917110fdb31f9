package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.failGet != nil {
		cmd.SetErr(m.failGet)
		return cmd
	}
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := m.data[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	cmd.SetVal(true)
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			delete(m.ttls, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestStore_GetMissingKeyIsEmpty(t *testing.T) {
	s := &Store{cmd: newMockCmdable()}
	v, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestStore_SetNXKeepsFirstValue(t *testing.T) {
	mock := newMockCmdable()
	s := &Store{cmd: mock}
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "k", "first", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetNX(ctx, "k", "second", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.Equal(t, time.Hour, mock.ttls["k"])
}

func TestStore_SetOverwritesReservationAndDelReleases(t *testing.T) {
	mock := newMockCmdable()
	s := &Store{cmd: mock}
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "k", "pending", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Set(ctx, "k", "done", time.Hour))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Equal(t, time.Hour, mock.ttls["k"])

	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "k"))
	ok, err = s.SetNX(ctx, "k", "again", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_GetWrapsErrors(t *testing.T) {
	mock := newMockCmdable()
	mock.failGet = errors.New("connection refused")
	_, err := (&Store{cmd: mock}).Get(context.Background(), "k")
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_IdempotencyKey(t *testing.T) {
	s := &Store{}
	assert.Equal(t, "shopdb:idempotency:7|POST|/api/products/sell:abc", s.IdempotencyKey("7|POST|/api/products/sell", "abc"))
	assert.NoError(t, s.Close())
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New(context.Background(), " ")
	assert.Error(t, err)
	_, err = New(context.Background(), "not a url")
	assert.Error(t, err)
}
