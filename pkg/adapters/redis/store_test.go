package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/routes64/pkg/adapters/redis"
	"github.com/aretw0/routes64/pkg/domain"
	"github.com/aretw0/routes64/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunSaveStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "save", domain.RecordFromState(domain.NewState())))

	slots, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, slots, "save")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "save")
	assert.ErrorIs(t, err, domain.ErrSaveNotFound)

	slots, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
	members, err := mr.Members(redis.DefaultPrefix + "index")
	if err == nil {
		assert.Empty(t, members, "expired slots should be pruned from the index")
	}
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "slot-a", domain.RecordFromState(domain.NewState())))

	assert.True(t, mr.Exists("custom:app:slot-a"), "expected key with custom prefix")
	assert.True(t, mr.Exists("custom:app:index"), "expected index with custom prefix")

	raw, err := mr.Get("custom:app:slot-a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schema_version":1,"current":"R","depth":0,"trail":["R"]}`, raw)
}

func TestRedisStore_NewFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := redis.New("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(context.Background()))

	_, err = redis.New("://bad")
	assert.Error(t, err)
}

func TestRedisStore_FutureVersionIsNotADecodeError(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"save", `{"schema_version":2,"current":{"node":"R1"}}`))

	record, err := store.Load(context.Background(), "save")
	require.NoError(t, err)
	assert.Equal(t, 2, record.SchemaVersion)
	assert.False(t, record.IsCurrent())
}
