package store

import (
	"testing"

	"unilist/core/cache"
	"unilist/core/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s, err := New(Config{Backend: BackendDatabase, AutoMigrate: true}, db, nil, cache.Config{})
	require.NoError(t, err)
	assert.IsType(t, &GormStore{}, s)

	s, err = New(Config{Backend: BackendRedis}, nil, rdb, cache.Config{KeyPrefix: "unilist"})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)

	_, err = New(Config{Backend: BackendDatabase}, nil, rdb, cache.Config{})
	assert.Error(t, err)

	_, err = New(Config{Backend: BackendRedis}, db, nil, cache.Config{})
	assert.Error(t, err)

	_, err = New(Config{Backend: "etcd"}, db, rdb, cache.Config{})
	assert.EqualError(t, err, "unknown favorites backend: etcd")
}
