package cache

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "catalog:store:store-1", buildKey("store-1"))
}

func TestNewCache_DefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	assert.Equal(t, defaultTTL, NewCache(client, 0).ttl)
	assert.Equal(t, time.Minute, NewCache(client, time.Minute).ttl)
}
