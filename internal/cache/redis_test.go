package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/nDmitry/technewsbot/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Nothing listens on port 1
	c, err := cache.NewRedisCache(ctx, "127.0.0.1:1", "technews:")

	assert.Nil(t, c)
	assert.ErrorContains(t, err, "could not connect to redis at 127.0.0.1:1")
}
