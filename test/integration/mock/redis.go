package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Redis is an in-process Redis whose clock tests can move.
type Redis struct {
	Client *redis.Client
	server *miniredis.Miniredis
}

var (
	redisOnce   sync.Once
	sharedRedis *Redis
)

// NewRedis returns the process-wide miniredis instance.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		sharedRedis = &Redis{
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
			server: server,
		}
	})
	return sharedRedis
}

// Flush drops every key.
func (r *Redis) Flush() error {
	return r.Client.FlushAll(context.Background()).Err()
}

// FastForward expires keys as if d had passed.
func (r *Redis) FastForward(d time.Duration) {
	r.server.FastForward(d)
}

// Close stops the server.
func (r *Redis) Close() {
	_ = r.Client.Close()
	r.server.Close()
}
