package rdx

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init connects the shared redis client used for favorite counters and the
// notification dispatch channel.
func Init(ctx context.Context) error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})

	if err := Conn.Ping(ctx).Err(); err != nil {
		log.Println("Redis ping failed:", err)
		return err
	}
	return nil
}
