package health

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *pgxpool.Pool and *pgx.Conn.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Postgres returns a [Checker] that pings the database.
func Postgres(db Pinger) Checker {
	return Checker{
		Name: "postgres",
		Check: func(ctx context.Context) error {
			return db.Ping(ctx)
		},
	}
}

// Redis returns a [Checker] that pings the Redis server.
func Redis(client *redis.Client) Checker {
	return Checker{
		Name: "redis",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// NATS returns a [Checker] that verifies the broker connection is alive.
func NATS(nc *nats.Conn) Checker {
	return Checker{
		Name: "nats",
		Check: func(ctx context.Context) error {
			if !nc.IsConnected() {
				return errors.New("nats connection is down")
			}
			return nil
		},
	}
}
