package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"truco-lite/truco"
)

const (
	redisGameKeyPrefix   = "truco:game:"
	redisEventsKeyPrefix = "truco:events:"
	defaultRedisTTL      = 24 * time.Hour
)

// RedisStore keeps the state as a JSON string and the event stream as a
// sorted set scored by sequence. Both keys expire after ttl of inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Close() error { return r.client.Close() }

func (r *RedisStore) Load(ctx context.Context, gameID string) (truco.State, error) {
	raw, err := r.client.Get(ctx, redisGameKeyPrefix+gameID).Bytes()
	if errors.Is(err, redis.Nil) {
		return truco.State{}, ErrNotFound
	}
	if err != nil {
		return truco.State{}, err
	}
	return decodeState(gameID, raw)
}

func (r *RedisStore) Save(ctx context.Context, st truco.State) error {
	raw, err := encodeState(st)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisGameKeyPrefix+st.GameID, raw, r.ttl).Err()
}

func (r *RedisStore) AppendEvents(ctx context.Context, gameID string, events []EventItem) error {
	if len(events) == 0 {
		return nil
	}
	key := redisEventsKeyPrefix + gameID
	members := make([]redis.Z, 0, len(events))
	for _, ev := range events {
		raw, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		members = append(members, redis.Z{Score: float64(ev.Seq), Member: string(raw)})
	}
	pipe := r.client.TxPipeline()
	for _, m := range members {
		// re-appended sequences are dropped again on read
		pipe.ZAddNX(ctx, key, m)
	}
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Events(ctx context.Context, gameID string, afterSeq uint64) ([]EventItem, error) {
	raws, err := r.client.ZRangeByScore(ctx, redisEventsKeyPrefix+gameID, &redis.ZRangeBy{
		Min: fmt.Sprintf("(%d", afterSeq),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]EventItem, 0, len(raws))
	seen := make(map[uint64]bool, len(raws))
	for _, raw := range raws {
		var item EventItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, err
		}
		if seen[item.Seq] {
			continue
		}
		seen[item.Seq] = true
		out = append(out, item)
	}
	return out, nil
}
