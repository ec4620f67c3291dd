package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces all keys written by the redis store.
const DefaultRedisPrefix = "mindmap:"

// RedisStore keeps each map in a hash and indexes ids in a sorted set scored
// by update time.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the server at url (e.g. "redis://localhost:6379/0")
// and verifies the connection.
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	if url == "" {
		url = "redis://localhost:6379"
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(id string) string { return s.prefix + "map:" + id }
func (s *RedisStore) index() string        { return s.prefix + "maps" }

func (s *RedisStore) Get(ctx context.Context, id string) (Record, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("get map %s: %w", id, err)
	}
	if len(fields) == 0 {
		return Record{}, ErrNotFound
	}
	ms, _ := strconv.ParseInt(fields["updated_at"], 10, 64)
	return Record{
		ID:        id,
		Name:      fields["name"],
		Data:      []byte(fields["data"]),
		UpdatedAt: time.UnixMilli(ms).UTC(),
	}, nil
}

func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	rec, err := prepare(rec)
	if err != nil {
		return err
	}
	ms := rec.UpdatedAt.UnixMilli()
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key(rec.ID),
			"name", rec.Name,
			"data", rec.Data,
			"updated_at", strconv.FormatInt(ms, 10))
		p.ZAdd(ctx, s.index(), redis.Z{Score: float64(ms), Member: rec.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("put map %s: %w", rec.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key(id))
		p.ZRem(ctx, s.index(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete map %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	ids, err := s.client.ZRevRange(ctx, s.index(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}

	cmds := make([]*redis.SliceCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HMGet(ctx, s.key(id), "name", "updated_at")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}

	out := make([]Info, 0, len(ids))
	for i, id := range ids {
		vals := cmds[i].Val()
		if len(vals) != 2 || vals[1] == nil {
			continue // index entry without a hash
		}
		name, _ := vals[0].(string)
		raw, _ := vals[1].(string)
		ms, _ := strconv.ParseInt(raw, 10, 64)
		out = append(out, Info{ID: id, Name: name, UpdatedAt: time.UnixMilli(ms).UTC()})
	}
	sortInfos(out)
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
