package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"
	"go.uber.org/fx"

	"staffdir/pkg/config"
)

var (
	Module      = fx.Provide(New)
	ErrNotFound = errors.New("not found")
)

// Store is a path-addressed key-value view of the backend record store.
// Records live under collection paths ("employee-directory/employees/{id}")
// with the full record serialized as JSON at the leaf.
type Store interface {
	PutObj(ctx context.Context, path string, value any) error
	GetObj(ctx context.Context, path string, value any) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, collection string) ([][]byte, error)
}

type store struct {
	redis  redis.UniversalClient
	prefix string
}

type Params struct {
	fx.In

	Config config.IConfig
}

func New(p Params) (Store, error) {
	var (
		prefix  = p.Config.GetString("redis.prefix")
		timeout = 5 * time.Second
	)

	connOpt := redis.UniversalOptions{
		Addrs:       p.Config.GetStringSlice("redis.addrs"),
		Username:    p.Config.GetString("redis.username"),
		Password:    p.Config.GetString("redis.password"),
		DB:          p.Config.GetInt("redis.db"),
		DialTimeout: timeout,
	}

	conn := redis.NewUniversalClient(&connOpt)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if cmd := conn.Ping(ctx); cmd.Err() != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", cmd.Err())
	}

	return &store{
		redis:  conn,
		prefix: prefix,
	}, nil
}

func (s store) getPrefixedKey(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "." + path
}

func (s store) PutObj(ctx context.Context, path string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	if err := s.redis.Set(ctx, s.getPrefixedKey(path), b, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (s store) GetObj(ctx context.Context, path string, value any) error {
	val, err := s.redis.Get(ctx, s.getPrefixedKey(path)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get key: %w", err)
	}

	if err := json.Unmarshal([]byte(val), value); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

func (s store) Delete(ctx context.Context, path string) error {
	// DEL on an absent key is a no-op success, matching the backend's
	// remove semantics.
	if err := s.redis.Del(ctx, s.getPrefixedKey(path)).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (s store) List(ctx context.Context, collection string) ([][]byte, error) {
	var (
		pattern = s.getPrefixedKey(collection) + "/*"
		cursor  uint64
		keys    []string
	)

	for {
		page, next, err := s.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		keys = append(keys, page...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to mget keys: %w", err)
	}

	out := make([][]byte, 0, len(vals))
	for _, v := range vals {
		// a key may expire between SCAN and MGET
		if v == nil {
			continue
		}
		out = append(out, []byte(cast.ToString(v)))
	}
	return out, nil
}
