package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/coderi421/smallorm/orm/internal/errs"
	redis "github.com/redis/go-redis/v9"
)

// CacheOption 配置 Cache
type CacheOption func(c *Cache)

// Cache 把列名存成 redis 的 list，多个进程可以共享同一份表结构
type Cache struct {
	prefix     string // redis 中 key 的前缀
	client     redis.Cmdable
	expiration time.Duration // 过期时间，0 表示不过期
}

func NewCache(client redis.Cmdable, opts ...CacheOption) *Cache {
	res := &Cache{
		client:     client,
		prefix:     "smallorm_columns",
		expiration: time.Minute * 15,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

func WithExpiration(expiration time.Duration) CacheOption {
	return func(c *Cache) {
		c.expiration = expiration
	}
}

func (c *Cache) key(table string) string {
	return fmt.Sprintf("%s_%s", c.prefix, table)
}

// Get 一张表至少有一列，所以空的 list 就是没有缓存
func (c *Cache) Get(ctx context.Context, table string) ([]string, error) {
	cols, err := c.client.LRange(ctx, c.key(table), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errs.ErrCacheMiss
	}
	return cols, nil
}

// Set 在一个事务里面覆盖整个 list
func (c *Cache) Set(ctx context.Context, table string, cols []string) error {
	if len(cols) == 0 {
		return c.Delete(ctx, table)
	}
	key := c.key(table)
	vals := make([]any, 0, len(cols))
	for _, col := range cols {
		vals = append(vals, col)
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, vals...)
		if c.expiration > 0 {
			pipe.Expire(ctx, key, c.expiration)
		}
		return nil
	})
	return err
}

func (c *Cache) Delete(ctx context.Context, table string) error {
	return c.client.Del(ctx, c.key(table)).Err()
}
