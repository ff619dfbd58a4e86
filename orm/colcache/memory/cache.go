package memory

import (
	"context"
	"time"

	"github.com/coderi421/smallorm/orm/internal/errs"
	cache "github.com/patrickmn/go-cache"
)

// Cache 进程内的列名缓存，过期时间交给 go-cache 管理
type Cache struct {
	c          *cache.Cache
	expiration time.Duration
}

// NewCache expiration 小于等于 0 的时候永不过期
func NewCache(expiration time.Duration) *Cache {
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	return &Cache{
		c:          cache.New(expiration, time.Minute),
		expiration: expiration,
	}
}

func (c *Cache) Get(ctx context.Context, table string) ([]string, error) {
	val, ok := c.c.Get(table)
	if !ok {
		return nil, errs.ErrCacheMiss
	}
	cols := val.([]string)
	// 复制一份，调用者改了也不会影响缓存
	return append([]string(nil), cols...), nil
}

func (c *Cache) Set(ctx context.Context, table string, cols []string) error {
	c.c.Set(table, append([]string(nil), cols...), c.expiration)
	return nil
}

func (c *Cache) Delete(ctx context.Context, table string) error {
	c.c.Delete(table)
	return nil
}
