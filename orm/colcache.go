package orm

import "context"

// ColumnCache 缓存 describe 出来的列名，避免每一次 SELECT * 都查一次表结构
// 实现在 colcache/memory 和 colcache/redis
type ColumnCache interface {
	// Get 没有缓存的时候返回 ErrCacheMiss
	Get(ctx context.Context, table string) ([]string, error)
	Set(ctx context.Context, table string, cols []string) error
	Delete(ctx context.Context, table string) error
}
