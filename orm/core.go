package orm

import (
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/schema"
	"github.com/coderi421/smallorm/orm/valuer"
)

// core 一个 Engine 的全部依赖，和 session 状态分开
type core struct {
	conn       Connection
	dialect    Dialect
	r          schema.Registry // 存储 struct 和 schema 的映射关系
	valCreator valuer.Creator  // 读写 struct 字段的实现
	mdls       []Middleware
	logger     *slog.Logger
	cache      ColumnCache

	// legacyCoercion 为 true 时，转换失败的字段用 Null 代替，只打一条告警
	legacyCoercion bool
	varcharLen     int
}

func checkRecord(record any) error {
	if record == nil {
		return errs.ErrNilRecord
	}
	if rv := reflect.ValueOf(record); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return errs.ErrNilRecord
	}
	return nil
}

// execHandler 每次都重新 prepare，执行完就关闭语句
func (c core) execHandler(ctx context.Context, qc *QueryContext) *QueryResult {
	stmt, err := c.conn.Prepare(ctx, qc.Query.SQL)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer c.closeStmt(stmt)
	res, err := c.conn.Exec(ctx, stmt, qc.Query.Args)
	if err != nil {
		return &QueryResult{Err: err}
	}
	return &QueryResult{Result: res}
}

func (c core) queryHandler(ctx context.Context, qc *QueryContext) *QueryResult {
	stmt, err := c.conn.Prepare(ctx, qc.Query.SQL)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer c.closeStmt(stmt)
	rs, err := c.conn.Query(ctx, stmt, qc.Query.Args)
	if err != nil {
		return &QueryResult{Err: err}
	}
	return &QueryResult{Result: rs}
}

func (c core) closeStmt(stmt Statement) {
	if err := stmt.Close(); err != nil {
		c.logger.Warn("orm: close statement", slog.String("sql", stmt.SQL()), slog.Any("err", err))
	}
}

// describe 拿到表的全部列名，开启了 ColumnCache 的时候优先读缓存
func (c core) describe(ctx context.Context, table string) ([]string, error) {
	if c.cache != nil {
		cols, err := c.cache.Get(ctx, table)
		if err == nil {
			return cols, nil
		}
		if !errors.Is(err, errs.ErrCacheMiss) {
			c.logger.Warn("orm: read column cache", slog.String("table", table), slog.Any("err", err))
		}
	}
	cols, err := c.conn.DescribeTable(ctx, table)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err = c.cache.Set(ctx, table, cols); err != nil {
			c.logger.Warn("orm: write column cache", slog.String("table", table), slog.Any("err", err))
		}
	}
	return cols, nil
}

// invalidate 表结构变了之后，缓存的列名就不能用了
func (c core) invalidate(ctx context.Context, table string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, table); err != nil {
		c.logger.Warn("orm: invalidate column cache", slog.String("table", table), slog.Any("err", err))
	}
}
