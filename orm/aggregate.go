package orm

import (
	"context"
	"errors"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/value"
)

// Max
//
//	@Description: 求最大值，没有匹配到数据的时候返回 ErrEmptyResult
//	@param field 聚合函数中填写的字段
func (e *Engine) Max(ctx context.Context, field string) (value.Value, error) {
	return e.aggregate(ctx, "max", field)
}

// Min
//
//	@Description: 求最小值
func (e *Engine) Min(ctx context.Context, field string) (value.Value, error) {
	return e.aggregate(ctx, "min", field)
}

// Avg
//
//	@Description: 求平均值
func (e *Engine) Avg(ctx context.Context, field string) (value.Value, error) {
	return e.aggregate(ctx, "avg", field)
}

// Sum
//
//	@Description: 求和
func (e *Engine) Sum(ctx context.Context, field string) (value.Value, error) {
	return e.aggregate(ctx, "sum", field)
}

// Count
//
//	@Description: 获取数量，没有数据的时候是 0 而不是错误
func (e *Engine) Count(ctx context.Context) (value.Value, error) {
	v, err := e.aggregate(ctx, "count", "*")
	if errors.Is(err, errs.ErrEmptyResult) {
		return value.Int64(0), nil
	}
	return v, err
}

// aggregate SELECT fn(field) FROM t [WHERE ...]
// 空表上面的 max 之类的会返回一行 NULL，和没有返回行一样处理
func (e *Engine) aggregate(ctx context.Context, fn string, field string) (value.Value, error) {
	defer e.reset()
	if err := e.check(); err != nil {
		return value.Null(), err
	}
	qc := &QueryContext{
		Type:  TypeSelect,
		Table: e.table,
		Query: e.buildSelect(fn + "(" + field + ")"),
	}
	res := e.handle(ctx, qc, e.queryHandler)
	if res.Err != nil {
		return value.Null(), res.Err
	}
	rs, ok := res.Result.(*RowSet)
	if !ok || len(rs.Rows) == 0 || len(rs.Rows[0]) == 0 || rs.Rows[0][0].IsNull() {
		return value.Null(), errs.ErrEmptyResult
	}
	return rs.Rows[0][0], nil
}
