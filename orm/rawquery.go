package orm

import (
	"context"

	"github.com/coderi421/smallorm/orm/value"
)

// RawExec 执行原生 sql 语句，占位符统一写 ?，由方言改写
// 和其它终结操作一样，执行完会清空 session
func (e *Engine) RawExec(ctx context.Context, query string, args ...any) Result {
	defer e.reset()
	q, err := e.rawQuery(query, args)
	if err != nil {
		return Result{err: err}
	}
	return e.exec(ctx, &QueryContext{
		Type:  TypeRaw,
		Query: q,
	})
}

// RawQuery 执行原生的查询，Row 的 key 是数据库返回的列名
func (e *Engine) RawQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	defer e.reset()
	q, err := e.rawQuery(query, args)
	if err != nil {
		return nil, err
	}
	res := e.handle(ctx, &QueryContext{
		Type:  TypeRaw,
		Query: q,
	}, e.queryHandler)
	if res.Err != nil {
		return nil, res.Err
	}
	rs, ok := res.Result.(*RowSet)
	if !ok {
		return nil, nil
	}
	rows := make([]Row, 0, len(rs.Rows))
	for _, vals := range rs.Rows {
		row := make(Row, len(rs.Columns))
		for i, col := range rs.Columns {
			row[col] = vals[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *Engine) rawQuery(query string, args []any) (*Query, error) {
	if e.err != nil {
		return nil, e.err
	}
	vals := make([]value.Value, 0, len(args))
	for _, arg := range args {
		v, err := value.Of(arg)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return &Query{
		SQL:  query,
		Args: vals,
	}, nil
}
