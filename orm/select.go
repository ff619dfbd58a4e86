package orm

import (
	"context"
	"strings"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/value"
)

// Select runs the accumulated SELECT and returns one Row per result row.
//
// Without Column the statement is `SELECT *` and the row keys come from
// describing the table, so the table's own column order is used.
func (e *Engine) Select(ctx context.Context) ([]Row, error) {
	defer e.reset()
	if err := e.check(); err != nil {
		return nil, err
	}

	list := "*"
	if len(e.columns) > 0 {
		list = strings.Join(e.columns, ",")
	}
	qc := &QueryContext{
		Type:  TypeSelect,
		Table: e.table,
		Query: e.buildSelect(list),
	}
	res := e.handle(ctx, qc, e.selectHandler(e.table, e.columns))
	if res.Err != nil {
		return nil, res.Err
	}
	rows, _ := res.Result.([]Row)
	return rows, nil
}

// buildSelect SELECT list FROM t [WHERE ...] [GROUP BY ...] [ORDER BY ...] [LIMIT ?] [OFFSET ?]
func (e *Engine) buildSelect(list string) *Query {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(list)
	sb.WriteString(" FROM ")
	sb.WriteString(e.table)
	e.buildWhere(&sb)

	args := make([]value.Value, 0, len(e.whereArgs)+2)
	args = append(args, e.whereArgs...)

	// 分组
	if len(e.group) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(e.group, ","))
	}

	// 排序
	if len(e.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, ob := range e.orderBy {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(ob.col)
			sb.WriteByte(' ')
			sb.WriteString(ob.order)
		}
	}

	// 分页
	if e.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, value.Int64(int64(e.limit)))
	}
	// 偏移量
	if e.offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, value.Int64(int64(e.offset)))
	}

	return &Query{
		SQL:  sb.String(),
		Args: args,
	}
}

// selectHandler 没有指定列的时候，先 describe 拿到列名，再把每一行按照列名组装起来
func (c core) selectHandler(table string, cols []string) Handler {
	return func(ctx context.Context, qc *QueryContext) *QueryResult {
		names := cols
		described := len(names) == 0
		if described {
			var err error
			names, err = c.describe(ctx, table)
			if err != nil {
				return &QueryResult{Err: err}
			}
		}

		res := c.queryHandler(ctx, qc)
		if res.Err != nil {
			return res
		}
		rs := res.Result.(*RowSet)

		rows := make([]Row, 0, len(rs.Rows))
		for _, vals := range rs.Rows {
			if len(vals) != len(names) {
				if described {
					// 缓存里面的列名可能已经过期了
					c.invalidate(ctx, table)
				}
				return &QueryResult{Err: errs.ErrColumnCountMismatch}
			}
			row := make(Row, len(names))
			for i, name := range names {
				row[name] = vals[i]
			}
			rows = append(rows, row)
		}
		return &QueryResult{Result: rows}
	}
}
