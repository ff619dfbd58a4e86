package orm

import (
	"context"
	"strings"
)

// Insert 把 record 的每一个字段按照 schema 的顺序插入到当前的表
//
//	INSERT INTO t (a,b) VALUES (?,?)
func (e *Engine) Insert(ctx context.Context, record any) Result {
	defer e.reset()
	if err := e.check(); err != nil {
		return Result{err: err}
	}
	s, args, err := e.bind(record)
	if err != nil {
		return Result{err: err}
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(e.table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(s.Columns(), ","))
	sb.WriteString(") VALUES (")
	for i := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('?')
	}
	sb.WriteByte(')')

	return e.exec(ctx, &QueryContext{
		Type:   TypeInsert,
		Table:  e.table,
		Schema: s,
		Query: &Query{
			SQL:  sb.String(),
			Args: args,
		},
	})
}

// exec 走一遍中间件，然后执行
func (e *Engine) exec(ctx context.Context, qc *QueryContext) Result {
	res := e.handle(ctx, qc, e.execHandler)
	return newResult(res)
}
