package orm

import (
	"context"
	"strings"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/value"
)

// Update sets field to val, together with anything added by Set, on the rows
// matched by the WHERE clauses.
//
//	UPDATE t SET a=?,b=? WHERE (id = ?)
func (e *Engine) Update(ctx context.Context, field string, val any) Result {
	return e.Set(field, val).UpdateSet(ctx)
}

// UpdateSet 只执行 Set 累积起来的赋值
func (e *Engine) UpdateSet(ctx context.Context) Result {
	defer e.reset()
	if err := e.check(); err != nil {
		return Result{err: err}
	}
	if e.set.Len() == 0 {
		return Result{err: errs.ErrNoUpdatedColumns}
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(e.table)
	sb.WriteString(" SET ")
	sb.WriteString(e.set.String())
	e.buildWhere(&sb)

	// 先是 SET 的参数，然后是 WHERE 的参数
	args := make([]value.Value, 0, len(e.setArgs)+len(e.whereArgs))
	args = append(args, e.setArgs...)
	args = append(args, e.whereArgs...)

	return e.exec(ctx, &QueryContext{
		Type:  TypeUpdate,
		Table: e.table,
		Query: &Query{
			SQL:  sb.String(),
			Args: args,
		},
	})
}
