package orm

import (
	"context"
	"strings"
)

// Delete 删除 WHERE 匹配到的行，没有 WHERE 的时候整张表都会被清空
func (e *Engine) Delete(ctx context.Context) Result {
	defer e.reset()
	if err := e.check(); err != nil {
		return Result{err: err}
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(e.table)
	e.buildWhere(&sb)

	return e.exec(ctx, &QueryContext{
		Type:  TypeDelete,
		Table: e.table,
		Query: &Query{
			SQL:  sb.String(),
			Args: e.whereArgs,
		},
	})
}
