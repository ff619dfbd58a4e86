package orm

import (
	"context"
	"strings"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/schema"
)

type tableOptions struct {
	temporary bool
}

// TableOption CREATE TABLE 的选项
type TableOption func(o *tableOptions)

// Temporary 创建临时表，只在当前连接里面可见
func Temporary() TableOption {
	return func(o *tableOptions) {
		o.temporary = true
	}
}

// CreateTable creates table name with one column per field of s, in ordinal
// order. Column types come from the dialect; a field whose declared type has
// no column type fails the whole statement.
//
//	CREATE TABLE name (id INT,name VARCHAR(255))
func (e *Engine) CreateTable(ctx context.Context, s *schema.Schema, name string, opts ...TableOption) Result {
	defer e.reset()
	if e.err != nil {
		return Result{err: e.err}
	}
	if name == "" {
		return Result{err: errs.ErrMissingTable}
	}
	q, err := e.buildCreateTable(s, name, opts...)
	if err != nil {
		return Result{err: err}
	}
	res := e.exec(ctx, &QueryContext{
		Type:   TypeCreate,
		Table:  name,
		Schema: s,
		Query:  q,
	})
	if res.err == nil {
		e.invalidate(ctx, name)
	}
	return res
}

func (e *Engine) buildCreateTable(s *schema.Schema, name string, opts ...TableOption) (*Query, error) {
	if s == nil {
		return nil, errs.NewErrMalformedSchema("nil schema")
	}
	if len(s.FieldNames) == 0 {
		return nil, errs.NewErrMalformedSchema("schema has no fields")
	}
	o := &tableOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var sb strings.Builder
	if o.temporary {
		sb.WriteString("CREATE TEMPORARY TABLE ")
	} else {
		sb.WriteString("CREATE TABLE ")
	}
	sb.WriteString(name)
	sb.WriteString(" (")
	for i, fd := range s.Fields() {
		typ, ok := e.dialect.ColumnType(fd.Type, e.varcharLen)
		if !ok {
			return nil, errs.NewErrUnsupportedColumnType(fd.Name, fd.Type)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fd.Column)
		sb.WriteByte(' ')
		sb.WriteString(typ)
	}
	sb.WriteByte(')')
	return &Query{SQL: sb.String()}, nil
}

// Drop 删除当前的表
func (e *Engine) Drop(ctx context.Context) Result {
	defer e.reset()
	if err := e.check(); err != nil {
		return Result{err: err}
	}
	table := e.table
	res := e.exec(ctx, &QueryContext{
		Type:  TypeDrop,
		Table: table,
		Query: &Query{SQL: "DROP TABLE " + table},
	})
	if res.err == nil {
		e.invalidate(ctx, table)
	}
	return res
}
