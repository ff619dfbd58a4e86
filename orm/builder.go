package orm

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/schema"
	"github.com/coderi421/smallorm/orm/value"
)

// session 一条语句在执行之前累积起来的全部状态
// 每一次终结操作之后都会整个清空，包括 table
type session struct {
	table string

	// where 里面的占位符和 whereArgs 一一对应，两者永远在同一个地方追加
	where     strings.Builder
	whereArgs []value.Value

	// set 是 UPDATE 的赋值部分
	set     strings.Builder
	setArgs []value.Value

	columns []string
	group   []string
	orderBy []OrderBy
	limit   int
	offset  int

	// err 子句里面发生的第一个错误，由下一次终结操作返回
	err error
}

func (s *session) reset() {
	*s = session{}
}

func (s *session) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// ready 子句必须在 Table 之后调用
func (s *session) ready() bool {
	if s.table == "" {
		s.fail(errs.ErrMissingTable)
		return false
	}
	return s.err == nil
}

// check 终结操作开始之前调用，返回子句里面记录的错误
func (s *session) check() error {
	if s.err != nil {
		return s.err
	}
	if s.table == "" {
		return errs.ErrMissingTable
	}
	return nil
}

func (s *session) buildWhere(sb *strings.Builder) {
	if s.where.Len() > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.where.String())
	}
}

// openPredicate 多个条件之间用 and 连接
func (s *session) openPredicate() {
	if s.where.Len() > 0 {
		s.where.WriteString(" and (")
		return
	}
	s.where.WriteByte('(')
}

func (s *session) addWhereArgs(args ...value.Value) {
	if s.whereArgs == nil {
		s.whereArgs = make([]value.Value, 0, 8)
	}
	s.whereArgs = append(s.whereArgs, args...)
}

// Err returns the first error recorded by a clause since the last terminal
// call. The next terminal call returns it too.
func (e *Engine) Err() error {
	return e.err
}

// Table sets the table of the next statement.
func (e *Engine) Table(name string) *Engine {
	e.table = name
	return e
}

// Where appends `(field op ?)`. The operator is written verbatim, so it must
// come from the program, never from user input.
func (e *Engine) Where(field string, op string, val any) *Engine {
	if !e.ready() {
		return e
	}
	v, err := value.Of(val)
	if err != nil {
		e.fail(err)
		return e
	}
	e.openPredicate()
	e.where.WriteString(field)
	e.where.WriteByte(' ')
	e.where.WriteString(op)
	e.where.WriteString(" ?) ")
	e.addWhereArgs(v)
	return e
}

func (e *Engine) WhereIn(field string, vals ...any) *Engine {
	return e.whereIn(field, "in", vals)
}

func (e *Engine) WhereNotIn(field string, vals ...any) *Engine {
	return e.whereIn(field, "not in", vals)
}

func (e *Engine) whereIn(field string, op string, vals []any) *Engine {
	if !e.ready() {
		return e
	}
	if len(vals) == 0 {
		e.fail(errs.NewErrEmptyValueSet(field))
		return e
	}
	args := make([]value.Value, 0, len(vals))
	for _, val := range vals {
		v, err := value.Of(val)
		if err != nil {
			e.fail(err)
			return e
		}
		args = append(args, v)
	}
	e.openPredicate()
	e.where.WriteString(field)
	e.where.WriteByte(' ')
	e.where.WriteString(op)
	e.where.WriteString(" (")
	for i := range args {
		if i > 0 {
			e.where.WriteByte(',')
		}
		e.where.WriteByte('?')
	}
	e.where.WriteString(")) ")
	e.addWhereArgs(args...)
	return e
}

// WhereRow matches a row equal to record on every field of its schema:
// `(a=? and b=? ...)`, values taken in ordinal order.
func (e *Engine) WhereRow(record any) *Engine {
	if !e.ready() {
		return e
	}
	s, args, err := e.bind(record)
	if err != nil {
		e.fail(err)
		return e
	}
	e.openPredicate()
	for i, col := range s.Columns() {
		if i > 0 {
			e.where.WriteString(" and ")
		}
		e.where.WriteString(col)
		e.where.WriteString("=?")
	}
	e.where.WriteString(") ")
	e.addWhereArgs(args...)
	return e
}

// Column 指定 SELECT 的列，不调用的时候是 SELECT *
// 多次调用以最后一次为准
func (e *Engine) Column(names ...string) *Engine {
	if !e.ready() {
		return e
	}
	e.columns = append([]string(nil), names...)
	return e
}

// Group 设置 GROUP BY，和 Column 一样会覆盖之前的调用
func (e *Engine) Group(names ...string) *Engine {
	if !e.ready() {
		return e
	}
	e.group = append([]string(nil), names...)
	return e
}

// Set 追加一个 UPDATE 的赋值，多次调用用逗号连接
func (e *Engine) Set(field string, val any) *Engine {
	if !e.ready() {
		return e
	}
	v, err := value.Of(val)
	if err != nil {
		e.fail(err)
		return e
	}
	if e.set.Len() > 0 {
		e.set.WriteByte(',')
	}
	e.set.WriteString(field)
	e.set.WriteString("=?")
	e.setArgs = append(e.setArgs, v)
	return e
}

func (e *Engine) OrderBy(obs ...OrderBy) *Engine {
	if !e.ready() {
		return e
	}
	e.orderBy = append(e.orderBy, obs...)
	return e
}

func (e *Engine) Limit(n int) *Engine {
	if !e.ready() {
		return e
	}
	e.limit = n
	return e
}

func (e *Engine) Offset(n int) *Engine {
	if !e.ready() {
		return e
	}
	e.offset = n
	return e
}

// OrderBy 排序的列和方向
type OrderBy struct {
	col   string
	order string
}

func Asc(col string) OrderBy {
	return OrderBy{
		col:   col,
		order: "ASC",
	}
}

func Desc(col string) OrderBy {
	return OrderBy{
		col:   col,
		order: "DESC",
	}
}

// bind 通过 valuer 读出 record 的每一个字段，再按照声明的类型转换
func (c core) bind(record any) (*schema.Schema, []value.Value, error) {
	if err := checkRecord(record); err != nil {
		return nil, nil, err
	}
	s, err := c.r.Get(record)
	if err != nil {
		return nil, nil, err
	}
	// 没有字段的时候 WhereRow 会变成没有条件，Insert 会变成 () VALUES ()
	if len(s.FieldNames) == 0 {
		return nil, nil, errs.NewErrMalformedSchema(fmt.Sprintf("%s has no fields", reflect.TypeOf(record)))
	}
	acc := c.valCreator(record, s)
	args := make([]value.Value, 0, len(s.FieldNames))
	for _, fd := range s.Fields() {
		ref, _ := acc.Field(fd.Name)
		v, err := value.Coerce(fd.Name, ref, fd.Type)
		if err != nil {
			if !c.legacyCoercion {
				return nil, nil, err
			}
			c.logger.Warn("orm: binding NULL instead", slog.String("field", fd.Name), slog.Any("err", err))
			v = value.Null()
		}
		args = append(args, v)
	}
	return s, args, nil
}
