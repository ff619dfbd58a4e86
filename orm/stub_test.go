package orm

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/coderi421/smallorm/orm/value"
)

// stubConn 记录每一次调用的 Connection，用来断言生成的 SQL 和参数
type stubConn struct {
	// queries 按照执行的顺序记录 Exec 和 Query
	queries   []*Query
	prepared  int
	closed    int
	described []string

	tables  map[string][]string
	rowSets []*RowSet

	prepareErr  error
	execErr     error
	describeErr error
	panicOnExec bool
}

type stubStmt struct {
	query string
	conn  *stubConn
}

func (s *stubStmt) SQL() string {
	return s.query
}

func (s *stubStmt) Close() error {
	s.conn.closed++
	return nil
}

func newStubConn() *stubConn {
	return &stubConn{tables: map[string][]string{}}
}

// returning 设置下一次 Query 返回的数据
func (c *stubConn) returning(rs ...*RowSet) *stubConn {
	c.rowSets = append(c.rowSets, rs...)
	return c
}

func (c *stubConn) Prepare(ctx context.Context, query string) (Statement, error) {
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	c.prepared++
	return &stubStmt{query: query, conn: c}, nil
}

func (c *stubConn) Exec(ctx context.Context, stmt Statement, args []value.Value) (sql.Result, error) {
	if c.panicOnExec {
		panic("connection lost")
	}
	c.queries = append(c.queries, &Query{SQL: stmt.SQL(), Args: args})
	if c.execErr != nil {
		return nil, c.execErr
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) Query(ctx context.Context, stmt Statement, args []value.Value) (*RowSet, error) {
	c.queries = append(c.queries, &Query{SQL: stmt.SQL(), Args: args})
	if len(c.rowSets) == 0 {
		return &RowSet{}, nil
	}
	rs := c.rowSets[0]
	c.rowSets = c.rowSets[1:]
	return rs, nil
}

func (c *stubConn) DescribeTable(ctx context.Context, table string) ([]string, error) {
	c.described = append(c.described, table)
	if c.describeErr != nil {
		return nil, c.describeErr
	}
	cols, ok := c.tables[table]
	if !ok {
		return nil, errors.New("no such table: " + table)
	}
	return cols, nil
}

func (c *stubConn) Close() error {
	return nil
}

func (c *stubConn) last() *Query {
	if len(c.queries) == 0 {
		return nil
	}
	return c.queries[len(c.queries)-1]
}

// mapCache 内存里面的 ColumnCache
type mapCache struct {
	data map[string][]string
}

func (m *mapCache) Get(ctx context.Context, table string) ([]string, error) {
	cols, ok := m.data[table]
	if !ok {
		return nil, ErrCacheMiss
	}
	return cols, nil
}

func (m *mapCache) Set(ctx context.Context, table string, cols []string) error {
	m.data[table] = cols
	return nil
}

func (m *mapCache) Delete(ctx context.Context, table string) error {
	delete(m.data, table)
	return nil
}

type TestModel struct {
	Id        int64
	FirstName string
	Age       int32
	LastName  *string
	Remark    string `orm:"skip"`
}

// hiddenModel 全部字段都被跳过了
type hiddenModel struct {
	Remark string `orm:"skip"`
}
