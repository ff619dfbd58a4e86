package orm

import (
	"context"
	"database/sql"

	"github.com/coderi421/smallorm/orm/value"
)

// Query 构造好的 SQL 以及按照占位符顺序排列的参数
type Query struct {
	SQL  string
	Args []value.Value
}

// Statement 一条已经 prepare 过的语句，用完之后要 Close
type Statement interface {
	SQL() string
	Close() error
}

// Connection is everything the engine needs from the database.
// An Engine owns its Connection exclusively and drives it from one goroutine.
type Connection interface {
	Prepare(ctx context.Context, query string) (Statement, error)
	Exec(ctx context.Context, stmt Statement, args []value.Value) (sql.Result, error)
	Query(ctx context.Context, stmt Statement, args []value.Value) (*RowSet, error)
	// DescribeTable returns the table's column names in declaration order.
	DescribeTable(ctx context.Context, table string) ([]string, error)
	Close() error
}

// RowSet 查询返回的原始数据，Rows 里面每一行和 Columns 一一对应
type RowSet struct {
	Columns []string
	Rows    [][]value.Value
}

// Row 列名到值的映射
type Row map[string]value.Value
