package orm

import (
	"context"
	"database/sql"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/value"
	"github.com/gotomicro/ekit/slice"
)

var _ Connection = &sqlConnection{}

// sqlConnection 基于 database/sql 的 Connection 实现
// 从连接池里面拿出一个连接独占，临时表和内存里的 sqlite 在整个生命周期里面都可见
type sqlConnection struct {
	conn    *sql.Conn
	db      *sql.DB
	dialect Dialect
	// ownDB 为 true 的时候 Close 会把 db 一起关掉
	ownDB bool
}

func newSQLConnection(ctx context.Context, db *sql.DB, dialect Dialect) (*sqlConnection, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, connErr(err)
	}
	return &sqlConnection{
		conn:    conn,
		db:      db,
		dialect: dialect,
	}, nil
}

type sqlStatement struct {
	stmt  *sql.Stmt
	query string
	owner *sqlConnection
}

func (s *sqlStatement) SQL() string {
	return s.query
}

func (s *sqlStatement) Close() error {
	return s.stmt.Close()
}

func (c *sqlConnection) Prepare(ctx context.Context, query string) (Statement, error) {
	if c.conn == nil {
		return nil, errs.ErrConnectionReleased
	}
	query = c.dialect.Rebind(query)
	stmt, err := c.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, connErr(err)
	}
	return &sqlStatement{stmt: stmt, query: query, owner: c}, nil
}

func (c *sqlConnection) statement(stmt Statement) (*sql.Stmt, error) {
	if c.conn == nil {
		return nil, errs.ErrConnectionReleased
	}
	s, ok := stmt.(*sqlStatement)
	if !ok || s.owner != c {
		return nil, errs.ErrStatementMismatch
	}
	return s.stmt, nil
}

func (c *sqlConnection) Exec(ctx context.Context, stmt Statement, args []value.Value) (sql.Result, error) {
	s, err := c.statement(stmt)
	if err != nil {
		return nil, err
	}
	res, err := s.ExecContext(ctx, driverArgs(args)...)
	if err != nil {
		return nil, connErr(err)
	}
	return res, nil
}

func (c *sqlConnection) Query(ctx context.Context, stmt Statement, args []value.Value) (*RowSet, error) {
	s, err := c.statement(stmt)
	if err != nil {
		return nil, err
	}
	rows, err := s.QueryContext(ctx, driverArgs(args)...)
	if err != nil {
		return nil, connErr(err)
	}
	return collect(rows)
}

func (c *sqlConnection) DescribeTable(ctx context.Context, table string) ([]string, error) {
	if c.conn == nil {
		return nil, errs.ErrConnectionReleased
	}
	query, args, nameCol := c.dialect.describe(table)
	rows, err := c.conn.QueryContext(ctx, c.dialect.Rebind(query), driverArgs(args)...)
	if err != nil {
		return nil, connErr(err)
	}
	rs, err := collect(rows)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		if nameCol >= len(row) {
			return nil, errs.ErrColumnCountMismatch
		}
		name, _ := row[nameCol].AsString()
		names = append(names, name)
	}
	return names, nil
}

func (c *sqlConnection) Close() error {
	if c.conn == nil {
		return errs.ErrConnectionReleased
	}
	err := c.conn.Close()
	c.conn = nil
	if c.ownDB {
		if dbErr := c.db.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

// collect 把 sql.Rows 全部读出来，并且关闭 rows
func collect(rows *sql.Rows) (*RowSet, error) {
	defer func() {
		_ = rows.Close()
	}()
	cols, err := rows.Columns()
	if err != nil {
		return nil, connErr(err)
	}
	rs := &RowSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := slice.Map(vals, func(idx int, src any) any {
			return &vals[idx]
		})
		if err = rows.Scan(ptrs...); err != nil {
			return nil, connErr(err)
		}
		rs.Rows = append(rs.Rows, slice.Map(vals, func(idx int, src any) value.Value {
			return value.FromDriver(src)
		}))
	}
	if err = rows.Err(); err != nil {
		return nil, connErr(err)
	}
	return rs, nil
}

func driverArgs(args []value.Value) []any {
	return slice.Map(args, func(idx int, src value.Value) any {
		return src
	})
}
