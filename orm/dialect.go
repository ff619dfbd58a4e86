package orm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coderi421/smallorm/orm/internal/errs"
	"github.com/coderi421/smallorm/orm/value"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	MySQL    Dialect = &mysqlDialect{}
	SQLite3  Dialect = &sqlite3Dialect{}
	Postgres Dialect = &postgresDialect{}
)

// Dialect 不同数据库之间的差异：建表的列类型，占位符，以及怎么查一个表有哪些列
type Dialect interface {
	Name() string
	// ColumnType maps a declared type tag to the column type used by CREATE TABLE.
	ColumnType(tag string, varcharLen int) (string, bool)
	// Rebind rewrites the `?` placeholders the builder emits into the dialect's own.
	Rebind(query string) string

	// describe 返回查询表结构的语句，参数，以及列名在结果里面是第几列
	describe(table string) (query string, args []value.Value, nameCol int)
}

// DialectOf 根据 database/sql 的驱动名找到对应的方言
func DialectOf(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "sqlite3":
		return SQLite3, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	default:
		return nil, errs.NewErrUnknownDialect(driver)
	}
}

type standardSQL struct {
}

func (s standardSQL) Rebind(query string) string {
	return query
}

type mysqlDialect struct {
	standardSQL
}

func (m *mysqlDialect) Name() string {
	return "mysql"
}

func (m *mysqlDialect) ColumnType(tag string, varcharLen int) (string, bool) {
	switch tag {
	case value.TagInt32:
		return "INT", true
	case value.TagInt64:
		return "BIGINT", true
	case value.TagFloat32:
		return "FLOAT", true
	case value.TagFloat64:
		return "DOUBLE", true
	case value.TagString:
		return fmt.Sprintf("VARCHAR(%d)", varcharLen), true
	default:
		return "", false
	}
}

func (m *mysqlDialect) describe(table string) (string, []value.Value, int) {
	return "DESCRIBE " + table, nil, 0
}

type sqlite3Dialect struct {
	standardSQL
}

func (s *sqlite3Dialect) Name() string {
	return "sqlite3"
}

// ColumnType sqlite 只有几种存储类型，INTEGER 同时覆盖 32 位和 64 位
func (s *sqlite3Dialect) ColumnType(tag string, varcharLen int) (string, bool) {
	switch tag {
	case value.TagInt32, value.TagInt64:
		return "INTEGER", true
	case value.TagFloat32, value.TagFloat64:
		return "REAL", true
	case value.TagString:
		return fmt.Sprintf("VARCHAR(%d)", varcharLen), true
	default:
		return "", false
	}
}

func (s *sqlite3Dialect) describe(table string) (string, []value.Value, int) {
	// cid, name, type, notnull, dflt_value, pk
	return "PRAGMA table_info(" + table + ")", nil, 1
}

type postgresDialect struct {
}

func (p *postgresDialect) Name() string {
	return "postgres"
}

func (p *postgresDialect) ColumnType(tag string, varcharLen int) (string, bool) {
	switch tag {
	case value.TagInt32:
		return "INTEGER", true
	case value.TagInt64:
		return "BIGINT", true
	case value.TagFloat32:
		return "REAL", true
	case value.TagFloat64:
		return "DOUBLE PRECISION", true
	case value.TagString:
		return fmt.Sprintf("VARCHAR(%d)", varcharLen), true
	default:
		return "", false
	}
}

// Rebind 把 ? 换成 $1, $2 ...，单引号里面的 ? 不动
func (p *postgresDialect) Rebind(query string) string {
	var (
		sb     strings.Builder
		n      int
		quoted bool
	)
	sb.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			sb.WriteByte(c)
		case c == '?' && !quoted:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (p *postgresDialect) describe(table string) (string, []value.Value, int) {
	const query = "SELECT column_name FROM information_schema.columns " +
		"WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position"
	return query, []value.Value{value.String(table)}, 0
}
