package orm

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/coderi421/smallorm/orm/schema"
	"github.com/coderi421/smallorm/orm/valuer"
)

const defaultVarcharLength = 255

// EngineOption 配置 Engine 的选项
type EngineOption func(e *Engine)

// Engine is the fluent query builder. It accumulates clauses until a terminal
// call (Insert, Update, Delete, Select, the aggregates, CreateTable, Drop,
// RawExec, RawQuery) executes them. Every terminal call resets the whole
// session, table name included, so Table must be called again before the
// next statement.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	core
	session
}

func WithDialect(d Dialect) EngineOption {
	return func(e *Engine) {
		e.dialect = d
	}
}

func WithRegistry(r schema.Registry) EngineOption {
	return func(e *Engine) {
		e.r = r
	}
}

// WithValuer 切换读写字段的实现，比如 unsafe.NewUnsafeValue
func WithValuer(c valuer.Creator) EngineOption {
	return func(e *Engine) {
		e.valCreator = c
	}
}

func WithMiddlewares(mdls ...Middleware) EngineOption {
	return func(e *Engine) {
		e.mdls = append(e.mdls, mdls...)
	}
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithLegacyCoercion 字段值和声明的类型对不上的时候绑定 NULL 而不是报错
func WithLegacyCoercion() EngineOption {
	return func(e *Engine) {
		e.legacyCoercion = true
	}
}

// WithVarcharLength 设置 CREATE TABLE 里面 string 字段的长度
func WithVarcharLength(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.varcharLen = n
		}
	}
}

// WithColumnCache makes SELECT * reuse described column lists.
// Without it every SELECT * describes the table again.
func WithColumnCache(c ColumnCache) EngineOption {
	return func(e *Engine) {
		e.cache = c
	}
}

// NewEngine 在一个已经建立好的 Connection 上面创建 Engine
// 默认使用 MySQL 方言，反射读写字段
func NewEngine(conn Connection, opts ...EngineOption) *Engine {
	e := &Engine{
		core: core{
			conn:       conn,
			dialect:    MySQL,
			r:          schema.NewRegistry(),
			valCreator: valuer.NewReflectValue,
			logger:     slog.Default(),
			varcharLen: defaultVarcharLength,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open 打开数据库，并且独占其中的一个连接
// driver 决定方言，可以用 WithDialect 覆盖
func Open(driver string, dsn string, opts ...EngineOption) (*Engine, error) {
	dialect, err := DialectOf(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, connErr(err)
	}
	e, err := OpenDB(db, dialect, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	e.conn.(*sqlConnection).ownDB = true
	return e, nil
}

// OpenDB 使用用户自己的 sql.DB，Close 的时候只归还连接，不关闭 db
func OpenDB(db *sql.DB, dialect Dialect, opts ...EngineOption) (*Engine, error) {
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, connErr(err)
	}
	conn, err := newSQLConnection(ctx, db, dialect)
	if err != nil {
		return nil, err
	}
	return NewEngine(conn, append([]EngineOption{WithDialect(dialect)}, opts...)...), nil
}

// MustOpen 创建 Engine，失败的时候 panic
func MustOpen(driver string, dsn string, opts ...EngineOption) *Engine {
	e, err := Open(driver, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Dialect() Dialect {
	return e.dialect
}

// Close 释放底层的 Connection
func (e *Engine) Close() error {
	e.reset()
	return e.conn.Close()
}

// Schema 返回 record 对应的 schema，结果会被缓存
func (e *Engine) Schema(record any) (*schema.Schema, error) {
	return e.r.Get(record)
}

// Field reads the named field of record. Names outside the record's schema
// report false, the same as an absent field.
func (e *Engine) Field(record any, name string) (any, bool) {
	if checkRecord(record) != nil {
		return nil, false
	}
	s, err := e.r.Get(record)
	if err != nil {
		return nil, false
	}
	return e.valCreator(record, s).Field(name)
}
