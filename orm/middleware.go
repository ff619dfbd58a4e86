package orm

import (
	"context"

	"github.com/coderi421/smallorm/orm/schema"
	"github.com/google/uuid"
)

// 查询类型
const (
	TypeInsert = "INSERT"
	TypeUpdate = "UPDATE"
	TypeDelete = "DELETE"
	TypeSelect = "SELECT"
	TypeCreate = "CREATE"
	TypeDrop   = "DROP"
	TypeRaw    = "RAW"
)

// QueryContext 中间件的上下文
// Query 在进入中间件之前就已经构造好了，中间件可以直接读，也可以改写
type QueryContext struct {
	// Type 声明查询类型。即 SELECT, UPDATE, DELETE, INSERT, CREATE, DROP 和 RAW
	Type string
	// Table 本次操作的表名，RAW 的时候为空
	Table string
	Query *Query
	// Schema 只有 INSERT 和 CREATE 会带上
	Schema *schema.Schema
	// ID 每一次终结操作都不一样，用来把日志和 trace 串起来
	ID uuid.UUID
}

type QueryResult struct {
	// Result 在不同的查询里面，类型是不同的
	// Select 里面是 []Row
	// 聚合函数里面是 *RowSet
	// 其它情况下，它会是 sql.Result
	Result any
	Err    error
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult

// handle 从后往前把中间件包起来，最后执行 root
func (c core) handle(ctx context.Context, qc *QueryContext, root Handler) *QueryResult {
	qc.ID = uuid.New()
	handler := root
	for i := len(c.mdls) - 1; i >= 0; i-- {
		handler = c.mdls[i](handler)
	}
	return handler(ctx, qc)
}
