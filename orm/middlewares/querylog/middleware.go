package querylog

import (
	"context"
	"log/slog"

	"github.com/coderi421/smallorm/orm"
	"github.com/coderi421/smallorm/orm/value"
	"github.com/gotomicro/ekit/slice"
)

type MiddlewareBuilder struct {
	logFunc func(query string, args []any)
	// logErr 为 true 的时候，执行失败的语句会多打一条日志
	logErr bool
	logger *slog.Logger
}

func NewBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logger: slog.Default(),
	}
}

// LogFunc 替换默认的 slog 输出
func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m *MiddlewareBuilder) Logger(l *slog.Logger) *MiddlewareBuilder {
	m.logger = l
	return m
}

func (m *MiddlewareBuilder) LogErr() *MiddlewareBuilder {
	m.logErr = true
	return m
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	logger := m.logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			args := slice.Map(qc.Query.Args, func(idx int, src value.Value) any {
				return src.Any()
			})
			if m.logFunc != nil {
				m.logFunc(qc.Query.SQL, args)
			} else {
				logger.InfoContext(ctx, "orm: query",
					slog.String("id", qc.ID.String()),
					slog.String("type", qc.Type),
					slog.String("sql", qc.Query.SQL),
					slog.Any("args", args))
			}
			res := next(ctx, qc)
			if m.logErr && res.Err != nil {
				logger.ErrorContext(ctx, "orm: query failed",
					slog.String("id", qc.ID.String()),
					slog.String("sql", qc.Query.SQL),
					slog.Any("err", res.Err))
			}
			return res
		}
	}
}
