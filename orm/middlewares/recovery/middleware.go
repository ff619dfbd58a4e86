package recovery

import (
	"context"
	"log/slog"

	"github.com/coderi421/smallorm/orm"
	"github.com/coderi421/smallorm/orm/internal/errs"
)

// MiddlewareBuilder 把 Connection 里面的 panic 转换成 orm.ErrPanic
type MiddlewareBuilder struct {
	LogFunc func(ctx context.Context, qc *orm.QueryContext, err any)
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	logFunc := m.LogFunc
	if logFunc == nil {
		logFunc = func(ctx context.Context, qc *orm.QueryContext, err any) {
			slog.ErrorContext(ctx, "orm: recovered from panic",
				slog.String("id", qc.ID.String()),
				slog.String("sql", qc.Query.SQL),
				slog.Any("panic", err))
		}
	}
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) (res *orm.QueryResult) {
			defer func() {
				if r := recover(); r != nil {
					// 万一 LogFunc 也 panic，那我们也无能为力了
					logFunc(ctx, qc, r)
					res = &orm.QueryResult{Err: errs.NewErrPanic(r)}
				}
			}()
			return next(ctx, qc)
		}
	}
}
