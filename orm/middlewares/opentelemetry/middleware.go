package opentelemetry

import (
	"context"

	"github.com/coderi421/smallorm/orm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/coderi421/smallorm/orm/middlewares/opentelemetry"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			// span 名字：SELECT-user，RAW 语句没有表名
			name := qc.Type
			if qc.Table != "" {
				name = name + "-" + qc.Table
			}
			spanCtx, span := m.Tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(
				attribute.String("db.operation", qc.Type),
				attribute.String("db.sql.table", qc.Table),
				attribute.String("db.statement", qc.Query.SQL),
				attribute.Int("db.args", len(qc.Query.Args)),
				attribute.String("orm.query_id", qc.ID.String()),
			)

			res := next(spanCtx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
				span.SetStatus(codes.Error, res.Err.Error())
			}
			return res
		}
	}
}
