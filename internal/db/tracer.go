package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func newQueryTracer(logger *zap.Logger) *queryTracer {
	return &queryTracer{logger: logger}
}

// queryTracer emits one log line per executed query with the SQL text,
// elapsed time, and row count. Failures are logged and the underlying error
// still surfaces unchanged to the caller.
type queryTracer struct {
	logger *zap.Logger
}

type queryStartKey struct{}

type queryStart struct {
	sql   string
	begin time.Time
}

func (t *queryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	return context.WithValue(
		ctx,
		queryStartKey{},
		queryStart{sql: data.SQL, begin: time.Now()},
	)
}

func (t *queryTracer) TraceQueryEnd(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(start.begin)

	if data.Err != nil {
		t.logger.Error(
			"query failed",
			zap.String("sql", start.sql),
			zap.Duration("elapsed", elapsed),
			zap.Error(data.Err),
		)
		return
	}

	t.logger.Info(
		"executed query",
		zap.String("sql", start.sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", data.CommandTag.RowsAffected()),
	)
}
