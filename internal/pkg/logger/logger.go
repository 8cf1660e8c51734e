// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init 设置全局日志的服务名和级别，在进程启动时调用一次。
func Init(serviceName string) {
	base = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Logger 返回全局 logger。
func Logger() *zerolog.Logger {
	return &base
}

// Ctx 返回一个绑定了当前 trace_id/span_id 的 logger，
// 这样日志可以和 Jaeger 里的链路对上。
func Ctx(ctx context.Context) *zerolog.Logger {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return &base
	}
	l := base.With().
		Str("trace_id", span.TraceID().String()).
		Str("span_id", span.SpanID().String()).
		Logger()
	return &l
}
