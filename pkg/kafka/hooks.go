package kafka

import (
	"context"
	"time"

	applogger "AstroChart/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling. BeforeHandle may replace the
// context; returning an error skips the handler and sends the message down
// the failure path (OnError, DLQ, commit).
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, km kafka.Message) (context.Context, error)
	AfterHandle(ctx context.Context, km kafka.Message, attempt int, err error)
	OnError(ctx context.Context, km kafka.Message, err error)
}

// NoopHook does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ kafka.Message) (context.Context, error) {
	return ctx, nil
}

func (NoopHook) AfterHandle(context.Context, kafka.Message, int, error) {}

func (NoopHook) OnError(context.Context, kafka.Message, error) {}

type ctxKey string

const (
	// CtxStartTime holds time.Time for when handling started.
	CtxStartTime ctxKey = "kafka_hook_start_time"
	// CtxTraceID holds the trace_id header, when present.
	CtxTraceID ctxKey = "kafka_hook_trace_id"
)

// ExtractTraceID returns the trace_id header of msg, or "".
func ExtractTraceID(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "trace_id" && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return ""
}

// LoggingHook stamps the context with start time and trace id, and logs
// failed attempts.
type LoggingHook struct {
	Log *applogger.Logger
}

func (h LoggingHook) BeforeHandle(ctx context.Context, km kafka.Message) (context.Context, error) {
	ctx = context.WithValue(ctx, CtxStartTime, time.Now())
	if id := ExtractTraceID(km); id != "" {
		ctx = context.WithValue(ctx, CtxTraceID, id)
	}
	return ctx, nil
}

func (h LoggingHook) AfterHandle(ctx context.Context, km kafka.Message, attempt int, err error) {
	if err == nil || h.Log == nil {
		return
	}
	fields := []applogger.Field{
		applogger.String("topic", km.Topic),
		applogger.Int("partition", km.Partition),
		applogger.Int("attempt", attempt),
		applogger.Error(err),
	}
	if start, ok := ctx.Value(CtxStartTime).(time.Time); ok {
		fields = append(fields, applogger.Duration("elapsed_ms", time.Since(start)))
	}
	h.Log.Warn("kafka handler attempt failed", fields...)
}

func (h LoggingHook) OnError(_ context.Context, km kafka.Message, err error) {
	if h.Log == nil {
		return
	}
	h.Log.Error("kafka message failed",
		applogger.String("topic", km.Topic),
		applogger.Int("partition", km.Partition),
		applogger.Any("offset", km.Offset),
		applogger.Error(err),
	)
}
