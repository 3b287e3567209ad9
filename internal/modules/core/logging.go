package core

import (
	"context"
	"sync/atomic"

	"github.com/eskrenkovic/mediator-go"

	"go.uber.org/zap"
)

var rootLogger atomic.Pointer[zap.Logger]

func init() {
	rootLogger.Store(zap.NewNop())
}

// SetLogger installs the process-wide logger used by helpers that have no
// handle on the composition root, e.g. response writing.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		rootLogger.Store(logger)
	}
}

func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	if correlationID, ok := ctx.Value(CorrelationIDContextKey).(string); ok && correlationID != "" {
		fields = append(fields, zap.String("correlation_id", correlationID))
	}

	rootLogger.Load().Error(msg, fields...)
}

var _ mediator.PipelineBehavior = (*RequestLoggingBehavior)(nil)

type RequestLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *RequestLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	var logFields []zap.Field

	correlationID := ctx.Value(CorrelationIDContextKey)
	if correlationID != nil && correlationID != "" {
		logFields = append(logFields, zap.Any("correlation_id", correlationID))
	}

	logFields = append(logFields, zap.Any("request_body", request))

	b.Logger.Info("processing request", logFields...)

	return next(ctx, request)
}

var _ mediator.PipelineBehavior = (*HandlerErrorLoggingBehavior)(nil)

type HandlerErrorLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *HandlerErrorLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	response, err := next(ctx, request)
	if err != nil {
		b.Logger.Error("handler returned error", zap.Error(err))
	}

	return response, err
}
