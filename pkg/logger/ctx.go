package logger

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

const logIDKey = "logID"

type logCtxKey struct{}

var logCtx logCtxKey

type LogID [8]byte

func (lid LogID) String() string {
	return hex.EncodeToString(lid[:])
}

func (lid LogID) IsValid() bool {
	return lid != LogID{}
}

type logContext struct {
	StartTime time.Time
	LogID     LogID
}

func (lgCtx *logContext) ToFields() []zap.Field {
	if lgCtx == nil {
		return nil
	}
	return []zap.Field{zap.String(logIDKey, lgCtx.LogID.String())}
}

func getAttrs(ctx context.Context) []zap.Field {
	lgCtx, _ := ctx.Value(&logCtx).(*logContext)
	return lgCtx.ToFields()
}

// Context attaches a fresh log id to ctx unless one is already present.
func (l *logger) Context(ctx context.Context) context.Context {
	_, ok := ctx.Value(&logCtx).(*logContext)
	if ok {
		return ctx
	}

	lgCtx := &logContext{
		LogID:     newLogID(),
		StartTime: time.Now(),
	}
	return context.WithValue(ctx, &logCtx, lgCtx)
}

func newLogID() LogID {
	lid := LogID{}
	for {
		_, _ = crand.Read(lid[:])
		if lid.IsValid() {
			return lid
		}
	}
}
