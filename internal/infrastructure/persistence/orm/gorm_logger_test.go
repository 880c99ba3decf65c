package orm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/membership/pkg/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		want    zapcore.Level
		logged  bool
	}{
		{"执行失败", gormlogger.Warn, 0, errors.New("boom"), zapcore.ErrorLevel, true},
		{"记录不存在不算错误", gormlogger.Warn, 0, gorm.ErrRecordNotFound, 0, false},
		{"慢SQL", gormlogger.Warn, 200 * time.Millisecond, nil, zapcore.WarnLevel, true},
		{"普通SQL只在Info级别输出", gormlogger.Warn, 0, nil, 0, false},
		{"Info级别", gormlogger.Info, 0, nil, zapcore.DebugLevel, true},
		{"静默", gormlogger.Silent, 0, errors.New("boom"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			l := newGormLogger(zap.New(core), tt.level, 100*time.Millisecond)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), sql, tt.err)

			if !tt.logged {
				assert.Zero(t, logs.Len())
				return
			}
			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.want, entries[0].Level)
				assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
			}
		})
	}
}

func TestGormLogger_ContextLogger(t *testing.T) {
	baseCore, baseLogs := observer.New(zapcore.DebugLevel)
	reqCore, reqLogs := observer.New(zapcore.DebugLevel)

	l := newGormLogger(zap.New(baseCore), gormlogger.Info, 0)
	ctx := logger.WithContext(context.Background(), zap.New(reqCore).With(zap.String("request_id", "req-1")))

	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, nil)

	assert.Zero(t, baseLogs.Len())
	if assert.Equal(t, 1, reqLogs.Len()) {
		assert.Equal(t, "req-1", reqLogs.All()[0].ContextMap()["request_id"])
	}
}
