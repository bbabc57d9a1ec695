package middleware

import (
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newObservedLogger はログ出力を検証するためのロガーを生成する。
func newObservedLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// newErrorRouter はErrorHandlerとRecoveryを適用したテスト用ルーターを生成する。
func newErrorRouter(t *testing.T, exposeStack bool) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	logger, logs := newObservedLogger(t)

	router := gin.New()
	router.Use(RequestID())
	router.Use(ErrorHandler(logger, exposeStack))
	router.Use(Recovery())
	return router, logs
}
