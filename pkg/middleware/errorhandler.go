package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/media-api/pkg/apperror"
	"go.uber.org/zap"
)

// defaultErrorMessage はエラーメッセージが空の場合に返すメッセージ。
const defaultErrorMessage = "An unexpected server error occurred."

// errorResponse はエラーハンドラが返すJSON構造。
type errorResponse struct {
	// Message はエラーメッセージ。
	Message string `json:"message"`
	// Stack はスタックトレース。本番モード以外でのみ設定する。
	Stack string `json:"stack,omitempty"`
}

// ErrorHandler はハンドラがc.Errorで積んだエラーをJSONレスポンスに変換するGinミドルウェアを返す。
// 受け取ったエラーはすべてログに出力する。
// レスポンスが既に書き込まれている場合は二重に書き込まず、エラーはコンテキストに残す。
// exposeStackがtrueの場合はレスポンスにスタックトレースを含める。
func ErrorHandler(logger *zap.Logger, exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, ginErr := range c.Errors {
			logger.Error("リクエスト処理中にエラーが発生",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
				zap.Error(ginErr.Err),
			)
		}

		if c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		message := err.Error()
		if message == "" {
			message = defaultErrorMessage
		}

		resp := errorResponse{Message: message}
		if exposeStack {
			resp.Stack = fmt.Sprintf("%+v", err)
		}

		c.AbortWithStatusJSON(apperror.StatusCode(err), resp)
	}
}
