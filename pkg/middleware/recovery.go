package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/media-api/pkg/apperror"
	"github.com/pkg/errors"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニックは内部エラーとしてコンテキストに積まれ、レスポンスの生成は
// ErrorHandlerに任せる。ErrorHandlerより内側で使用すること。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := errors.WithStack(fmt.Errorf("panic: %v", r))
				_ = c.Error(&apperror.Error{
					Kind:    apperror.KindInternal,
					Message: defaultErrorMessage,
					Err:     err,
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
