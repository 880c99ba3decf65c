// Package response HTTP响应
//
// 三种响应形式：
//   - Text: 纯文本（GET /members/{id}）
//   - Page: 分页结果直接序列化，不包信封（GET /members）
//   - Success/Error: {code, message, data} 信封（其余接口与所有错误）
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/logger"
)

// Response 统一响应结构
// Code是业务错误码（非HTTP状态码），0表示成功
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Text 纯文本响应
func Text(c *gin.Context, body string) {
	c.String(http.StatusOK, body)
}

// Page 分页响应，page自己负责JSON格式（见pagination.Page.MarshalJSON）
func Page(c *gin.Context, page interface{}) {
	c.JSON(http.StatusOK, page)
}

// Error 错误响应
// AppError按Code映射HTTP状态码；其他错误按系统内部错误处理
// 内部原因只进日志，不返回给客户端
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Err != nil {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(apperrors.HTTPStatus(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// Abort 中间件中使用：写错误响应并终止后续Handler
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), Response{
		Code:    code,
		Message: message,
	})
}
