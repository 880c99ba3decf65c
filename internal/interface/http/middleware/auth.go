package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/membership/pkg/auditor"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/jwt"
	"github.com/xiebiao/membership/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性
// 3. 把操作人（Token的Subject）放入请求Context，审计回调据此写入created_by/last_modified_by
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	required   bool
}

// NewAuthMiddleware 创建认证中间件
// required为false时没有Token的请求按匿名处理（审计字段使用默认操作人）
func NewAuthMiddleware(jwtManager *jwt.Manager, required bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		required:   required,
	}
}

// Handle 认证
// 使用方式：
//
//	r.Use(authMiddleware.Handle())
//
// 带了Token但Token无效时总是返回401，不降级为匿名
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if m.required {
				response.Abort(c, apperrors.ErrUnauthorized)
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		claims, err := m.jwtManager.ParseToken(parts[1])
		if err != nil {
			response.Abort(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			return
		}

		c.Request = c.Request.WithContext(auditor.WithActor(c.Request.Context(), claims.Actor()))
		c.Next()
	}
}
