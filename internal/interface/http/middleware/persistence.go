package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/membership/internal/infrastructure/persistence/orm"
)

// OpenEntityManagerInView 请求级持久化上下文
// 教学要点：
// 1. 整个请求共享一个持久化上下文，Handler中仍然可以延迟加载团队
// 2. 请求内的事务加入这个上下文，事务结束后实体仍被管理
// 3. 请求结束时清空，实体脱管
func OpenEntityManagerInView(txManager *orm.TxManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, closeEM := txManager.OpenEntityManager(c.Request.Context())
		defer closeEM()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
