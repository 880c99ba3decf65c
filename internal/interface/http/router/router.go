// Package router 组装Gin引擎：全局中间件与路由
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/membership/docs" // swagger文档
	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/internal/infrastructure/config"
	"github.com/xiebiao/membership/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/membership/internal/interface/http/handler"
	"github.com/xiebiao/membership/internal/interface/http/middleware"
	"github.com/xiebiao/membership/pkg/response"
)

const slowRequestThreshold = 3 * time.Second

// New 创建Gin引擎
//
// 中间件执行顺序：
// Logger → Recovery → Tracing → Metrics → 路由匹配 → Auth → 持久化上下文 → Handler
func New(
	cfg *config.Config,
	log *zap.Logger,
	txManager *orm.TxManager,
	memberRepo member.Repository,
	memberHandler *handler.MemberHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Logger(log.Named("http"), slowRequestThreshold))
	r.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	// 生产环境建议禁用Swagger或添加访问控制
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("")
	api.Use(authMiddleware.Handle())
	api.Use(middleware.OpenEntityManagerInView(txManager))
	{
		api.GET("/members", memberHandler.ListMembers)
		api.GET("/members/:id", memberHandler.FindMember)
		api.GET("/members2/:id", middleware.BindMember(memberRepo), memberHandler.FindMemberByEntity)
		api.POST("/members/age-plus", memberHandler.BulkAgePlus)
	}

	return r
}
