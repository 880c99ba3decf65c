package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appmember "github.com/xiebiao/membership/internal/application/member"
	"github.com/xiebiao/membership/internal/infrastructure/config"
	"github.com/xiebiao/membership/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/membership/internal/interface/http/middleware"
	"github.com/xiebiao/membership/pkg/circuitbreaker"
	"github.com/xiebiao/membership/pkg/jwt"
)

// App 组装完成的应用
type App struct {
	Engine *gin.Engine
	Seed   *appmember.SeedMembersUseCase
}

func newApp(engine *gin.Engine, seed *appmember.SeedMembersUseCase) *App {
	return &App{Engine: engine, Seed: seed}
}

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取
// 这时需要编写自定义Provider函数

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expire)
}

// provideAuthMiddleware app.require_auth决定没有Token的请求是否放行
func provideAuthMiddleware(cfg *config.Config, jwtManager *jwt.Manager) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtManager, cfg.App.RequireAuth)
}

// provideUsernameCache Redis未启用时client为nil，缓存为空操作
// Redis故障时熔断，查询直接走数据库
func provideUsernameCache(client *goredis.Client, cfg *config.Config, log *zap.Logger) *redis.UsernameCache {
	cb := circuitbreaker.New("username-cache", circuitbreaker.Config{
		FailureThreshold: cfg.Redis.BreakerFailures,
		OpenTimeout:      cfg.Redis.BreakerOpenTimeout,
	})
	cb.OnStateChange(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	})
	return redis.NewUsernameCache(client, cfg.Redis.CacheTTL).WithBreaker(cb)
}
