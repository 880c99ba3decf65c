//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如orm.NewMemberRepository）
// - Injector: 声明最终要构造的目标类型（*App）
// - wire.Bind: 把具体类型绑定到接口（*orm.TxManager → appmember.Transactor）

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appmember "github.com/xiebiao/membership/internal/application/member"
	"github.com/xiebiao/membership/internal/infrastructure/config"
	"github.com/xiebiao/membership/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/membership/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/membership/internal/interface/http/handler"
	"github.com/xiebiao/membership/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：数据库连接、Redis连接（都带cleanup）
var infrastructureSet = wire.NewSet(
	orm.NewDB,       // 按database.driver创建GORM连接
	redis.NewClient, // 创建Redis连接（未启用时为nil）
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	orm.NewMemberRepository, // 会员仓储
	orm.NewTxManager,        // 事务管理器
	provideUsernameCache,    // 用户名缓存
	wire.Bind(new(appmember.Transactor), new(*orm.TxManager)),
	wire.Bind(new(appmember.UsernameCache), new(*redis.UsernameCache)),
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appmember.NewFindMemberUseCase,  // 查询用户名
	appmember.NewListMembersUseCase, // 分页查询
	appmember.NewSeedMembersUseCase, // 种子数据
	appmember.NewBulkAgePlusUseCase, // 批量年龄加1
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewMemberHandler,
)

// InitializeApp 初始化整个应用
// cleanup按创建的逆序关闭Redis和数据库连接
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		middlewareSet,
		handlerSet,
		router.New,
		newApp,
	)
	return nil, nil, nil
}
