// Package orm 基于GORM的持久化实现
//
// 组成：
//   - db.go：按配置选择驱动（mysql/postgres/sqlite）、连接池、迁移
//   - audit.go：审计回调（member表的创建/修改时间和操作人）
//   - entity_manager.go：持久化上下文（一级缓存 + 脏检查）
//   - tx_manager.go：事务边界，事务内共享同一个持久化上下文
//   - member_repo.go / team_repo.go：仓储实现
package orm

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/membership/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，驱动由database.driver决定
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志输出到zap（log.sql开启时打印每条SQL）
// 4. 注册审计回调和追踪插件
// 5. 自动迁移表结构（database.auto_migrate）
//
// 返回的cleanup关闭底层连接池
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	logLevel := gormlogger.Warn
	if cfg.Log.SQL {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log.Named("gorm"), logLevel, cfg.Database.SlowThreshold),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.InMemory() {
		// 内存库的每个连接都是独立的数据库，只能使用一个连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	if err := registerAuditCallbacks(db, cfg.Audit.DefaultAuditor); err != nil {
		return nil, nil, fmt.Errorf("注册审计回调失败: %w", err)
	}
	if err := db.Use(tracingPlugin{}); err != nil {
		return nil, nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if cfg.Database.AutoMigrate {
		if err := autoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.Driver)
	}
}

// autoMigrate 自动迁移表结构
// team先于member创建（member.team_id外键引用team）
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&TeamModel{},
		&MemberModel{},
	)
}
