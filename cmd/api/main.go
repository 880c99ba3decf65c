// @title           Membership API
// @version         1.0
// @description     会员与团队数据访问示例服务
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer {token}，使用 -issue-token 生成
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/membership/internal/infrastructure/config"
	"github.com/xiebiao/membership/pkg/logger"
	"github.com/xiebiao/membership/pkg/metrics"
	"github.com/xiebiao/membership/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

// main 服务启动入口
//
// 启动流程：
// 配置 → 日志 → 指标/链路 → Wire组装 → 种子数据 → HTTP服务 → 优雅关闭
func main() {
	configDir := flag.String("config", "", "配置文件目录（默认./config和当前目录）")
	issueToken := flag.String("issue-token", "", "为指定操作人签发JWT后退出")
	flag.Parse()

	// 步骤1: 加载配置
	var dirs []string
	if *configDir != "" {
		dirs = append(dirs, *configDir)
	}
	cfg, err := config.Load(dirs...)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 步骤2: 初始化日志
	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if *issueToken != "" {
		token, err := provideJWTManager(cfg).GenerateToken(*issueToken)
		if err != nil {
			zlog.Fatal("签发Token失败", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	// 步骤3: 指标与链路追踪
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}
	shutdownTracer, err := tracing.InitTracer(tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		zlog.Fatal("初始化链路追踪失败", zap.Error(err))
	}

	// 步骤4: 依赖组装（wire_gen.go）
	app, cleanup, err := InitializeApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	// 步骤5: 种子数据
	if cfg.App.SeedMembers {
		n, err := app.Seed.Execute(context.Background(), cfg.App.SeedCount)
		if err != nil {
			zlog.Fatal("写入种子数据失败", zap.Error(err))
		}
		zlog.Info("种子数据", zap.Int("inserted", n))
	}

	// 步骤6: 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("HTTP服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("driver", cfg.Database.Driver),
			zap.Bool("cache", cfg.Redis.Enabled),
			zap.Bool("require_auth", cfg.App.RequireAuth),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP服务启动失败", zap.Error(err))
		}
	}()

	// 步骤7: 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zlog.Info("正在关闭服务", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("HTTP服务强制关闭", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		zlog.Warn("刷出Span失败", zap.Error(err))
	}
	zlog.Info("服务已关闭")
}
