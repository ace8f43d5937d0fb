package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/alexpase322/jornixs-backend/config"
	"github.com/alexpase322/jornixs-backend/internal/api/handler"
	"github.com/alexpase322/jornixs-backend/internal/api/router"
	"github.com/alexpase322/jornixs-backend/internal/repository"
	"github.com/alexpase322/jornixs-backend/internal/service"
	"github.com/alexpase322/jornixs-backend/pkg/database"
	"github.com/alexpase322/jornixs-backend/pkg/jwt"
	applogger "github.com/alexpase322/jornixs-backend/pkg/logger"
	"github.com/alexpase322/jornixs-backend/pkg/mailer"
	"github.com/alexpase322/jornixs-backend/pkg/redis"
)

// nopTokenStore Redis 不可用时的降级实现：不记录黑名单
type nopTokenStore struct{}

func (nopTokenStore) BlacklistToken(context.Context, string, time.Duration) error { return nil }
func (nopTokenStore) IsBlacklisted(context.Context, string) (bool, error)         { return false, nil }

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	var tokens service.TokenStore = nopTokenStore{}
	if rdb != nil {
		tokens = rdb
	}

	// 5. 初始化 JWT 管理器与邮件发送器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	var mail mailer.Sender = mailer.NopSender{}
	if cfg.Mail.Enabled {
		mail = mailer.NewSMTPSender(&cfg.Mail, logger)
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	tx := repository.NewTxRunner(db)
	svc := service.NewService(cfg, repo, tx, jwtMgr, tokens, mail, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
