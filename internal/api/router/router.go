package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexpase322/jornixs-backend/config"
	"github.com/alexpase322/jornixs-backend/internal/api/handler"
	"github.com/alexpase322/jornixs-backend/internal/api/middleware"
	"github.com/alexpase322/jornixs-backend/internal/model"
	"github.com/alexpase322/jornixs-backend/pkg/jwt"
	"github.com/alexpase322/jornixs-backend/pkg/redis"
)

const maxBodyBytes = 1 << 20 // 1MB，所有请求体均为小 JSON

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 打卡模块
			timeLogs := authorized.Group("/time-logs")
			{
				timeLogs.POST("/clock-in", h.TimeLog.ClockIn)
				timeLogs.POST("/events", h.TimeLog.RecordEvent)
				timeLogs.POST("/corrections", h.TimeLog.Correct)
				timeLogs.GET("", h.TimeLog.ListMyLogs)
			}

			// 考勤表模块（员工自助）
			timesheets := authorized.Group("/timesheets")
			{
				timesheets.POST("/submit", h.Timesheet.Submit)
				timesheets.POST("/:id/reopen", h.Timesheet.Reopen)
				timesheets.GET("/mine", h.Timesheet.GetMine)
			}

			// 报表模块（员工自助）
			authorized.GET("/reports/my-week", h.Report.MyWeeklySummary)

			// ── 管理员模块 ──
			admin := authorized.Group("/admin", adminOnly)
			{
				// 打卡补录与删除
				admin.POST("/time-logs/corrections", h.TimeLog.AdminCorrect)
				admin.DELETE("/time-logs/:id", h.TimeLog.AdminDeleteLog)

				// 考勤表审批
				admin.GET("/timesheets", h.Timesheet.List)
				admin.POST("/timesheets/:id/approve", h.Timesheet.Approve)
				admin.POST("/timesheets/:id/reject", h.Timesheet.Reject)

				// 员工管理
				admin.POST("/workers", h.Worker.Create)
				admin.GET("/workers", h.Worker.List)
				admin.GET("/workers/:id", h.Worker.Get)
				admin.PUT("/workers/:id", h.Worker.Update)
				admin.DELETE("/workers/:id", h.Worker.Deactivate)

				// 工作地点管理
				admin.POST("/locations", h.Location.Create)
				admin.GET("/locations", h.Location.List)
				admin.GET("/locations/:id", h.Location.Get)
				admin.PUT("/locations/:id", h.Location.Update)
				admin.DELETE("/locations/:id", h.Location.Delete)

				// 薪酬报表
				admin.GET("/reports/consolidated", h.Report.Consolidated)
				admin.GET("/reports/consolidated/export", h.Export.ExportConsolidated)
				admin.GET("/reports/workers/:id", h.Report.Detailed)
				admin.GET("/reports/dashboard", h.Report.Dashboard)

				// 审计日志
				admin.GET("/audit-logs", h.Audit.List)
			}
		}
	}

	return r
}
