package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-complaints/backend/config"
	"campus-complaints/backend/internal/api/handler"
	"campus-complaints/backend/internal/api/middleware"
	"campus-complaints/backend/internal/model"
	"campus-complaints/backend/pkg/jwt"
	"campus-complaints/backend/pkg/redis"
)

// 全局请求体上限：附件上限再加表单字段余量
const bodyLimitMargin = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxSizeBytes + bodyLimitMargin))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录/注册带限流）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(model.RoleAdmin), h.User.List)
				users.GET("/faculty", middleware.RoleAuth(model.RoleAdmin), h.User.ListFaculty)
				users.GET("/:id", h.User.Get)        // admin 或本人（Service 层鉴权）
				users.PATCH("/:id", h.User.Update)   // admin 或本人（Service 层鉴权）
				users.PUT("/:id/role", middleware.RoleAuth(model.RoleAdmin), h.User.AssignRole)
			}

			// 分类模块（读取开放，写仅管理员）
			categories := authorized.Group("/categories")
			{
				categories.GET("", h.Category.List)
				categories.GET("/:id", h.Category.Get)
				categories.POST("", middleware.RoleAuth(model.RoleAdmin), h.Category.Create)
				categories.PATCH("/:id", middleware.RoleAuth(model.RoleAdmin), h.Category.Update)
				categories.POST("/:id/subcategories", middleware.RoleAuth(model.RoleAdmin), h.Category.CreateSubcategory)
			}

			// 投诉模块（细粒度权限由授权表在 Service 层裁决）
			complaints := authorized.Group("/complaints")
			{
				complaints.POST("", middleware.RoleAuth(model.RoleStudent), h.Complaint.Create)
				complaints.GET("", h.Complaint.List)
				complaints.GET("/stats", h.Complaint.Stats)
				complaints.GET("/:no", h.Complaint.Get)
				complaints.GET("/:no/history", h.Complaint.History)
				complaints.POST("/:no/assign", middleware.RoleAuth(model.RoleAdmin), h.Complaint.Assign)
				complaints.PATCH("/:no/status", h.Complaint.UpdateStatus)
				complaints.POST("/:no/reopen", h.Complaint.Reopen)
				complaints.POST("/:no/feedback", middleware.RoleAuth(model.RoleStudent), h.Complaint.CreateFeedback)
				complaints.GET("/:no/feedback", h.Complaint.GetFeedback)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 导出模块（仅管理员）
			export := authorized.Group("/export")
			{
				export.GET("/complaints", middleware.RoleAuth(model.RoleAdmin), h.Export.ExportComplaints)
			}
		}
	}

	return r
}
