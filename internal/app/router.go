package app

import (
	"peerlearn_backend/docs"
	"peerlearn_backend/internal/config"
	"peerlearn_backend/internal/middleware"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由（员工/通用）
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerEmployeeRoutes(authGroup, c)
	}

	// 3. 管理端接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 邀请落地页：游客可看，登录用户走同一入口
		public.GET("/invitations/:token", middleware.TryAuthMiddleware(a.Config), c.invitation.Preview)
	}
}

func (a *App) registerEmployeeRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.GET("/organization", c.user.GetOrganization)

	// 活动与答题
	rg.GET("/campaigns", c.campaign.List)
	rg.GET("/campaigns/:id", c.campaign.Get)
	rg.POST("/campaigns/:id/responses", c.response.Submit)
	rg.GET("/campaigns/:id/responses/mine", c.response.ListOwn)

	// 同伴对比
	rg.GET("/campaigns/:id/insight", c.insight.GetInsight)
	rg.GET("/campaigns/:id/comparison", c.insight.GetComparison)
	rg.GET("/campaigns/:id/insight/export", c.insight.Export)

	// 视频
	rg.GET("/videos", c.video.List)
	rg.GET("/videos/:id", c.video.Get)

	// 邀请兑换
	rg.POST("/invitations/:token/accept", c.invitation.Accept)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Manager, model.Admin),
	)
	{
		// 活动管理
		admin.POST("/campaigns", c.campaign.Create)
		admin.PUT("/campaigns/:id", c.campaign.Update)
		admin.POST("/campaigns/:id/publish", c.campaign.Publish)
		admin.DELETE("/campaigns/:id", c.campaign.Delete)
		admin.GET("/campaigns/:id/participation", c.response.Participation)

		// 邀请管理
		admin.POST("/campaigns/:id/invitations", c.invitation.Invite)
		admin.GET("/campaigns/:id/invitations", c.invitation.List)
		admin.DELETE("/invitations/:id", c.invitation.Revoke)

		// 视频管理
		admin.POST("/videos", c.video.Create)
		admin.POST("/videos/:id/upload", c.video.Upload)
		admin.PUT("/videos/:id", c.video.Update)
		admin.DELETE("/videos/:id", c.video.Delete)

		// 制作台
		admin.POST("/videos/:id/generate", c.generation.Enqueue)
		admin.GET("/videos/:id/generation-jobs", c.generation.ListByVideo)
		admin.GET("/generation-jobs/:id", c.generation.Get)

		// 员工名册
		admin.GET("/employees", c.user.ListEmployees)
		admin.PUT("/employees/:id/disabled", c.user.SetDisabled)
	}
}
