package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"peerlearn_backend/internal/config"
	"peerlearn_backend/internal/controller"
	"peerlearn_backend/internal/repository"
	"peerlearn_backend/internal/service"
	"peerlearn_backend/pkg/configwatcher"
	"peerlearn_backend/pkg/database"
	"peerlearn_backend/pkg/logger"
	"peerlearn_backend/pkg/monitoring"
	"peerlearn_backend/pkg/security"
	"peerlearn_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	org        *repository.OrganizationRepository
	campaign   *repository.CampaignRepository
	video      *repository.VideoRepository
	generation *repository.GenerationJobRepository
	response   *repository.ResponseRepository
	invitation *repository.InvitationRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	campaign   *service.CampaignService
	video      *service.VideoService
	response   *service.ResponseService
	comparison *service.ComparisonService
	export     *service.ExportService
	invitation *service.InvitationService
	generation *service.GenerationService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	campaign   *controller.CampaignController
	video      *controller.VideoController
	response   *controller.ResponseController
	insight    *controller.InsightController
	invitation *controller.InvitationController
	generation *controller.GenerationController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		org:        repository.NewOrganizationRepository(db),
		campaign:   repository.NewCampaignRepository(db),
		video:      repository.NewVideoRepository(db),
		generation: repository.NewGenerationJobRepository(db),
		response:   repository.NewResponseRepository(db),
		invitation: repository.NewInvitationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.org)
	s.campaign = service.NewCampaignService(repos.campaign)
	s.video = service.NewVideoService(repos.video)

	s.comparison = service.NewComparisonService(repos.campaign, repos.video, repos.response, rdb, cfg)
	s.export = service.NewExportService(s.comparison)
	s.response = service.NewResponseService(repos.response, repos.campaign, s.comparison)

	s.invitation = service.NewInvitationService(repos.invitation, repos.user)
	s.generation = service.NewGenerationService(repos.generation, repos.video, s.storage, cfg)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		campaign:   controller.NewCampaignController(s.campaign),
		video:      controller.NewVideoController(s.video, s.storage),
		response:   controller.NewResponseController(s.response),
		insight:    controller.NewInsightController(s.comparison, s.export),
		invitation: controller.NewInvitationController(s.invitation),
		generation: controller.NewGenerationController(s.generation),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// redis 只承担缓存，起不来就降级为每次全量计算
		logger.Log.Warn("Redis unavailable, insight caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("peerlearn-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置热加载：目前只支持调低/调高聚合阈值和缓存 TTL
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		services.comparison.MinResponses = newCfg.Insights.MinResponses
		services.comparison.CacheTTL = time.Duration(newCfg.Insights.CacheTTLMinutes) * time.Minute
		logger.Log.Info("insights config reloaded",
			zap.Int("minResponses", newCfg.Insights.MinResponses),
			zap.Int("cacheTTLMinutes", newCfg.Insights.CacheTTLMinutes))
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
