package main

import (
	"log"
	"time"

	"connectly/config"
	"connectly/handler"
	"connectly/middleware"
	"connectly/model"
	"connectly/seeder"
	"connectly/service"
	"connectly/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// 服务端统一使用 UTC
	time.Local = time.UTC
}

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := utils.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer utils.CloseDB()

	// 建表/迁移
	err := utils.GetDB().AutoMigrate(
		&model.User{},
		&model.FollowRequest{},
		&model.Group{},
		&model.GroupMember{},
		&model.GroupMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis 可选：只用于登出后的 Token 吊销
	if cfg.RedisURL != "" {
		if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer utils.CloseRedis()
	} else {
		log.Println("REDIS_URL not set, token revocation disabled")
	}

	// 初始化认证中间件
	middleware.InitAuth(cfg.JWTSecret, utils.GetRedis())

	// 演示数据
	if cfg.SeedDemoData {
		if err := seeder.Run(utils.GetDB()); err != nil {
			log.Printf("Warning: failed to seed demo data: %v", err)
		}
	}

	// 创建服务
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authSvc := service.NewAuthService(utils.GetDB(), utils.GetRedis(), cfg.JWTSecret, tokenTTL)
	profileSvc := service.NewProfileService(utils.GetDB())
	followSvc := service.NewFollowService(utils.GetDB())
	groupSvc := service.NewGroupService(utils.GetDB())
	msgSvc := service.NewGroupMessageService(utils.GetDB())

	// 创建处理器
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	followHandler := handler.NewFollowHandler(followSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	msgHandler := handler.NewGroupMessageHandler(msgSvc)

	// 创建 Gin 路由
	r := gin.Default()

	// 统一错误处理 + 请求指标
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	// 健康检查与指标
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 公开接口
	r.POST("/api/v1/auth/register", authHandler.Register)
	r.POST("/api/v1/auth/login", authHandler.Login)

	// 需要认证的接口
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/auth/logout", authHandler.Logout)

		// 用户资料
		api.GET("/profiles", profileHandler.ListProfiles)
		api.GET("/profiles/:id", profileHandler.GetProfile)
		api.POST("/profiles/me", profileHandler.EditProfile)

		// 关注关系
		api.GET("/follows", followHandler.Dashboard)
		api.POST("/follows", followHandler.Send)
		api.POST("/follows/:id/accept", followHandler.Accept)
		api.POST("/follows/:id/reject", followHandler.Reject)

		// 群组
		api.GET("/groups", groupHandler.ListGroups)
		api.POST("/groups", groupHandler.CreateGroup)
		api.GET("/groups/:id", groupHandler.GetGroup)
		api.POST("/groups/:id/join", groupHandler.Join)
		api.POST("/groups/:id/leave", groupHandler.Leave)
		api.DELETE("/groups/:id", groupHandler.DeleteGroup)
		api.POST("/memberships/:id/approve", groupHandler.ApproveMember)
		api.POST("/memberships/:id/reject", groupHandler.RejectMember)

		// 群组消息
		api.POST("/groups/:id/messages", msgHandler.PostMessage)
		api.POST("/messages/:id", msgHandler.EditMessage)
		api.DELETE("/messages/:id", msgHandler.DeleteMessage)
	}

	// 启动服务
	log.Printf("connectly service starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
