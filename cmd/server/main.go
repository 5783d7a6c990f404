// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ai-studio-go/internal/config"
	"ai-studio-go/internal/handler"
	"ai-studio-go/internal/middleware"
	"ai-studio-go/internal/model"
	"ai-studio-go/internal/repository"
	"ai-studio-go/internal/service"
	"ai-studio-go/pkg/database"
	"ai-studio-go/pkg/llm"
	"ai-studio-go/pkg/log"
	"ai-studio-go/pkg/storage"
	"ai-studio-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 和对象存储，连接句柄由 main 统一持有和关闭
	db, err := database.NewMySQL(cfg.Database.MySQL.DSN)
	if err != nil {
		log.Fatalf("MySQL 初始化失败: %v", err)
	}
	defer database.CloseMySQL(db)

	rdb, err := database.NewRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err != nil {
		log.Fatalf("Redis 初始化失败: %v", err)
	}
	defer rdb.Close()

	store, err := storage.NewStorage(cfg.MinIO)
	if err != nil {
		log.Fatalf("MinIO 初始化失败: %v", err)
	}

	// 4. 自动迁移数据表
	if err := db.AutoMigrate(&model.User{}, &model.Project{}, &model.Source{}, &model.Message{}); err != nil {
		log.Fatalf("数据表迁移失败: %v", err)
	}

	// 5. 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sourceRepo := repository.NewSourceRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	blacklist := repository.NewTokenBlacklist(rdb)

	// 6. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenExpireDays)
	llmClient := llm.NewClient(cfg.LLM)
	assembler := service.NewContextAssembler(cfg.Context)
	userService := service.NewUserService(userRepo, blacklist, jwtManager)
	projectService := service.NewProjectService(projectRepo, sourceRepo, store)
	sourceService := service.NewSourceService(sourceRepo, projectRepo, store)
	chatService := service.NewChatService(projectRepo, sourceRepo, messageRepo, assembler, llmClient)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册页面路由与访问守卫
	r.Use(middleware.PageGuard(jwtManager))
	handler.NewPageHandler().Register(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 9. 注册 API 路由
	userHandler := handler.NewUserHandler(userService, jwtManager)
	projectHandler := handler.NewProjectHandler(projectService)
	sourceHandler := handler.NewSourceHandler(sourceService)
	chatHandler := handler.NewChatHandler(chatService, userService, jwtManager, blacklist)
	authRequired := middleware.AuthMiddleware(jwtManager, blacklist, userService)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/logout", authRequired, userHandler.Logout)
			auth.GET("/me", authRequired, userHandler.Me)
		}

		projects := apiV1.Group("/projects")
		projects.Use(authRequired)
		{
			projects.POST("", projectHandler.Create)
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.PATCH("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)

			projects.POST("/:id/sources", sourceHandler.Upload)
			projects.GET("/:id/sources", sourceHandler.List)
			projects.GET("/:id/sources/:sourceId", sourceHandler.Get)
			projects.DELETE("/:id/sources/:sourceId", sourceHandler.Delete)
			projects.GET("/:id/sources/:sourceId/download", sourceHandler.Download)

			projects.GET("/:id/messages", chatHandler.History)
		}

		chat := apiV1.Group("/chat")
		{
			chat.POST("", authRequired, chatHandler.Stream)
			chat.GET("/ws", chatHandler.HandleWS)
		}
	}

	// 10. 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("服务关闭异常: %v", err)
	}
	log.Info("服务已退出")
}
