package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fable/internal/ai"
	"fable/internal/config"
	"fable/internal/handler"
	authHandler "fable/internal/handler/auth"
	bookHandler "fable/internal/handler/book"
	"fable/internal/pkg/assets"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/imagegen"
	"fable/internal/pkg/jwt"
	"fable/internal/pkg/mongodb"
	"fable/internal/pkg/storagefactory"
	authRepo "fable/internal/repository/auth"
	bookRepo "fable/internal/repository/book"
	"fable/internal/server/middleware"
	"fable/internal/service"
	bookService "fable/internal/service/book"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New 创建服务器实例，按配置装配各组件。
// MongoDB 是书籍相关接口的硬依赖；Redis、图片生成、提示词草拟均为可选，
// 未配置时对应能力降级而非启动失败。
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			// 创建索引
			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	// 设置路由
	if err := srv.setupRoutes(); err != nil {
		return nil, err
	}

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() error {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if s.mongo == nil {
		log.Warn().Msg("MongoDB not configured, API endpoints disabled")
		return nil
	}

	// JWT 参数，未配置时使用默认值
	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}

	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}

	refreshTokenExpiry := s.cfg.Auth.RefreshTokenExpiry
	if refreshTokenExpiry == 0 {
		refreshTokenExpiry = 7 * 24 * time.Hour
	}

	// 认证
	userRepo := authRepo.NewUserRepo(s.mongo.Database())
	refreshTokenRepo := authRepo.NewRefreshTokenRepo(s.mongo.Database())
	authSvc := service.NewAuthService(
		userRepo,
		refreshTokenRepo,
		jwtSecret,
		accessTokenExpiry,
		refreshTokenExpiry,
	)
	authHdl := authHandler.NewHandler(authSvc)

	// 资产存储
	backend, err := storagefactory.NewStorage(context.Background(), &s.cfg.Storage)
	if err != nil {
		return err
	}
	assetStore := assets.NewStore(backend)

	// 图片生成 (可选)
	var imageProvider imagegen.Provider
	if s.cfg.ImageGen.APIKey != "" {
		provider, err := imagegen.NewArkProvider(s.cfg.ImageGen)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize image provider, continuing without it")
		} else {
			imageProvider = provider
			log.Info().Str("model", provider.ModelName()).Msg("initialized image provider")
		}
	}

	// 提示词草拟 (可选)
	var drafter bookService.PromptDrafter
	if s.cfg.AI.APIKey != "" {
		client, err := ai.NewClient(context.Background(), &s.cfg.AI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize prompt drafter, continuing without it")
		} else {
			drafter = client
			log.Info().Str("provider", s.cfg.AI.Provider).Str("model", s.cfg.AI.Model).Msg("initialized prompt drafter")
		}
	}

	// 书籍
	bookSvc := bookService.NewService(
		bookRepo.NewBookRepo(s.mongo.Database()),
		assetStore,
		imageProvider,
		drafter,
	)
	if s.redis != nil {
		bookSvc.SetURLCache(s.redis)
	}
	bookHdl := bookHandler.NewHandler(bookSvc)

	// API v1
	v1 := s.engine.Group("/api/v1")

	// 认证接口（公开）
	v1.POST("/auth/register", authHdl.Register)
	v1.POST("/auth/login", authHdl.Login)
	v1.POST("/auth/refresh", authHdl.Refresh)

	// 需要认证的接口
	authed := v1.Group("")
	authed.Use(middleware.Auth(jwt.NewJWT(jwtSecret, accessTokenExpiry)))
	{
		authed.POST("/auth/logout", authHdl.Logout)
		authed.GET("/auth/me", authHdl.Me)

		bookHdl.RegisterRoutes(authed)
	}

	return nil
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
