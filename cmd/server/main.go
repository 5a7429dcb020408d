package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/auth"
	"github.com/Mohammedcode007/ByoutBackNew/internal/config"
	"github.com/Mohammedcode007/ByoutBackNew/internal/database"
	"github.com/Mohammedcode007/ByoutBackNew/internal/expo"
	"github.com/Mohammedcode007/ByoutBackNew/internal/handlers"
	"github.com/Mohammedcode007/ByoutBackNew/internal/logger"
	"github.com/Mohammedcode007/ByoutBackNew/internal/middleware"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/repository"
	"github.com/Mohammedcode007/ByoutBackNew/internal/routes"
	"github.com/Mohammedcode007/ByoutBackNew/internal/service"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	defer log.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.Mongo.URI, cfg.Mongo.Database, log)
	if err != nil {
		log.Fatal("mongo connect failed", zap.Error(err))
	}

	tokenMgr, err := auth.NewManager(cfg.JWT.Secret, cfg.AccessTTL)
	if err != nil {
		log.Fatal("jwt manager", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	pushClient := expo.NewClient(cfg.Expo.URL, cfg.Expo.BatchSize, cfg.ExpoTimeout, log)

	authSvc := service.NewAuthService(userRepo, tokenMgr)
	userSvc := service.NewUserService(userRepo)
	propertySvc := service.NewPropertyService(propertyRepo)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, propertyRepo)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, propertyRepo, pushClient, log)

	validate := validator.New()

	var rateLimit fiber.Handler
	if cfg.Redis.Addr != "" {
		rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			limiter := middleware.NewRateLimiter(rdb, cfg.Redis.Prefix, cfg.RateLimit.Limit, cfg.RateLimitWindow, log)
			rateLimit = limiter.MiddlewareByKey(middleware.ByIP)
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(helmet.New())

	routes.Setup(app, routes.Deps{
		Auth:          handlers.NewAuthHandler(authSvc, validate, log),
		Users:         handlers.NewUserHandler(userSvc, validate, log),
		Properties:    handlers.NewPropertyHandler(propertySvc, validate, log),
		Favorites:     handlers.NewFavoriteHandler(favoriteSvc, log),
		Notifications: handlers.NewNotificationHandler(notificationSvc, validate, log),
		AuthMW:        middleware.JWTAuth(tokenMgr),
		AdminMW:       middleware.RequireRoles(models.RoleAdmin, models.RoleOwner),
		RateLimit:     rateLimit,
	})

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if err := database.Disconnect(context.Background()); err != nil {
		log.Error("mongo disconnect", zap.Error(err))
	}
}
