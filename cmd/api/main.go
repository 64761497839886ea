package main

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"craftmarket/internal/config"
	"craftmarket/internal/database"
	"craftmarket/internal/middleware"
	"craftmarket/internal/modules/auth"
	"craftmarket/internal/modules/catalog"
	"craftmarket/internal/modules/chat"
	"craftmarket/internal/modules/notification"
	"craftmarket/internal/modules/order"
	"craftmarket/internal/modules/review"
	"craftmarket/internal/modules/upload"
	"craftmarket/internal/modules/user"
	jwtsvc "craftmarket/internal/pkg/jwt"
	"craftmarket/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	// Postgres schemas are managed by migrations; for sqlite (dev and
	// tests) AutoMigrate is enough.
	if !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal(err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	dispatcher := notification.NewDispatcher(notificationRepo)
	dispatcher.Start()
	defer dispatcher.Stop()

	notificationService := notification.NewService(notificationRepo, dispatcher)
	notificationHandler := notification.NewHandler(notificationService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	catalogService := catalog.NewService(serviceRepo, userRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	orderService := order.NewService(orderRepo, serviceRepo, userRepo, notificationService)
	orderHandler := order.NewHandler(orderService)

	reviewService := review.NewService(reviewRepo, orderRepo, userRepo, notificationService)
	reviewHandler := review.NewHandler(reviewService)

	hub := chat.NewHub()
	defer hub.Close()

	chatService := chat.NewService(messageRepo, orderRepo, serviceRepo, userRepo, notificationService, hub)
	chatHandler := chat.NewHandler(chatService, hub, j)

	storage := upload.NewStorage(cfg.UploadDir)
	uploadService := upload.NewService(storage, userRepo, serviceRepo)
	uploadHandler := upload.NewHandler(uploadService)

	r := gin.Default()
	r.Use(middleware.CORS())

	r.Static("/api/upload/avatars", storage.BaseDir()+"/avatars")
	r.Static("/api/upload/services", storage.BaseDir()+"/services")

	api := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(api)
		userHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterPublicRoutes(api)
		reviewHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			userHandler.RegisterProtectedRoutes(protected)
			orderHandler.RegisterProtectedRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)
			chatHandler.RegisterProtectedRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			uploadHandler.RegisterProtectedRoutes(protected)

			master := protected.Group("/")
			master.Use(middleware.MasterOnly())
			{
				catalogHandler.RegisterMasterRoutes(master)
				reviewHandler.RegisterMasterRoutes(master)
				uploadHandler.RegisterMasterRoutes(master)
			}
		}
	}

	chatHandler.RegisterWSRoute(r)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
