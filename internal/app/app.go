package app

import (
	"database/sql"
	"fmt"
	"log"

	"pastelrecipes/internal/config"
	"pastelrecipes/internal/handlers"
	"pastelrecipes/internal/middleware"
	"pastelrecipes/internal/pdf"
	"pastelrecipes/internal/repositories"
	"pastelrecipes/internal/routes"
	"pastelrecipes/internal/services"
	"pastelrecipes/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "pastelrecipes/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to DB: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close DB: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	recoveryRepo := repositories.NewRecoveryCodeRepository(db)
	passwordResetRepo := repositories.NewPasswordResetRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	userService := services.NewUserService(userRepo, emailService, authService)
	passwordResetService := services.NewPasswordResetService(userRepo, passwordResetRepo, emailService, authService)

	// Delivery adapter: real Twilio in production, simulated otherwise.
	// Chosen here once; business logic never branches on the mode.
	var sender utils.Sender
	if cfg.Twilio.DryRun || cfg.Twilio.AccountSID == "" {
		sender = utils.NewSimulatedSender()
		log.Printf("[app] recovery delivery: simulated (dry-run)")
	} else {
		sender = utils.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	}
	recoveryService := services.NewRecoveryService(recoveryRepo, userRepo, sender, cfg.Twilio.DefaultCountryCode)

	notifier := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID)
	recipeService := services.NewRecipeService(recipeRepo, userRepo, notifier)
	commentService := services.NewCommentService(commentRepo, recipeRepo)

	cardGenerator := pdf.NewCardGenerator()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, passwordResetService)
	userHandler := handlers.NewUserHandler(userService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, cardGenerator)
	commentHandler := handlers.NewCommentHandler(commentService)
	recoveryHandler := handlers.NewRecoveryHandler(recoveryService, passwordResetService, cfg.Auth.MaintenanceToken)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		recipeHandler,
		commentHandler,
		recoveryHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
