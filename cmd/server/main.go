package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/handlers"
	appMiddleware "sitterly_app_echo/internal/middleware"
	"sitterly_app_echo/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	}

	// Initialize Database
	var db *gorm.DB
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err = services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis (optional; handlers fall back to direct queries)
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	}

	agreementService := services.NewAgreementService(db)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = appMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{os.Getenv("FRONTEND_ORIGIN")},
		AllowCredentials: true,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authClient, db)
	dashboardHandler := handlers.NewDashboardHandler(agreementService)
	agreementHandler := handlers.NewAgreementHandler(db, agreementService)
	jobHandler := handlers.NewJobHandler(db)
	applicationHandler := handlers.NewApplicationHandler(db)
	messageHandler := handlers.NewMessageHandler(db)
	userHandler := handlers.NewUserHandler(db, cache)

	// Public routes
	e.POST("/auth/register", authHandler.HandleRegister)
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)

	// Protected routes
	protected := e.Group("")
	protected.Use(appMiddleware.RequireAuth(authClient))
	protected.Use(appMiddleware.LoadUser(db, cache))

	protected.GET("/dashboard", dashboardHandler.Dashboard)

	// Agreements and the payment tracker wizard
	protected.GET("/agreements", agreementHandler.ListAgreements)
	protected.GET("/agreements/:uuid", agreementHandler.GetAgreement)
	protected.POST("/agreements/:uuid/accept", agreementHandler.AcceptAgreement)
	protected.GET("/agreements/:uuid/tracker", agreementHandler.Tracker)
	protected.POST("/agreements/:uuid/voucher", agreementHandler.IssueVoucher)
	protected.POST("/agreements/:uuid/confirm", agreementHandler.Confirm)

	// Job posts
	protected.GET("/jobs", jobHandler.ListJobs)
	protected.POST("/jobs", jobHandler.StoreJob)
	protected.POST("/jobs/:id/close", jobHandler.CloseJob)

	// Applications
	protected.POST("/jobs/:id/apply", applicationHandler.Apply)
	protected.GET("/applications", applicationHandler.ListApplications)
	protected.POST("/applications/:id/accept", applicationHandler.AcceptApplication)
	protected.POST("/applications/:id/reject", applicationHandler.RejectApplication)

	// Messaging
	protected.POST("/messages", messageHandler.SendMessage)
	protected.GET("/messages/:userID", messageHandler.Thread)
	protected.GET("/conversations", messageHandler.Conversations)

	// Profiles
	protected.GET("/me", userHandler.Me)
	protected.POST("/me", userHandler.UpdateMe)
	protected.GET("/babysitters", userHandler.ListBabysitters)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
