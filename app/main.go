package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/config"
	"github.com/kundanmehta01/UniNotes-sub001/delivery"
	"github.com/kundanmehta01/UniNotes-sub001/middleware"
	"github.com/kundanmehta01/UniNotes-sub001/repository"
	"github.com/kundanmehta01/UniNotes-sub001/service"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system environment variables")
	}

	// Register custom validators
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterCustomValidations(v)
	}

	// Boot DB
	db, err := config.BootDB()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Redis config
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal("REDIS_ADDR not found in env")
	}
	redisClient := config.InitRedisDB(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)

	// JWT secret validation
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not found in env")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 characters. Generate one with: openssl rand -base64 32")
	}

	// File storage
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	fileStore, err := repository.NewDiskFileStore(uploadsDir)
	if err != nil {
		log.Fatal("Failed to init file storage: ", err)
	}

	// Init repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRedisRepository(redisClient)
	paperRepo := repository.NewPaperRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)

	// Init services
	mailer := utils.NewSMTPMailer()
	authService := service.NewAuthService(userRepo, otpRepo, mailer, jwtSecret)
	paperService := service.NewPaperService(paperRepo, fileStore)
	noteService := service.NewNoteService(noteRepo, fileStore)
	taxonomyService := service.NewTaxonomyService(subjectRepo)

	rateLimiter := middleware.NewRedisRateLimiter(redisClient)

	// Init Gin
	app := gin.Default()
	config.InitMiddleware(app)

	// Init handlers
	accessTokens := authService.GetAccessTokenManager()
	delivery.NewAuthHandler(app, authService, rateLimiter)
	delivery.NewPaperHandler(app, paperService, accessTokens)
	delivery.NewNoteHandler(app, noteService, accessTokens)
	delivery.NewTaxonomyHandler(app, taxonomyService, accessTokens)
	delivery.NewStorageHandler(app, paperService, noteService, accessTokens)

	// Graceful shutdown setup
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	srvAddr := ":" + port

	srv := &http.Server{
		Addr:           srvAddr,
		Handler:        app,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("Server running at http://localhost%s", srvAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
