package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notevault/config"
	"notevault/handler"
	"notevault/middleware"
	"notevault/repository"
	"notevault/services"
	"notevault/store"
	"notevault/usecase"
	"notevault/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// Check required environment variables. The service must not come up
	// without provider credentials or a database to talk to.
	requiredEnvVars := []string{
		"MONGO_URI",
		"IDENTITY_CREDENTIALS_PATH",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
}

func setupRouter(identity *services.IdentityGateway, notesService *usecase.NotesService) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Public routes (no authentication required)
	router.POST("/register", func(c *gin.Context) {
		handler.RegistrationHandler(c, identity)
	})
	router.POST("/login", func(c *gin.Context) {
		handler.LoginHandler(c, identity)
	})
	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Notes endpoints (authentication required)
	notes := router.Group("/notes")
	notes.Use(middleware.AuthMiddleware(identity))
	{
		notes.GET("", func(c *gin.Context) {
			handler.GetUserNotesHandler(c, notesService)
		})
		notes.POST("", func(c *gin.Context) {
			handler.CreateNoteHandler(c, notesService)
		})
		notes.GET("/:id", func(c *gin.Context) {
			handler.GetNoteHandler(c, notesService)
		})
		notes.PUT("/:id", func(c *gin.Context) {
			handler.UpdateNoteHandler(c, notesService)
		})
		notes.DELETE("/:id", func(c *gin.Context) {
			handler.DeleteNoteHandler(c, notesService)
		})
	}

	return router
}

func main() {
	cfg := config.Load()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Identity provider credentials are required before serving traffic. The
	// REST API key is checked per call instead; without it only the auth
	// endpoints are unavailable.
	identity, err := services.NewIdentityGateway(
		cfg.IdentityCredentialsPath, cfg.IdentityAPIKey, cfg.IdentityBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize identity gateway: %v", err)
	}
	if cfg.IdentityAPIKey == "" {
		log.Println("IDENTITY_API_KEY is not set; register and login will return 503")
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := store.NewClient(connectCtx, cfg.Database)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}

	if err := store.SetupIndexes(client.Database(cfg.Database.Name)); err != nil {
		log.Printf("Failed to create indexes: %v", err)
	}

	docStore := store.NewMongoStore(client, cfg.Database.Name)
	notesRepo := repository.GetNotesRepo(docStore)
	notesService := &usecase.NotesService{
		NotesRepo: notesRepo,
	}

	utils.RegisterProcessGauges()

	router := setupRouter(identity, notesService)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Printf("%s %s starting on %s", cfg.AppName, config.Version, cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChan
	log.Printf("Caught signal %s, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("Document store disconnect error: %v", err)
	}
	log.Println("Server shutdown complete")
}
