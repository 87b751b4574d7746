package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"blogcms/compose"
	"blogcms/config"
	"blogcms/database"
	"blogcms/handlers"
	"blogcms/middleware"
	"blogcms/routes"
	"blogcms/upload"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Connect to MongoDB with a few retries; managed clusters can be slow
	// to admit the first connection after a cold deploy.
	var db *database.Mongo
	for attempt := 1; ; attempt++ {
		db, err = database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
		if err == nil {
			break
		}
		if attempt >= 3 {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("MongoDB connection failed, retrying")
		time.Sleep(2 * time.Second)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("MongoDB disconnect failed")
		}
	}()

	uploader, err := upload.NewCloudinaryStore(cfg.CloudinaryURL, "blog")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure asset store")
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	repo := database.NewPostRepo(db)
	resolver := compose.NewResolver(uploader, cfg.MaxUploadBytes)

	router := routes.SetupRouter(routes.Deps{
		Posts:       handlers.New(repo, resolver),
		Upload:      handlers.NewUploadHandler(uploader, cfg.MaxUploadBytes),
		UploadLimit: middleware.NewIPRateLimiter(30, time.Minute),
		Origins:     cfg.AllowedOrigins,
	})

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
