package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/AngelaEmileJose/KNU-Link/internal/app/controllers"
	appMigrations "github.com/AngelaEmileJose/KNU-Link/internal/app/migrations"
	appRepos "github.com/AngelaEmileJose/KNU-Link/internal/app/repositories"
	appRoutes "github.com/AngelaEmileJose/KNU-Link/internal/app/routes"
	appServices "github.com/AngelaEmileJose/KNU-Link/internal/app/services"
	"github.com/AngelaEmileJose/KNU-Link/internal/config"
	"github.com/AngelaEmileJose/KNU-Link/internal/db"
	appMiddleware "github.com/AngelaEmileJose/KNU-Link/internal/middleware"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/logger"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ProfileService    appServices.ProfileService
	PostService       appServices.PostService
	ChatService       appServices.ChatService
	ProfileController *appControllers.ProfileController
	PostController    *appControllers.PostController
	ChatController    *appControllers.ChatController
	Repos             *appRepos.Repositories
	Hub               *realtime.Hub
	RealtimeHandler   *realtime.Handler
	Sweeper           *appServices.Sweeper
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.ApplyDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes repositories, services, the realtime hub,
// and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// The hub fans every committed write out to feed and chat subscribers.
	deps.Hub = realtime.NewHub(cfg.Realtime.SendBuffer, lgr)
	deps.RealtimeHandler = realtime.NewHandler(deps.Hub, lgr)

	deps.ProfileService = appServices.NewProfileService(
		deps.Repos.ProfileRepository,
		deps.Hub,
		lgr,
	)
	deps.PostService = appServices.NewPostService(
		deps.Repos.PostRepository,
		deps.Repos.ProfileRepository,
		deps.Hub,
		lgr,
	)
	deps.ChatService = appServices.NewChatService(
		deps.Repos.MessageRepository,
		deps.Repos.ParticipationRepository,
		deps.Repos.PostRepository,
		deps.Hub,
		lgr,
	)

	if interval := cfg.CleanupInterval(); interval > 0 {
		deps.Sweeper = appServices.NewSweeper(deps.PostService, interval, lgr)
	}

	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService, deps.PostService)
	deps.PostController = appControllers.NewPostController(deps.PostService, deps.ChatService)
	deps.ChatController = appControllers.NewChatController(deps.ChatService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.ProfileController,
		deps.PostController,
		deps.ChatController,
		deps.RealtimeHandler,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
