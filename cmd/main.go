package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/talentfest/judging-backend/internal/cache"
	"github.com/talentfest/judging-backend/internal/db"
	"github.com/talentfest/judging-backend/internal/http/handlers"
	"github.com/talentfest/judging-backend/internal/middleware"
	"github.com/talentfest/judging-backend/internal/platform/envutil"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/repos"
	"github.com/talentfest/judging-backend/internal/server"
	"github.com/talentfest/judging-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "defaultsecret")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	rubricRepo := repos.NewRubricRepo(thePG, log)
	scoringConfigRepo := repos.NewScoringConfigRepo(thePG, log)
	assignmentRepo := repos.NewAssignmentRepo(thePG, log)
	conflictRepo := repos.NewConflictRepo(thePG, log)
	scoreEntryRepo := repos.NewScoreEntryRepo(thePG, log)
	registrationRepo := repos.NewRegistrationRepo(thePG, log)
	commentRepo := repos.NewCommentRepo(thePG, log)

	// Cache
	log.Info("Setting up cache from main...")
	resultCache, err := cache.NewRedis(log)
	if err != nil {
		log.Warn("Redis unavailable, using in-process cache", "error", err)
		resultCache = cache.NewMemory()
	}

	// Services
	log.Info("Setting up Services from main...")
	rubricService := services.NewRubricService(thePG, log, rubricRepo, registrationRepo)
	scoringConfigService := services.NewScoringConfigService(thePG, log, scoringConfigRepo)
	conflictService := services.NewConflictService(thePG, log, conflictRepo)
	assignmentService := services.NewAssignmentService(thePG, log, assignmentRepo, registrationRepo, scoreEntryRepo)
	scoringService := services.NewScoringService(thePG, log, registrationRepo, scoringConfigRepo, scoreEntryRepo, rubricService, assignmentService, conflictService)
	resultsService := services.NewResultsService(thePG, log, resultCache, scoringConfigRepo, registrationRepo, scoreEntryRepo)
	commentService := services.NewCommentService(thePG, log, commentRepo, registrationRepo, assignmentService)

	// Handlers
	log.Info("Setting up handlers from main...")
	rubricHandler := handlers.NewRubricHandler(log, rubricService)
	scoringConfigHandler := handlers.NewScoringConfigHandler(log, scoringConfigService)
	scoreHandler := handlers.NewScoreHandler(log, scoringService)
	assignmentHandler := handlers.NewAssignmentHandler(log, assignmentService)
	conflictHandler := handlers.NewConflictHandler(log, conflictService)
	commentHandler := handlers.NewCommentHandler(log, commentService)
	leaderboardHandler := handlers.NewLeaderboardHandler(log, resultsService, scoringConfigService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if raw := envutil.Str("CORS_ALLOW_ORIGINS", ""); raw != "" {
		origins = strings.Split(raw, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:       authMiddleware,
		RubricHandler:        rubricHandler,
		ScoringConfigHandler: scoringConfigHandler,
		ScoreHandler:         scoreHandler,
		AssignmentHandler:    assignmentHandler,
		ConflictHandler:      conflictHandler,
		CommentHandler:       commentHandler,
		LeaderboardHandler:   leaderboardHandler,
		AllowOrigins:         origins,
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
