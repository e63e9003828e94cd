package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/talentfest/judging-backend/internal/http/handlers"
	"github.com/talentfest/judging-backend/internal/middleware"
	"github.com/talentfest/judging-backend/internal/types"
)

type RouterConfig struct {
	AuthMiddleware       *middleware.AuthMiddleware
	RubricHandler        *handlers.RubricHandler
	ScoringConfigHandler *handlers.ScoringConfigHandler
	ScoreHandler         *handlers.ScoreHandler
	AssignmentHandler    *handlers.AssignmentHandler
	ConflictHandler      *handlers.ConflictHandler
	CommentHandler       *handlers.CommentHandler
	LeaderboardHandler   *handlers.LeaderboardHandler
	AllowOrigins         []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Scores
	api.POST("/scores", cfg.ScoreHandler.Submit)
	api.GET("/scores", cfg.ScoreHandler.ListMine)
	// Rubrics
	api.GET("/rubrics/:id", cfg.RubricHandler.Get)
	api.GET("/programs/:programID/rubrics", cfg.RubricHandler.ListByProgram)
	api.GET("/registrations/:registrationID/rubric", cfg.RubricHandler.ForRegistration)
	api.GET("/rubric-categories", cfg.RubricHandler.ListCategories)
	// Config and results
	api.GET("/programs/:programID/scoring-config", cfg.ScoringConfigHandler.Get)
	api.GET("/programs/:programID/leaderboard", cfg.LeaderboardHandler.Get)
	// Assignments
	api.GET("/assignments/:id/completion", cfg.AssignmentHandler.Completion)
	// Conflicts
	api.POST("/conflicts", cfg.ConflictHandler.Flag)
	// Comments
	api.POST("/registrations/:registrationID/comments", cfg.CommentHandler.Add)
	api.GET("/registrations/:registrationID/comments", cfg.CommentHandler.ListForRegistration)

	// ===============
	// || Admin     ||
	// ===============
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
	admin.POST("/scores/bulk", cfg.ScoreHandler.Bulk)
	admin.POST("/rubrics", cfg.RubricHandler.Create)
	admin.POST("/rubrics/:id/clone", cfg.RubricHandler.Clone)
	admin.POST("/rubric-categories", cfg.RubricHandler.CreateCategory)
	admin.PUT("/programs/:programID/scoring-config", cfg.ScoringConfigHandler.Upsert)
	admin.POST("/assignments", cfg.AssignmentHandler.Assign)
	admin.GET("/programs/:programID/assignments", cfg.AssignmentHandler.ListByProgram)
	admin.GET("/programs/:programID/distribution", cfg.AssignmentHandler.Distribute)
	admin.PATCH("/assignments/:id/status", cfg.AssignmentHandler.UpdateStatus)
	admin.GET("/conflicts", cfg.ConflictHandler.List)
	admin.POST("/conflicts/:id/review", cfg.ConflictHandler.Review)
	admin.GET("/registrations/:registrationID/scores", cfg.ScoreHandler.ListForRegistration)
	admin.POST("/programs/:programID/leaderboard/invalidate", cfg.LeaderboardHandler.Invalidate)

	return router
}
