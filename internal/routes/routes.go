package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ukuvago/themeboard/internal/access"
	"github.com/ukuvago/themeboard/internal/config"
	"github.com/ukuvago/themeboard/internal/handlers"
	"github.com/ukuvago/themeboard/internal/metrics"
	"github.com/ukuvago/themeboard/internal/middleware"
	"github.com/ukuvago/themeboard/internal/repository"
	"github.com/ukuvago/themeboard/internal/services"
	"gorm.io/gorm"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Auth      *services.AuthService
	Projects  *services.ProjectService
	Themes    *services.ThemeService
	Team      *services.TeamService
	Stats     *services.StatsService
	Storage   *services.StorageService
	Documents *services.DocumentService
}

// NewServices wires repositories and services over db.
func NewServices(cfg *config.Config, db *gorm.DB, notifier services.Notifier, m *metrics.Metrics) *Services {
	projectRepo := repository.NewProjectRepository(db)
	themeRepo := repository.NewThemeRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	userRepo := repository.NewUserRepository(db)

	storageService := services.NewStorageService(cfg)
	hooks := services.Hooks{Notifier: notifier, Images: storageService}
	if m != nil {
		hooks.Cascades = m
	}

	return &Services{
		Auth:      services.NewAuthService(cfg, userRepo),
		Projects:  services.NewProjectService(projectRepo, themeRepo, hooks),
		Themes:    services.NewThemeService(themeRepo, projectRepo, memberRepo, hooks),
		Team:      services.NewTeamService(memberRepo, hooks),
		Stats:     services.NewStatsService(projectRepo, themeRepo, memberRepo, userRepo),
		Storage:   storageService,
		Documents: services.NewDocumentService(cfg, storageService),
	}
}

func SetupRouter(cfg *config.Config, db *gorm.DB, svc *Services, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if m != nil {
		router.Use(m.Middleware())
	}

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		connected := false
		if sqlDB, err := db.DB(); err == nil {
			connected = sqlDB.PingContext(ctx) == nil
		}

		status := http.StatusOK
		if !connected {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"success":      connected,
			"status":       "ok",
			"db_connected": connected,
		})
	})

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	router.Static(cfg.UploadPrefix, cfg.UploadDir)

	gate := access.NewRoleGate()
	allow := func(op access.Operation) gin.HandlerFunc {
		return middleware.Authorize(gate, op)
	}

	authHandler := handlers.NewAuthHandler(svc.Auth)
	adminHandler := handlers.NewAdminHandler(svc.Auth, svc.Stats)
	projectHandler := handlers.NewProjectHandler(svc.Projects, svc.Storage, svc.Documents)
	themeHandler := handlers.NewThemeHandler(svc.Themes, svc.Storage)
	teamHandler := handlers.NewTeamHandler(svc.Team, svc.Storage)

	api := router.Group("/api")
	api.Use(middleware.OptionalAuthMiddleware(svc.Auth))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthMiddleware(svc.Auth), authHandler.GetCurrentUser)
		}

		admin := api.Group("/admin")
		{
			// Signup checks the admin token or secret key itself.
			admin.POST("/signup", adminHandler.Signup)
			admin.POST("/login", adminHandler.Login)
			admin.GET("/me", allow(access.AdminAccess), adminHandler.Me)
			admin.GET("/stats", allow(access.AdminAccess), adminHandler.GetDashboardStats)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", allow(access.ProjectRead), projectHandler.ListProjects)
			projects.GET("/:id", allow(access.ProjectRead), projectHandler.GetProject)
			projects.GET("/:id/themes", allow(access.ProjectRead), projectHandler.GetProjectThemes)
			projects.GET("/:id/report", allow(access.ProjectRead), projectHandler.GetProjectReport)
			projects.POST("", allow(access.ProjectCreate), projectHandler.CreateProject)
			projects.PUT("/:id", allow(access.ProjectUpdate), projectHandler.UpdateProject)
			projects.DELETE("/:id", allow(access.ProjectDelete), projectHandler.DeleteProject)
		}

		themes := api.Group("/themes")
		{
			themes.GET("", allow(access.ThemeRead), themeHandler.ListThemes)
			themes.GET("/:id", allow(access.ThemeRead), themeHandler.GetTheme)
			themes.GET("/:id/team", allow(access.ThemeRead), themeHandler.GetThemeTeam)
			themes.POST("", allow(access.ThemeCreate), themeHandler.CreateTheme)
			themes.PUT("/:id", allow(access.ThemeUpdate), themeHandler.UpdateTheme)
			themes.DELETE("/:id", allow(access.ThemeDelete), themeHandler.DeleteTheme)
			themes.PUT("/:id/members", allow(access.ThemeMembers), themeHandler.AddMembers)
			themes.DELETE("/:id/members/:memberId", allow(access.ThemeMembers), themeHandler.RemoveMember)
			themes.PUT("/:id/theme-head", allow(access.ThemeHead), themeHandler.AssignThemeHead)
			themes.PUT("/:id/project", allow(access.ThemeProject), themeHandler.AssignProject)
		}

		team := api.Group("/team")
		{
			team.GET("", allow(access.TeamRead), teamHandler.ListMembers)
			team.GET("/:id", allow(access.TeamRead), teamHandler.GetMember)
			team.POST("", allow(access.TeamCreate), teamHandler.CreateMember)
			team.PUT("/:id", allow(access.TeamUpdate), teamHandler.UpdateMember)
			team.DELETE("/:id", allow(access.TeamDelete), teamHandler.DeleteMember)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	return router
}
