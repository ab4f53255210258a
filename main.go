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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	v1 "github.com/staffhub-api/api/v1"
	"github.com/staffhub-api/config"
	"github.com/staffhub-api/database"
	"github.com/staffhub-api/logger"
	"github.com/staffhub-api/mailer"
	"github.com/staffhub-api/middleware"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/observability"
	"github.com/staffhub-api/repositories"
	"github.com/staffhub-api/services"
	"github.com/staffhub-api/utils"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	appLog, err := logger.New(cfg.Logging())
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	conn, err := database.NewDBConnection("main", cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("❌ Database connection failed")
	}
	defer conn.Close()

	if err := conn.Migrate(); err != nil {
		appLog.WithError(err).Fatal("❌ Migration failed")
	}
	seed := database.SeedOptions{
		CancelledStatusID: cfg.CancelledStatusID,
		AdminEmail:        cfg.SeedAdminEmail,
		AdminPassword:     cfg.SeedAdminPassword,
	}
	if err := database.Seed(context.Background(), conn.DB, seed, appLog); err != nil {
		appLog.WithError(err).Fatal("❌ Seeding failed")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	router, err := buildRouter(cfg, conn.DB, metrics, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("❌ Failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithField("port", cfg.Port).Info("🚀 StaffHub API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Fatal("❌ Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("🛑 Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.WithError(err).Error("❌ Forced shutdown")
	}
}

// buildRouter wires repositories, services and controllers onto a gin engine
func buildRouter(cfg *config.Config, db *gorm.DB, metrics *observability.Metrics, appLog *logrus.Logger) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := utils.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := metrics.RegisterDBStats(sqlDB, "main"); err != nil {
		return nil, err
	}

	// Repositories
	departmentRepo := repositories.NewDepartmentRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	permissionRepo := repositories.NewPermissionRepository(db)
	technologyRepo := repositories.NewCatalogRepository[models.Technology](db)
	statusRepo := repositories.NewCatalogRepository[models.Status](db)
	projectTypeRepo := repositories.NewCatalogRepository[models.ProjectType](db)
	customerRepo := repositories.NewCatalogRepository[models.Customer](db)
	relations := repositories.NewRelationRepository(db)
	tx := repositories.NewTransactor(db)

	// Services
	resolvers := access.NewResolvers(departmentRepo, projectRepo, userRepo)
	tokens := services.NewTokenService()
	mail := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, appLog)

	authService := services.NewAuthService(cfg, userRepo, roleRepo, permissionRepo, tokens, mail, appLog)
	userService := services.NewUserService(cfg, userRepo, roleRepo, departmentRepo, technologyRepo, relations, tx, tokens, mail, resolvers, appLog)
	departmentService := services.NewDepartmentService(departmentRepo, projectRepo, userRepo, roleRepo, relations, tx, resolvers, appLog)
	projectService := services.NewProjectService(projectRepo, departmentRepo, userRepo, services.ProjectReferences{
		Statuses:     statusRepo,
		ProjectTypes: projectTypeRepo,
		Customers:    customerRepo,
		Technologies: technologyRepo,
	}, relations, tx, resolvers, cfg.CancelledStatusID, appLog)
	exportService := services.NewExportService(userRepo, projectRepo, departmentRepo, roleRepo, services.ExportCatalogs{
		Technologies: technologyRepo,
		Statuses:     statusRepo,
		ProjectTypes: projectTypeRepo,
		Customers:    customerRepo,
	})
	roleService := services.NewRoleService(roleRepo, permissionRepo, relations, tx, appLog)
	permissionService := services.NewPermissionService(permissionRepo, relations, tx, appLog)

	// Engine
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(appLog))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  cfg.AllowAllOrigins(),
		AllowOrigins:     allowOrigins(cfg),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api/v1")
	gate := middleware.AuthMiddleware(authService, metrics, appLog)
	v1.RegisterRoutes(api, gate, v1.HealthCheck(sqlDB), v1.Controllers{
		Auth:        v1.NewAuthController(authService, cfg.JWTRefreshTTL, cfg.RefreshCookieSecure, appLog),
		Users:       v1.NewUserController(userService, exportService, metrics, appLog),
		Departments: v1.NewDepartmentController(departmentService, metrics, appLog),
		Projects:    v1.NewProjectController(projectService, exportService, metrics, appLog),
		Roles:       v1.NewRoleController(roleService, permissionService, metrics, appLog),
		Catalogs: []v1.RouteRegistrar{
			v1.NewCatalogController("/customers", services.NewCustomerService(customerRepo, relations, tx, appLog), metrics, appLog),
			v1.NewCatalogController("/statuses", services.NewStatusService(statusRepo, relations, tx, appLog), metrics, appLog),
			v1.NewCatalogController("/technologies", services.NewTechnologyService(technologyRepo, relations, tx, appLog), metrics, appLog),
			v1.NewCatalogController("/project-types", services.NewProjectTypeService(projectTypeRepo, relations, tx, appLog), metrics, appLog),
		},
	})

	return router, nil
}

func allowOrigins(cfg *config.Config) []string {
	if cfg.AllowAllOrigins() {
		return nil
	}
	return cfg.AllowedOrigins()
}
