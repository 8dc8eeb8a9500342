package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-api/api/swagger"
	"github.com/noah-isme/academy-api/internal/handler"
	"github.com/noah-isme/academy-api/internal/middleware"
	"github.com/noah-isme/academy-api/internal/repository"
	"github.com/noah-isme/academy-api/internal/service"
	"github.com/noah-isme/academy-api/pkg/cache"
	"github.com/noah-isme/academy-api/pkg/config"
	"github.com/noah-isme/academy-api/pkg/database"
	"github.com/noah-isme/academy-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-api/pkg/middleware/requestid"
)

// @title Academy API
// @version 1.0.0
// @description Admin and teacher portal for classes, students, teachers, inventory and parent reports
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		version, err := database.Migrate(db, cfg.Database.Name)
		if err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		logr.Info("schema migrated", zap.Uint("version", version))
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	reportRepo := repository.NewReportRepository(db)
	fixtureRepo := repository.NewFixtureRepository(db)
	blacklistRepo := repository.NewTokenBlacklistRepository(redisClient)
	txManager := repository.NewTxManager(db)

	authSvc := service.NewAuthService(userRepo, teacherRepo, blacklistRepo, txManager, validate, logr, metricsSvc, service.AuthConfig{
		Secret:             cfg.JWT.Secret,
		Issuer:             cfg.JWT.Issuer,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		BcryptCost:         cfg.JWT.BcryptCost,
	})
	classSvc := service.NewClassService(classRepo, teacherRepo, studentRepo, todoRepo, txManager, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, userRepo, txManager, validate, logr, cfg.JWT.BcryptCost)
	fixtureSvc := service.NewFixtureService(fixtureRepo, validate, logr)
	portalSvc := service.NewTeacherPortalService(userRepo, teacherRepo, classRepo, studentRepo, todoRepo, classSvc, logr)
	reportSvc := service.NewReportService(reportRepo, studentRepo, txManager, metricsSvc, logr)

	bootstrapCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.EnsureAdmin(bootstrapCtx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		cancel()
		logr.Fatal("failed to bootstrap admin account", zap.Error(err))
	}
	cancel()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.SetupRoutes(r, handler.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Class:   handler.NewClassHandler(classSvc),
		Student: handler.NewStudentHandler(studentSvc),
		Teacher: handler.NewTeacherHandler(teacherSvc),
		Fixture: handler.NewFixtureHandler(fixtureSvc),
		Portal:  handler.NewTeacherPortalHandler(portalSvc),
		Report:  handler.NewReportHandler(reportSvc),
		Metrics: handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
	}, handler.RouterConfig{
		APIPrefix:  cfg.APIPrefix,
		EnableDocs: cfg.Env != config.EnvProduction,
		Validator:  authSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
