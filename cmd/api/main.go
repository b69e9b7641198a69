package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/config"
	"github.com/noah-isme/ssp-go-api/internal/database"
	"github.com/noah-isme/ssp-go-api/internal/handler"
	"github.com/noah-isme/ssp-go-api/internal/middleware"
	"github.com/noah-isme/ssp-go-api/internal/repository"
	"github.com/noah-isme/ssp-go-api/internal/router"
	"github.com/noah-isme/ssp-go-api/internal/service"
	cloud "github.com/noah-isme/ssp-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", cfg.AppName).Logger()
	if !cfg.IsProduction() {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access database handle: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient == nil {
		logger.Warn().Msg("redis not configured; logout and stats caching disabled")
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn == nil {
		logger.Warn().Msg("nats not configured; domain events will be dropped")
	} else {
		defer natsConn.Drain()
	}

	var storage service.FileStorage
	if cfg.CloudinaryConfigured() {
		store, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		storage = store
	} else {
		logger.Warn().Msg("cloudinary not configured; challan uploads disabled")
	}

	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
		Issuer:        cfg.AppName,
	})
	validate := service.NewValidator()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentProfileRepository(db)
	staffRepo := repository.NewStaffProfileRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	departmentDueRepo := repository.NewDepartmentDueRepository(db)
	academicRepo := repository.NewAcademicDueRepository(db)
	hostelRepo := repository.NewHostelDueRepository(db)
	otherRepo := repository.NewOtherDueRepository(db)
	borrowRepo := repository.NewBorrowRecordRepository(db)
	legacyRepo := repository.NewLegacyRecordRepository(db)
	challanRepo := repository.NewChallanRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	tokenStore := repository.NewTokenStore(redisClient)

	events := service.NewEventPublisher(natsConn, cfg.NATSSubject, logger)
	activityService := service.NewActivityService(activityRepo, logger)

	authService := service.NewAuthService(userRepo, studentRepo, staffRepo, tokens, tokenStore, validate, logger)
	profileService := service.NewProfileService(studentRepo, staffRepo, logger)
	catalogService := service.NewCatalogService(catalogRepo, validate, activityService, events, logger)
	departmentDueService := service.NewDepartmentDueService(departmentDueRepo, studentRepo, validate, activityService, events, logger)
	summaryService := service.NewDuesSummaryService(service.DuesSummaryRepositories{
		Students:       studentRepo,
		Academic:       academicRepo,
		Hostel:         hostelRepo,
		Other:          otherRepo,
		Borrow:         borrowRepo,
		Legacy:         legacyRepo,
		DepartmentDues: departmentDueRepo,
	}, logger)
	ledgers := handler.LedgerServices{
		Academic: service.NewAcademicDueService(academicRepo, studentRepo, validate, activityService, logger),
		Hostel:   service.NewHostelDueService(hostelRepo, studentRepo, validate, activityService, logger),
		Other:    service.NewOtherDueService(otherRepo, studentRepo, validate, activityService, events, logger),
		Borrow:   service.NewBorrowRecordService(borrowRepo, studentRepo, validate, activityService, logger),
		Legacy:   service.NewLegacyRecordService(legacyRepo, studentRepo, logger),
	}
	challanService := service.NewChallanService(challanRepo, studentRepo, storage, cfg.UploadMaxBytes(), validate, activityService, events, logger)
	importService := service.NewImportService(service.ImportRepositories{
		Students: studentRepo,
		Catalog:  catalogRepo,
		Academic: academicRepo,
		Hostel:   hostelRepo,
		Legacy:   legacyRepo,
	}, service.ImportOptions{
		BaseAcademicYear:       cfg.ImportBaseAcademicYear,
		StudentDefaultPassword: cfg.StudentDefaultPassword,
	}, activityService, events, logger)
	statsService := service.NewStatsService(statsRepo, redisClient, cfg.StatsCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.UploadMaxBytes()) + 1024*1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:    &logger,
		AccessLog: !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:          handler.NewAuthHandler(authService, logger),
		ProfileHandler:       handler.NewProfileHandler(profileService, logger),
		CatalogHandler:       handler.NewCatalogHandler(catalogService, logger),
		DepartmentDueHandler: handler.NewDepartmentDueHandler(departmentDueService, logger),
		DuesSummaryHandler:   handler.NewDuesSummaryHandler(summaryService, logger),
		LedgerHandler:        handler.NewLedgerHandler(ledgers, logger),
		ChallanHandler:       handler.NewChallanHandler(challanService, logger),
		ImportHandler:        handler.NewImportHandler(importService, logger),
		StatsHandler:         handler.NewStatsHandler(statsService, logger),
		ActivityHandler:      handler.NewAdminActivityHandler(activityService, logger),
		JWTMiddleware:        middleware.JWTProtected(tokens),
		Database:             sqlDB,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
