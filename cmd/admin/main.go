package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/config"
	"github.com/noah-isme/ssp-go-api/internal/database"
	"github.com/noah-isme/ssp-go-api/internal/repository"
	"github.com/noah-isme/ssp-go-api/internal/service"
)

func main() {
	cfg, err := config.LoadForTooling()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName+" admin")
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable; import events will be dropped")
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	validate := service.NewValidator()
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentProfileRepository(db)
	staffRepo := repository.NewStaffProfileRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	accounts := service.NewAccountService(userRepo, staffRepo, validate, logger)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), logger)
	events := service.NewEventPublisher(natsConn, cfg.NATSSubject, logger)

	cli := &commandLine{
		seeder:   service.NewSeedService(catalogRepo, userRepo, accounts, logger),
		accounts: accounts,
		importer: service.NewImportService(service.ImportRepositories{
			Students: studentRepo,
			Catalog:  catalogRepo,
			Academic: repository.NewAcademicDueRepository(db),
			Hostel:   repository.NewHostelDueRepository(db),
			Legacy:   repository.NewLegacyRecordRepository(db),
		}, service.ImportOptions{
			BaseAcademicYear:       cfg.ImportBaseAcademicYear,
			StudentDefaultPassword: cfg.StudentDefaultPassword,
		}, activity, events, logger),
		adminEmail: cfg.AdminEmail,
		adminPass:  cfg.AdminDefaultPassword,
		out:        os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
