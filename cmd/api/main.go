package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/chorushq/chorus-api/internal/config"
	"github.com/chorushq/chorus-api/internal/database"
	"github.com/chorushq/chorus-api/internal/handler"
	"github.com/chorushq/chorus-api/internal/middleware"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/repository"
	"github.com/chorushq/chorus-api/internal/router"
	"github.com/chorushq/chorus-api/internal/service"
	cloud "github.com/chorushq/chorus-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Member{},
		&models.Form{}, &models.FormQuestion{}, &models.FormResponse{},
		&models.Event{}, &models.Attendance{},
		&models.Song{},
		&models.Production{}, &models.Audition{}, &models.AuditionSignup{}, &models.CastRole{},
		&models.CreativeTask{}, &models.MeetingNote{},
		&models.Announcement{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	sheetUploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinarySheetFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary sheet uploader: %v", err)
	}

	audioUploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryAudioFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary audio uploader: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	memberRepo := repository.NewMemberRepository(db)
	formRepo := repository.NewFormRepository(db)
	eventRepo := repository.NewEventRepository(db)
	songRepo := repository.NewSongRepository(db)
	productionRepo := repository.NewProductionRepository(db)
	auditionRepo := repository.NewAuditionRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	notificationService := service.NewNotificationService(natsConn, cfg.NotificationSubject, logger)

	memberService := service.NewMemberService(memberRepo, redisClient, cfg.RosterCacheTTL, validate, logger)
	formService := service.NewFormService(formRepo, memberRepo, validate, notificationService, logger)
	eventService := service.NewEventService(eventRepo, validate, logger)
	songService := service.NewSongService(songRepo, sheetUploader, audioUploader, validate, cfg.MaxUploadSizeMB, logger)
	productionService := service.NewProductionService(productionRepo, validate, logger)
	auditionService := service.NewAuditionService(auditionRepo, productionRepo, validate, logger)
	taskService := service.NewTaskService(taskRepo, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, redisClient, cfg.AnnouncementCacheTTL, validate, notificationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		MemberHandler:       handler.NewMemberHandler(memberService, logger),
		FormHandler:         handler.NewFormHandler(formService, logger),
		EventHandler:        handler.NewEventHandler(eventService, logger),
		SongHandler:         handler.NewSongHandler(songService, logger),
		ProductionHandler:   handler.NewProductionHandler(productionService, logger),
		AuditionHandler:     handler.NewAuditionHandler(auditionService, logger),
		TaskHandler:         handler.NewTaskHandler(taskService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, 30*time.Second),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		SubmitRatePerMin:    cfg.SubmitRateLimitPerMin,
	})

	runCtx, stopConsumers := context.WithCancel(context.Background())
	notificationService.Start(runCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopConsumers)
}

func waitForShutdown(app *fiber.App, stopConsumers context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopConsumers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
