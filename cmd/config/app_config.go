package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/leaflens/leaflens-api/internal/api/handlers"
	"github.com/leaflens/leaflens-api/internal/api/routes"
	"github.com/leaflens/leaflens-api/internal/middleware"
	"github.com/leaflens/leaflens-api/internal/utils"
	"github.com/leaflens/leaflens-api/internal/utils/storage"
	"github.com/leaflens/leaflens-api/pkg/identify"
	"github.com/leaflens/leaflens-api/pkg/journal"
	"github.com/leaflens/leaflens-api/pkg/jwt"
	"github.com/leaflens/leaflens-api/pkg/reminder"
	"github.com/leaflens/leaflens-api/pkg/subscription"
	"github.com/leaflens/leaflens-api/pkg/user"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, *reminder.DueCheckWorker, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	journalRepository := journal.NewJournalRepository(db)
	reminderRepository := reminder.NewReminderRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	identifyService := identify.NewIdentifyService()
	journalService := journal.NewJournalService(journalRepository, identifyService, s3)
	reminderService := reminder.NewReminderService(reminderRepository, journalRepository)
	subscriptionService := subscription.NewSubscriptionService(subscriptionRepository, userService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	plantHandler := handlers.NewPlantHandler(journalService, identifyService, s3, validator)
	journalHandler := handlers.NewJournalHandler(journalService)
	reminderHandler := handlers.NewReminderHandler(reminderService, validator)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, validator)

	// Background worker
	dueCheckWorker := reminder.NewDueCheckWorker(reminderRepository, userRepository, reminder.NewEmailNotifier())

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		PlantHandler:        plantHandler,
		JournalHandler:      journalHandler,
		ReminderHandler:     reminderHandler,
		SubscriptionHandler: subscriptionHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
		UserService:         userService,
	}
	routesConfig.Setup()
	return app, dueCheckWorker, nil
}
