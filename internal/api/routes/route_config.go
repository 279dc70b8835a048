package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leaflens/leaflens-api/internal/api/handlers"
	"github.com/leaflens/leaflens-api/internal/middleware"
	"github.com/leaflens/leaflens-api/pkg/jwt"
	"github.com/leaflens/leaflens-api/pkg/user"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	PlantHandler        handlers.PlantHandler
	JournalHandler      handlers.JournalHandler
	ReminderHandler     handlers.ReminderHandler
	SubscriptionHandler handlers.SubscriptionHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
	UserService         user.UserService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Plants()
	c.Journal()
	c.Reminders()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.Subscribe)
	}
}

func (c *Config) Plants() {
	plants := c.App.Group("/api/v1/plants", c.Middleware.AuthMiddleware(c.JWTService))

	plants.Post("/identify", c.PlantHandler.IdentifyPlant)
	plants.Post("/diagnose", c.PlantHandler.DiagnosePlant)
	plants.Post("/reference-image", c.PlantHandler.GenerateReferenceImage)
	plants.Get("/nearby-shops", c.PlantHandler.FindNearbyShops)
}

func (c *Config) Journal() {
	journal := c.App.Group("/api/v1/journal", c.Middleware.AuthMiddleware(c.JWTService))

	journal.Get("", c.JournalHandler.GetJournal)
	journal.Get("/:id", c.JournalHandler.GetJournalEntry)
	journal.Delete("", c.JournalHandler.ResetJournal)
}

func (c *Config) Reminders() {
	reminders := c.App.Group(
		"/api/v1/reminders",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.ProMiddleware(c.UserService),
	)

	// Fixed paths before the :id routes.
	reminders.Get("/due", c.ReminderHandler.CheckDue)
	reminders.Get("/settings", c.ReminderHandler.GetSettings)
	reminders.Patch("/settings", c.ReminderHandler.UpdateSetting)

	reminders.Post("", c.ReminderHandler.CreateReminder)
	reminders.Get("", c.ReminderHandler.GetReminders)
	reminders.Post("/:id/complete", c.ReminderHandler.CompleteReminder)
	reminders.Delete("/:id", c.ReminderHandler.DeleteReminder)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.SubscriptionHandler.MidtransWebhookHandler)
}
