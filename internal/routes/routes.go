package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/Mohammedcode007/ByoutBackNew/internal/handlers"
	"github.com/Mohammedcode007/ByoutBackNew/internal/metrics"
)

// Deps bundles everything route registration needs. RateLimit may be nil
// when Redis is not configured.
type Deps struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Properties    *handlers.PropertyHandler
	Favorites     *handlers.FavoriteHandler
	Notifications *handlers.NotificationHandler

	AuthMW    fiber.Handler
	AdminMW   fiber.Handler
	RateLimit fiber.Handler
}

func Setup(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	auth := api.Group("/auth")
	if d.RateLimit != nil {
		auth.Use(d.RateLimit)
	}
	auth.Post("/register", d.Auth.Register)
	auth.Post("/login", d.Auth.Login)

	users := api.Group("/users", d.AuthMW)
	users.Put("/device-token", d.Users.RegisterDeviceToken)
	users.Post("/", d.AdminMW, d.Users.Create)
	users.Get("/", d.AdminMW, d.Users.GetAll)
	users.Get("/:id", d.AdminMW, d.Users.GetByID)
	users.Put("/:id", d.AdminMW, d.Users.Update)
	users.Delete("/:id", d.AdminMW, d.Users.Delete)

	properties := api.Group("/properties")
	properties.Get("/", d.Properties.GetAll)
	properties.Get("/:id", d.Properties.GetByID)
	properties.Post("/", d.AuthMW, d.Properties.Create)
	properties.Put("/:id", d.AuthMW, d.Properties.Update)
	properties.Delete("/:id", d.AuthMW, d.Properties.Delete)

	favorites := api.Group("/favorites", d.AuthMW)
	favorites.Get("/", d.Favorites.List)
	favorites.Post("/:propertyId", d.Favorites.Add)
	favorites.Delete("/:propertyId", d.Favorites.Remove)

	notifications := api.Group("/notifications", d.AuthMW)
	if d.RateLimit != nil {
		notifications.Post("/", d.RateLimit, d.Notifications.Send)
	} else {
		notifications.Post("/", d.Notifications.Send)
	}
	notifications.Get("/", d.Notifications.GetAll)
	notifications.Get("/user/:userId?", d.Notifications.GetForUser)
	notifications.Patch("/:id/read", d.Notifications.MarkRead)
	notifications.Delete("/:id", d.Notifications.Delete)
}
