package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/models"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api", handler.LanguageMiddleware)

	bootGroup := api.Group("/boot")
	bootGroup.Get("", handler.BootState)
	bootGroup.Post("/retry", handler.BootRetry)

	api.Get("/dispatch", handler.Dispatch)

	auth := api.Group("/auth")
	auth.Get("/session", handler.SessionInfo)
	auth.Post("/login", handler.BootRequired, handler.Login)
	auth.Post("/signup", handler.BootRequired, handler.Signup)
	auth.Post("/logout", handler.Logout)

	mentors := api.Group("/mentors", handler.BootRequired)
	mentors.Get("", handler.ListMentors)
	mentors.Get("/:id", handler.GetMentor)

	sessions := api.Group("/sessions", handler.BootRequired, handler.AuthRequired)
	sessions.Get("", handler.ListSessions)
	sessions.Post("", handler.RoleRequired(models.RoleStudent), handler.ScheduleSession)
	sessions.Patch("/:id/status", handler.RoleRequired(models.RoleMentor), handler.UpdateSessionStatus)

	groups := api.Group("/groups", handler.BootRequired, handler.AuthRequired)
	groups.Get("", handler.ListGroups)
	groups.Post("", handler.CreateGroup)
	groups.Get("/:id", handler.GetGroup)
	groups.Post("/:id/join", handler.JoinGroup)
	groups.Get("/:id/chat", handler.GroupChat)
	groups.Post("/:id/chat", handler.PostGroupChat)
	groups.Delete("/:id/chat", handler.ClearGroupChat)
}
