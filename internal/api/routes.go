package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Healthz)

	api := app.Group("/api")

	api.Post("/admin/login", handler.OperatorLogin)

	users := api.Group("/users")
	users.Post("", handler.CreateUser)
	users.Get("/:id", handler.GetUser)

	partnerships := api.Group("/partnerships")
	partnerships.Post("", handler.CreatePartnership)
	partnerships.Get("/:id", handler.GetPartnership)
	partnerships.Get("/:id/progress", handler.GetProgress)
	partnerships.Get("/:id/week-settings", handler.GetWeekSettings)
	partnerships.Post("/:id/week-settings", handler.OperatorRequired, handler.UpdateWeekSettings)

	sessions := api.Group("/sessions")
	sessions.Post("/start", handler.StartSession)
	sessions.Post("/complete", handler.CompleteSession)

	api.Get("/health", handler.OperatorRequired, handler.Health)

	returnToken := api.Group("/return-token")
	returnToken.Post("/issue", handler.IssueReturnToken)
	returnToken.Get("/resolve", handler.ResolveReturnToken)
}
