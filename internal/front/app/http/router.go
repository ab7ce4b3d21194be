// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"tcofront/internal/front/app/http/handlers"
	"tcofront/internal/front/app/http/middleware"
	"tcofront/internal/front/metrics"
)

// Handlers обработчики, из которых собирается маршрутизация.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Catalogue  *handlers.CatalogueHandler
	Comparo    *handlers.ComparoHandler
	Calculator *handlers.CalculatorHandler
	SiteData   *handlers.SiteDataHandler
	Profile    *handlers.ProfileHandler
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, h Handlers, auth middleware.AuthChecker, m *metrics.Metrics) {
	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// Auth routes (публичные).
	authRoutes := app.Group("/auth")
	authRoutes.Get("/session", h.Auth.Session)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/auto-connect", h.Auth.AutoConnect)
	authRoutes.Post("/refresh", h.Auth.Refresh)
	authRoutes.Post("/logout", h.Auth.Logout)
	authRoutes.Post("/forgot-password", h.Auth.ForgotPassword)

	// Защищенные маршруты.
	apiRoutes := app.Group("/api", middleware.NewSessionMiddleware(auth))

	apiRoutes.Get("/site-data", h.SiteData.Get)
	apiRoutes.Get("/site-data/*", h.SiteData.Nested)

	catalogues := apiRoutes.Group("/catalogues")
	catalogues.Get("/", h.Catalogue.List)
	catalogues.Post("/", h.Catalogue.Create)
	catalogues.Get("/:catalogue", h.Catalogue.Get)
	catalogues.Patch("/:catalogue", h.Catalogue.Update)
	catalogues.Delete("/:catalogue", h.Catalogue.Delete)
	catalogues.Get("/:catalogue/analyse", h.Catalogue.GetAnalyse)
	catalogues.Post("/:catalogue/analyse", h.Catalogue.Analyse)
	catalogues.Get("/:catalogue/pdf", h.Catalogue.GeneratePDF)

	catalogues.Get("/:catalogue/categories", h.Catalogue.Categories)
	catalogues.Post("/:catalogue/categories", h.Catalogue.CreateCategorie)
	catalogues.Get("/:catalogue/categories/:categorie", h.Catalogue.Categorie)
	catalogues.Patch("/:catalogue/categories/:categorie", h.Catalogue.UpdateCategorie)
	catalogues.Delete("/:catalogue/categories/:categorie", h.Catalogue.DeleteCategorie)

	vehicules := catalogues.Group("/:catalogue/categories/:categorie/vehicules")
	vehicules.Get("/", h.Catalogue.Vehicules)
	vehicules.Post("/", h.Catalogue.CreateVehicule)
	vehicules.Get("/:vehicule", h.Catalogue.Vehicule)
	vehicules.Patch("/:vehicule", h.Catalogue.UpdateVehicule)
	vehicules.Delete("/:vehicule", h.Catalogue.DeleteVehicule)

	comparos := apiRoutes.Group("/comparos")
	comparos.Get("/", h.Comparo.List)
	comparos.Post("/", h.Comparo.Create)
	comparos.Get("/:comparo", h.Comparo.Get)
	comparos.Patch("/:comparo", h.Comparo.Update)
	comparos.Delete("/:comparo", h.Comparo.Delete)

	apiRoutes.Post("/calculators/taxes", h.Calculator.Taxes)
	apiRoutes.Post("/calculators/aen", h.Calculator.Aen)

	apiRoutes.Get("/user", h.Profile.User)
	apiRoutes.Patch("/user/password", h.Profile.ChangePassword)
	apiRoutes.Patch("/user/password/reset", h.Profile.ResetPassword)

	apiRoutes.Get("/profile", h.Profile.Load)
	apiRoutes.Get("/profile/form", h.Profile.Form)
	apiRoutes.Put("/profile", h.Profile.Save)
	apiRoutes.Post("/profile/comptable", h.Profile.ToggleComptable)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
