package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/alquileres-api/internal/application/analytics"
	"github.com/jhoicas/alquileres-api/internal/application/auth"
	"github.com/jhoicas/alquileres-api/internal/application/documents"
	"github.com/jhoicas/alquileres-api/internal/application/inventory"
	"github.com/jhoicas/alquileres-api/internal/application/rental"
	"github.com/jhoicas/alquileres-api/internal/application/site"
	"github.com/jhoicas/alquileres-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC       *usecase.ProductUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	ClientUC        *usecase.ClientUseCase
	SiteUC          *site.UseCase
	RentalUC        *rental.UseCase
	DocumentsUC     *documents.UseCase
	DashboardUC     *appanalytics.DashboardUseCase
	AuthUC          *auth.AuthUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ReplenishmentUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/replenishment", productHandler.Replenishment)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/capacity", productHandler.AdjustCapacity)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Obras
	sites := protected.Group("/sites")
	siteHandler := NewSiteHandler(deps.SiteUC)
	sites.Post("/", siteHandler.Create)
	sites.Get("/", siteHandler.List)
	sites.Get("/:id", siteHandler.GetByID)
	sites.Put("/:id", siteHandler.Update)
	sites.Delete("/:id", siteHandler.Delete)
	sites.Post("/:id/payment", siteHandler.RecordPayment)
	sites.Post("/:id/finish", siteHandler.Finish)
	sites.Post("/:id/pause", siteHandler.Pause)
	sites.Post("/:id/reactivate", siteHandler.Reactivate)
	sites.Post("/:id/reactivate-with-restock", siteHandler.ReactivateWithRestock)
	sites.Get("/:id/shortfall", siteHandler.Shortfall)

	// Alquileres
	rentals := protected.Group("/rentals")
	rentalHandler := NewRentalHandler(deps.RentalUC, deps.DocumentsUC)
	rentals.Post("/", rentalHandler.Create)
	rentals.Get("/", rentalHandler.List)
	rentals.Get("/:id", rentalHandler.GetByID)
	rentals.Put("/:id", rentalHandler.Update)
	rentals.Post("/:id/items", rentalHandler.AddItem)
	rentals.Delete("/:id/items/:productId", rentalHandler.RemoveItem)
	rentals.Put("/:id/items/:productId/quantity", rentalHandler.SetItemQuantity)
	rentals.Put("/:id/items/:productId/rate", rentalHandler.SetItemDailyRate)
	rentals.Put("/:id/items/:productId/added-date", rentalHandler.SetItemAddedDate)
	rentals.Post("/:id/payment", rentalHandler.RecordPayment)
	rentals.Post("/:id/transitions", rentalHandler.Transition)
	rentals.Post("/:id/reactivate-with-restock", rentalHandler.ReactivateWithRestock)
	rentals.Get("/:id/bill", rentalHandler.Bill)
	rentals.Get("/:id/documents/:kind", rentalHandler.Document)
	rentals.Get("/:id/documents/:kind/pdf", rentalHandler.DocumentPDF)

	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
