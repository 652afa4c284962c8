package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/audit"
	"github.com/LeChef318/warehouse-app/internal/application/catalog"
	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/application/stock"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Users      *identity.Usecase
	Stocks     *stock.Usecase
	Audits     *audit.Usecase
	Categories *catalog.CategoryUsecase
	Products   *catalog.ProductUsecase
	Warehouses *catalog.WarehouseUsecase
}

// Router registra las rutas de la API. Las mutaciones de stock, el journal y
// la administración de usuarios exigen MANAGER; el resto solo autenticación.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "UP"})
	})

	api := app.Group("/api")

	// Registro (público)
	userHandler := NewUserHandler(deps.Users)
	api.Post("/users/register", userHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware())
	manager := RequireRole(entity.RoleManager)

	// Users
	users := protected.Group("/users")
	users.Get("/me", userHandler.Me)
	users.Patch("/me", userHandler.UpdateMe)
	users.Get("/", manager, userHandler.List)
	users.Get("/:id", manager, userHandler.GetByID)
	users.Patch("/:id", manager, userHandler.Update)
	users.Put("/:id/promote", manager, userHandler.Promote)
	users.Put("/:id/demote", manager, userHandler.Demote)
	users.Delete("/:id", manager, userHandler.Deactivate)

	// Stocks
	stocks := protected.Group("/stocks")
	stockHandler := NewStockHandler(deps.Stocks, deps.Users)
	stocks.Get("/", stockHandler.List)
	stocks.Get("/product/:productId/warehouse/:warehouseId", stockHandler.GetOne)
	stocks.Get("/product/:productId", stockHandler.ListByProduct)
	stocks.Get("/warehouse/:warehouseId", stockHandler.ListByWarehouse)
	stocks.Post("/", manager, stockHandler.Create)
	stocks.Put("/", manager, stockHandler.Update)
	stocks.Post("/transfer", manager, stockHandler.Transfer)

	// Audit (solo MANAGER)
	audits := protected.Group("/audit", manager)
	auditHandler := NewAuditHandler(deps.Audits)
	audits.Get("/", auditHandler.List)
	audits.Get("/recent", auditHandler.Recent)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Categories)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", manager, categoryHandler.Create)
	categories.Put("/:id", manager, categoryHandler.Update)
	categories.Delete("/:id", manager, categoryHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Products)
	products.Get("/", productHandler.List)
	products.Get("/category/:categoryId", productHandler.ListByCategory)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", manager, productHandler.Create)
	products.Put("/:id", manager, productHandler.Update)
	products.Delete("/:id", manager, productHandler.Delete)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.Warehouses)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", manager, warehouseHandler.Create)
	warehouses.Put("/:id", manager, warehouseHandler.Update)
	warehouses.Delete("/:id", manager, warehouseHandler.Delete)
}
