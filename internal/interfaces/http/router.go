package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aguaflow-api/internal/application/auth"
	"github.com/jhoicas/Aguaflow-api/internal/application/deliveries"
	"github.com/jhoicas/Aguaflow-api/internal/application/houses"
	"github.com/jhoicas/Aguaflow-api/internal/application/payments"
	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
	"github.com/jhoicas/Aguaflow-api/internal/application/usecase"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	HouseUC        *houses.UseCase
	CreatePayment  *payments.CreatePaymentUseCase
	ConfirmPayment *payments.ConfirmPaymentUseCase
	ApplyPayment   *payments.ApplyPaymentUseCase
	Balance        *payments.BalanceUseCase
	PaymentQuery   *payments.QueryUseCase
	DeliveryUC     *deliveries.UseCase
	TankManage     *tanks.ManageUseCase
	Consume        *tanks.ConsumeUseCase
	ProductUC      *usecase.ProductUseCase
	SaleUC         *usecase.SaleUseCase
	UserUC         *usecase.UserUseCase
	Houses         repository.HouseRepository
	Receipt        ReceiptPDF
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	// Houses (protegido)
	housesGroup := protected.Group("/houses")
	houseHandler := NewHouseHandler(deps.HouseUC)
	housesGroup.Post("/", houseHandler.Create)
	housesGroup.Get("/", houseHandler.List)
	housesGroup.Get("/:id", houseHandler.GetByID)
	housesGroup.Put("/:id", houseHandler.Update)
	housesGroup.Delete("/:id", admin, houseHandler.Delete)
	housesGroup.Get("/:id/detail", houseHandler.Detail)
	housesGroup.Get("/:id/debt", houseHandler.Debt)
	housesGroup.Post("/:id/pay", houseHandler.Pay)

	// Payments (protegido; crear, confirmar y aplicar solo admin)
	paymentsGroup := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(
		deps.CreatePayment, deps.ConfirmPayment, deps.ApplyPayment,
		deps.Balance, deps.PaymentQuery, deps.Houses, deps.Receipt,
	)
	paymentsGroup.Post("/", admin, paymentHandler.Create)
	paymentsGroup.Get("/", paymentHandler.List)
	paymentsGroup.Get("/balance/house/:houseId", paymentHandler.Balance)
	paymentsGroup.Get("/house/:houseId", paymentHandler.ListByHouse)
	paymentsGroup.Get("/:id", paymentHandler.GetByID)
	paymentsGroup.Get("/:id/receipt", paymentHandler.Receipt)
	paymentsGroup.Post("/:id/confirm", admin, paymentHandler.Confirm)
	paymentsGroup.Post("/:id/apply", admin, paymentHandler.Apply)

	// Deliveries (protegido; registrar solo admin)
	deliveriesGroup := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveriesGroup.Post("/", admin, deliveryHandler.Create)
	deliveriesGroup.Get("/", deliveryHandler.List)
	deliveriesGroup.Get("/house/:houseId", deliveryHandler.ListByHouse)

	// Tanks (resumen para todos; llenado y gestión solo admin)
	tanksGroup := protected.Group("/tanks")
	tankHandler := NewTankHandler(deps.TankManage, deps.Consume)
	tanksGroup.Get("/summary", tankHandler.Summary)
	tanksGroup.Post("/fill", admin, tankHandler.Fill)
	tanksGroup.Post("/", admin, tankHandler.Create)
	tanksGroup.Put("/:id", admin, tankHandler.Update)
	tanksGroup.Post("/:id/recharge", admin, tankHandler.Recharge)
	tanksGroup.Post("/:id/deactivate", admin, tankHandler.Deactivate)
	tanksGroup.Delete("/:id", admin, tankHandler.Delete)

	// Products (protegido; borrar solo admin)
	productsGroup := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	productsGroup.Post("/", productHandler.Create)
	productsGroup.Get("/", productHandler.List)
	productsGroup.Get("/:id", productHandler.GetByID)
	productsGroup.Put("/:id", productHandler.Update)
	productsGroup.Delete("/:id", admin, productHandler.Delete)
	productsGroup.Post("/:id/adjust", productHandler.Adjust)

	// Inventory movements (protegido)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/movements", productHandler.Movements)
	invGroup.Get("/movements/product/:id", productHandler.MovementsByProduct)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)

	// Users (solo admin)
	usersGroup := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	usersGroup.Get("/", userHandler.List)
	usersGroup.Put("/:id/role", userHandler.ChangeRole)
	usersGroup.Delete("/:id", userHandler.Delete)
}
