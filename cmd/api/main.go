package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Aguaflow-api/internal/application/auth"
	"github.com/jhoicas/Aguaflow-api/internal/application/deliveries"
	"github.com/jhoicas/Aguaflow-api/internal/application/houses"
	"github.com/jhoicas/Aguaflow-api/internal/application/payments"
	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
	"github.com/jhoicas/Aguaflow-api/internal/application/usecase"
	"github.com/jhoicas/Aguaflow-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Aguaflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Aguaflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Aguaflow-api/internal/interfaces/http"
	"github.com/jhoicas/Aguaflow-api/pkg/config"
	"github.com/jhoicas/Aguaflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	houseRepo := postgres.NewHouseRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	tankRepo := postgres.NewTankRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Detrás de un pooler en modo statement (PgBouncer) las transacciones
	// multi-statement fallan; DB_DISABLE_TX cae al modo sin transacción,
	// donde las guardas atómicas por UPDATE siguen protegiendo cada paso.
	var paymentTx payments.TxRunner = postgres.NewPaymentTxRunner(pool)
	var consumeTx tanks.TxRunner = postgres.NewConsumeTxRunner(pool)
	if cfg.DB.DisableTx {
		log.Warn().Msg("transacciones deshabilitadas (DB_DISABLE_TX)")
		paymentTx = postgres.NewNoPaymentTxRunner(pool)
		consumeTx = postgres.NewNoConsumeTxRunner(pool)
	}

	slackNotifier := notify.NewSlackNotifier(cfg.Notify.SlackWebhookURL, log)
	receiptGen := infrapdf.NewReceiptGenerator(cfg.App.Name)

	createPaymentUC := payments.NewCreatePaymentUseCase(paymentRepo)
	confirmPaymentUC := payments.NewConfirmPaymentUseCase(paymentRepo)
	applyPaymentUC := payments.NewApplyPaymentUseCase(paymentRepo, paymentTx, log)
	balanceUC := payments.NewBalanceUseCase(paymentRepo, deliveryRepo)
	paymentQueryUC := payments.NewQueryUseCase(paymentRepo)

	consumeUC := tanks.NewConsumeUseCase(
		tankRepo, paymentRepo, deliveryRepo,
		consumeTx, slackNotifier, cfg.Notify.LowLevelPercent, log,
	)
	tankManageUC := tanks.NewManageUseCase(tankRepo, productRepo, movementRepo)

	houseUC := houses.NewUseCase(
		houseRepo, paymentRepo, deliveryRepo,
		createPaymentUC, applyPaymentUC, balanceUC,
	)
	deliveryUC := deliveries.NewUseCase(consumeUC, deliveryRepo, houseRepo)

	productUC := usecase.NewProductUseCase(productRepo, tankRepo, movementRepo)
	saleUC := usecase.NewSaleUseCase(saleRepo, productRepo, movementRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Aguaflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		HouseUC:        houseUC,
		CreatePayment:  createPaymentUC,
		ConfirmPayment: confirmPaymentUC,
		ApplyPayment:   applyPaymentUC,
		Balance:        balanceUC,
		PaymentQuery:   paymentQueryUC,
		DeliveryUC:     deliveryUC,
		TankManage:     tankManageUC,
		Consume:        consumeUC,
		ProductUC:      productUC,
		SaleUC:         saleUC,
		UserUC:         userUC,
		Houses:         houseRepo,
		Receipt:        receiptGen,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
