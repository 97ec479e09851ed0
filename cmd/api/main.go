package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/stockroomhq/stockroom-backend/internal/config"
	"github.com/stockroomhq/stockroom-backend/internal/db"
	"github.com/stockroomhq/stockroom-backend/internal/logger"
	"github.com/stockroomhq/stockroom-backend/internal/modules/alert"
	"github.com/stockroomhq/stockroom-backend/internal/modules/audit"
	"github.com/stockroomhq/stockroom-backend/internal/modules/auth"
	"github.com/stockroomhq/stockroom-backend/internal/modules/customer"
	"github.com/stockroomhq/stockroom-backend/internal/modules/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/modules/notification"
	"github.com/stockroomhq/stockroom-backend/internal/modules/order"
	"github.com/stockroomhq/stockroom-backend/internal/modules/reports"
	"github.com/stockroomhq/stockroom-backend/internal/modules/supplier"
	"github.com/stockroomhq/stockroom-backend/internal/modules/user"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("stockroom-api")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error", "error", err)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer database.Close()

	if err := db.Migrate(context.Background(), database); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	log.Info("connected to database")

	var notifier notification.Notifier = notification.Nop{}
	if cfg.SMTPHost != "" {
		notifier = notification.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(auth.Middleware(cfg.JWTSecret))

	// ── Identity & permissions ──────────────────────────────
	auditRepo := audit.NewPostgresRepository(database)
	audit.NewHandler(auditRepo).RegisterRoutes(router)

	userRepo := user.NewPostgresRepository(database)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo, cfg.JWTSecret, auditRepo)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Counterparties ──────────────────────────────────────
	supplierRepo := supplier.NewPostgresRepository(database)
	supplierService := supplier.NewService(supplierRepo, auditRepo, log)
	supplier.NewHandler(supplierService).RegisterRoutes(router)

	customerRepo := customer.NewPostgresRepository(database)
	customerService := customer.NewService(customerRepo, auditRepo, log)
	customer.NewHandler(customerService).RegisterRoutes(router)

	// ── Item store & stock alerts ───────────────────────────
	itemRepo := inventory.NewPostgresRepository(database)
	itemService := inventory.NewService(itemRepo, auditRepo, log)
	inventory.NewHandler(itemService).RegisterRoutes(router)

	alertRepo := alert.NewPostgresRepository(database)
	alertService := alert.NewService(alertRepo, itemRepo, userRepo, notifier, auditRepo, log)
	alert.NewHandler(alertService).RegisterRoutes(router)

	// ── Order lifecycle (purchase + sales) ──────────────────
	purchaseRepo := order.NewPostgresRepository(database, order.KindPurchase, itemRepo)
	purchaseService := order.NewService(order.KindPurchase, purchaseRepo, itemRepo,
		alertService, userRepo, auditRepo, notifier, log)
	order.NewHandler(purchaseService, order.KindPurchase).RegisterRoutes(router)

	salesRepo := order.NewPostgresRepository(database, order.KindSales, itemRepo)
	salesService := order.NewService(order.KindSales, salesRepo, itemRepo,
		alertService, userRepo, auditRepo, notifier, log)
	order.NewHandler(salesService, order.KindSales).RegisterRoutes(router)

	// ── Reports ─────────────────────────────────────────────
	reportsRepo := reports.NewPostgresRepository(database)
	reportsService := reports.NewService(reportsRepo)
	reports.NewHandler(reportsService).RegisterRoutes(router)

	// ── Start server ────────────────────────────────────────
	log.Info("stockroom API listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
