package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/pedrolvck/vendrix/internal/app"
	"github.com/pedrolvck/vendrix/internal/app/handlers"
	"github.com/pedrolvck/vendrix/internal/clients"
	"github.com/pedrolvck/vendrix/internal/config"
	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/lib/logger"
	"github.com/pedrolvck/vendrix/internal/lib/logger/handlers/urllog"
	"github.com/pedrolvck/vendrix/internal/security/jwtmiddleware"
	"github.com/pedrolvck/vendrix/internal/service"
	"github.com/pedrolvck/vendrix/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// load .env if it exists, then the main config
	_ = godotenv.Load()
	cfg := config.MustLoad()

	// logger setup depends on the environment
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// storage layer, one repository per aggregate
	userRepo := storage.NewUserRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	// external collaborators are built here and injected explicitly,
	// never constructed inside the services
	paymentGateway := clients.NewHostedCheckoutClient(cfg.Payment, log)
	mailSender := clients.NewMailClient(cfg.Mail, log)

	authService := service.NewAuthService(log, userRepo, time.Duration(cfg.JWT.TokenTTL)*time.Minute)
	catalogService := service.NewCatalogService(log, productRepo, categoryRepo)
	userService := service.NewUserService(log, userRepo)
	orderService := service.NewOrderService(log, orderRepo)
	checkoutService := service.NewCheckoutService(log, application.DB, userRepo, productRepo, orderRepo, paymentGateway, mailSender, cfg.Payment)

	// public endpoints
	router.Post("/api/auth/register", handlers.RegisterHandler(log, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(log, authService))

	// everything else requires a valid bearer token
	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)

		r.Get("/api/profile", handlers.ProfileHandler(log, userService))
		r.Get("/api/products", handlers.ListProductsHandler(log, catalogService))
		r.Get("/api/products/{id}", handlers.GetProductHandler(log, catalogService))
		r.Get("/api/categories", handlers.ListCategoriesHandler(log, catalogService))
		r.Get("/api/orders", handlers.OrdersHandler(log, orderService))
		r.Post("/api/checkout", handlers.CheckoutHandler(log, checkoutService))

		// catalog writes are restricted to suppliers and admins
		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.RequireRoles(models.RoleSupplier, models.RoleAdmin))
			r.Post("/api/products", handlers.CreateProductHandler(log, catalogService))
			r.Put("/api/products/{id}", handlers.UpdateProductHandler(log, catalogService))
			r.Delete("/api/products/{id}", handlers.DeleteProductHandler(log, catalogService))
		})

		// admin only
		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.RequireRoles(models.RoleAdmin))
			r.Post("/api/categories", handlers.CreateCategoryHandler(log, catalogService))
			r.Patch("/api/users/{id}/role", handlers.UpdateRoleHandler(log, userService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
