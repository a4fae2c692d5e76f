package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"opticshop/internal/config"
	"opticshop/internal/db"
	"opticshop/internal/email"
	"opticshop/internal/events"
	"opticshop/internal/grpcserver"
	"opticshop/internal/httpserver"
	cartrepo "opticshop/internal/repository/cart"
	categoryrepo "opticshop/internal/repository/category"
	glassesrepo "opticshop/internal/repository/glasses"
	orderrepo "opticshop/internal/repository/order"
	"opticshop/internal/repository/uow"
	userrepo "opticshop/internal/repository/user"
	"opticshop/internal/repository/verification"
	authsvc "opticshop/internal/service/auth"
	cartsvc "opticshop/internal/service/cart"
	catalogsvc "opticshop/internal/service/catalog"
	categorysvc "opticshop/internal/service/category"
	ordersvc "opticshop/internal/service/order"
	"opticshop/internal/service/passwordreset"
)

//go:generate swag init -g main.go -d .,../../internal/httpserver --parseDependency --parseInternal --outputTypes go -o ../../docs

// @title                      Optic shop API
// @version                    1.0
// @description                Glasses catalog, carts and orders.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireAPI(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var mail email.Sender = email.NewLogSender(logger)
	if cfg.SMTP.Host != "" {
		mail = email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	}

	hub := events.NewHub(cfg.CORSAllowedOrigin, logger)
	defer hub.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	glassesRepo := glassesrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	codeRepo := verification.NewPostgres(dbpool, logger)

	authService := authsvc.New(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	passwordService := passwordreset.New(userRepo, codeRepo, mail, logger)
	catalogService := catalogsvc.New(glassesRepo)
	categoryService := categorysvc.New(categoryRepo)
	cartService := cartsvc.New(cartRepo, glassesRepo)
	orderService := ordersvc.New(uow.NewPostgres(dbpool, logger), orderRepo, userRepo, mail, hub, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Auth:          authService,
		Passwords:     passwordService,
		Catalog:       catalogService,
		Categories:    categoryService,
		Carts:         cartService,
		Orders:        orderService,
		Events:        http.HandlerFunc(hub.ServeWS),
		DB:            dbpool,
		Currency:      cfg.Currency,
		AllowedOrigin: cfg.CORSAllowedOrigin,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatalf("listen grpc: %v", err)
	}
	health := grpcserver.New(logger)
	health.SetServing(true)

	serverErr := make(chan error, 2)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	go func() {
		logger.Printf("starting grpc health server on %s", cfg.GRPCAddr)
		if err := health.Serve(grpcLis); err != nil {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	health.SetServing(false)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	health.Stop()
}
