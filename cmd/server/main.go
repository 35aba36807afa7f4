package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dramirezponce/walkergestion-sub000/internal/config"
	"github.com/Dramirezponce/walkergestion-sub000/internal/db"
	"github.com/Dramirezponce/walkergestion-sub000/internal/handler"
	"github.com/Dramirezponce/walkergestion-sub000/internal/repository"
	"github.com/Dramirezponce/walkergestion-sub000/internal/server"
	"github.com/Dramirezponce/walkergestion-sub000/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := db.Migrate(ctx, pg); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	unitRepo := repository.BusinessUnitRepository{DB: pg}
	saleRepo := repository.SaleRepository{DB: pg}
	transferRepo := repository.TransferRepository{DB: pg}
	renditionRepo := repository.RenditionRepository{DB: pg}
	goalRepo := repository.GoalRepository{DB: pg}
	bonusRepo := repository.BonusRepository{DB: pg}
	alertRepo := repository.AlertRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}

	// services
	alerter := service.Alerter{Repo: alertRepo, Logger: logger}
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	renditionSvc := service.RenditionService{
		Transfers:  transferRepo,
		Renditions: renditionRepo,
		Alerts:     alerter,
		Logger:     logger,
	}
	bonusSvc := service.BonusService{
		Goals:   goalRepo,
		Sales:   saleRepo,
		Bonuses: bonusRepo,
		Alerts:  alerter,
		Logger:  logger,
	}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	userHandler := handler.UserHandler{Repo: userRepo, Service: &authSvc}
	unitHandler := handler.BusinessUnitHandler{Repo: unitRepo}
	saleHandler := handler.SaleHandler{Repo: saleRepo, Currency: cfg.DefaultCurrency}
	transferHandler := handler.TransferHandler{Repo: transferRepo}
	renditionHandler := handler.RenditionHandler{Service: renditionSvc, Repo: renditionRepo, Currency: cfg.DefaultCurrency}
	goalHandler := handler.GoalHandler{Repo: goalRepo, Currency: cfg.DefaultCurrency}
	bonusHandler := handler.BonusHandler{Service: bonusSvc, Repo: bonusRepo}
	alertHandler := handler.AlertHandler{Repo: alertRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	homeHandler := handler.HomeHandler{}

	router := server.NewRouter(cfg, logger, healthHandler, authHandler, userHandler, unitHandler, saleHandler, transferHandler, renditionHandler, goalHandler, bonusHandler, alertHandler, dashboardHandler, homeHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
