package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/rogerioalves7/domo-1/internal/accounts"
	"github.com/rogerioalves7/domo-1/internal/app"
	"github.com/rogerioalves7/domo-1/internal/auth"
	"github.com/rogerioalves7/domo-1/internal/cards"
	"github.com/rogerioalves7/domo-1/internal/catalog"
	"github.com/rogerioalves7/domo-1/internal/history"
	"github.com/rogerioalves7/domo-1/internal/house"
	"github.com/rogerioalves7/domo-1/internal/inventory"
	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/observability"
	"github.com/rogerioalves7/domo-1/internal/platform/cache"
	"github.com/rogerioalves7/domo-1/internal/platform/db"
	"github.com/rogerioalves7/domo-1/internal/recurring"
	"github.com/rogerioalves7/domo-1/internal/shared"
	"github.com/rogerioalves7/domo-1/internal/shopping"
	"github.com/rogerioalves7/domo-1/jobs"
)

// houseGateway adapts the house service to the slice auth needs at signup.
type houseGateway struct {
	svc *house.Service
}

func (g houseGateway) SetupDefault(ctx context.Context, userID int64, username string) error {
	_, err := g.svc.SetupDefault(ctx, userID, username)
	return err
}

func (g houseGateway) ValidateInvitation(ctx context.Context, email string, inviteID uuid.UUID) error {
	return g.svc.ValidateInvitation(ctx, email, inviteID)
}

func (g houseGateway) AcceptInvitation(ctx context.Context, userID int64, email string, inviteID uuid.UUID) error {
	return g.svc.AcceptInvitation(ctx, userID, email, inviteID)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, cfg.AppBaseURL)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	idemStore := shared.NewIdempotencyStore(pool)

	houseRepo := house.NewRepository(pool)
	houseService := house.NewService(houseRepo, jobClient, logger)
	houseHandler := house.NewHandler(logger, houseService)

	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokenStore, houseGateway{svc: houseService}, logger)
	authHandler := auth.NewHandler(logger, authService)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, logger)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService, idemStore)

	cardsRepo := cards.NewRepository(pool)
	cardsService := cards.NewService(cardsRepo, ledgerService, logger)
	cardsHandler := cards.NewHandler(logger, cardsService, idemStore)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo, logger)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, logger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	shoppingRepo := shopping.NewRepository(pool)
	shoppingService := shopping.NewService(shoppingRepo, ledgerService, logger)
	shoppingHandler := shopping.NewHandler(logger, shoppingService, idemStore)

	recurringRepo := recurring.NewRepository(pool)
	recurringService := recurring.NewService(recurringRepo, logger)
	recurringHandler := recurring.NewHandler(logger, recurringService)

	historyRepo := history.NewRepository(pool)
	historyService := history.NewService(historyRepo, logger)
	historyHandler := history.NewHandler(logger, historyService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		AuthService:      authService,
		AuthHandler:      authHandler,
		HouseHandler:     houseHandler,
		AccountsHandler:  accountsHandler,
		CardsHandler:     cardsHandler,
		LedgerHandler:    ledgerHandler,
		CatalogHandler:   catalogHandler,
		InventoryHandler: inventoryHandler,
		ShoppingHandler:  shoppingHandler,
		RecurringHandler: recurringHandler,
		HistoryHandler:   historyHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
