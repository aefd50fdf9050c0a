package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/rogerioalves7/domo-1/internal/app"
	jobmetrics "github.com/rogerioalves7/domo-1/internal/jobs"
	"github.com/rogerioalves7/domo-1/internal/platform/db"
	"github.com/rogerioalves7/domo-1/internal/shared"
	"github.com/rogerioalves7/domo-1/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)

	mailer := jobs.NewMailer(jobs.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	}, logger)

	cleanup := jobs.NewIdempotencyCleanup(
		shared.NewIdempotencyStore(pool),
		cfg.IdempotencyKeyTTL,
		logger,
	)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendMail, Handler: func(ctx context.Context, t *asynq.Task) error {
				return metrics.Track(jobs.TaskTypeSendMail).End(mailer.HandleSendMail(ctx, t))
			}},
			{Type: jobs.TaskTypeIdempotencyCleanup, Handler: func(ctx context.Context, t *asynq.Task) error {
				return metrics.Track(jobs.TaskTypeIdempotencyCleanup).End(cleanup.Handle(ctx, t))
			}},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewIdempotencyCleanupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
