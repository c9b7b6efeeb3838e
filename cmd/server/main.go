package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iplayapp/iplay-backend/internal/api"
	"github.com/iplayapp/iplay-backend/internal/backup"
	"github.com/iplayapp/iplay-backend/internal/certificates"
	"github.com/iplayapp/iplay-backend/internal/challenge"
	"github.com/iplayapp/iplay-backend/internal/config"
	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/jobs"
	"github.com/iplayapp/iplay-backend/internal/leaderboard"
	"github.com/iplayapp/iplay-backend/internal/logging"
	"github.com/iplayapp/iplay-backend/internal/observability"
	"github.com/iplayapp/iplay-backend/internal/storage"
	"github.com/iplayapp/iplay-backend/internal/triggers"
	"github.com/joho/godotenv"
)

// staleRequestAge is how long a resolved join request is kept before the
// weekly sweep removes it.
const staleRequestAge = 30 * 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("note: .env not found, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Sugar

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, os.Getenv("RELEASE"))
	if err != nil {
		logger.Warnw("sentry init failed, continuing without it", "err", err)
	}
	defer flushSentry()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("database connect failed", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		logger.Fatalw("migrations failed", "err", err)
	}

	bucket, err := storage.Open(cfg.OSS)
	if err != nil {
		logger.Fatalw("object storage connect failed", "err", err)
	}
	if bucket == nil {
		logger.Infow("object storage not configured; certificates, backups and exports disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	issuer := &certificates.Issuer{
		DB:            database,
		Bucket:        bucket,
		VerifyBaseURL: cfg.VerifyBaseURL,
		Log:           logger,
	}
	err = triggers.Listen(ctx, cfg.DatabaseURL, triggers.Handlers{
		UserCreated: issuer.OnUserCreated,
		UserDeleted: func(ctx context.Context, userID string) error {
			return db.CleanupUserData(ctx, database, userID)
		},
		ClassroomDeleted: func(ctx context.Context, classroomID string, studentIDs []string) error {
			return db.CleanupClassroomData(ctx, database, classroomID, studentIDs)
		},
	}, logger)
	if err != nil {
		logger.Fatalw("trigger listener failed", "err", err)
	}

	runner := jobs.New(ctx, cfg.Location, logger)
	schedule := func(spec, name string, fn jobs.Job) {
		if err := runner.Schedule(spec, name, fn); err != nil {
			logger.Fatalw("job schedule failed", "job", name, "err", err)
		}
	}
	schedule("0 2 * * *", "leaderboard_update", func(ctx context.Context) error {
		return leaderboard.Run(ctx, database, logger)
	})
	schedule("1 0 * * *", "daily_challenge", func(ctx context.Context) error {
		return challenge.Run(ctx, database, cfg.Location, logger)
	})
	schedule("0 3 * * 0", "weekly_sweep", func(ctx context.Context) error {
		now := time.Now().UTC()
		requests, announcements, err := db.SweepStaleRecords(ctx, database, now.Add(-staleRequestAge), now)
		if err != nil {
			return err
		}
		logger.Infow("stale records swept", "joinRequests", requests, "announcements", announcements)
		return nil
	})
	schedule("30 3 * * 0", "weekly_backup", func(ctx context.Context) error {
		return backup.Run(ctx, database, bucket, logger)
	})
	runner.Start()
	defer runner.Stop()

	srv := &api.Server{DB: database, Bucket: bucket, Cfg: cfg, Log: logger}
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Router()}
	go func() {
		logger.Infow("http server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("http server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http shutdown", "err", err)
	}
}
