// Command server runs the content system HTTP API.
//
//	@title						Content System API
//	@version					1.0
//	@description				Pages, users, uploads and site settings of a small CMS.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/api"
	"github.com/fpress/content-system/internal/api/handler"
	"github.com/fpress/content-system/internal/core/service"
	"github.com/fpress/content-system/internal/infrastructure/config"
	mongodb "github.com/fpress/content-system/internal/infrastructure/db/mongo"
	redisdb "github.com/fpress/content-system/internal/infrastructure/db/redis"
	"github.com/fpress/content-system/internal/infrastructure/queue"
	"github.com/fpress/content-system/internal/infrastructure/storage"
	"github.com/fpress/content-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	pages := mongodb.NewPageRepository(db)
	users := mongodb.NewUserRepository(db)
	files := mongodb.NewFileRepository(db)
	meta := mongodb.NewSiteMetaRepository(db)
	if err := mongodb.EnsureIndexes(ctx, pages, users, files); err != nil {
		return err
	}

	disk, err := storage.NewDiskStorage(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	// Workers stop only after the HTTP server has drained its requests.
	workCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.Uploads.Workers, logger.Component(log, "dispatcher"))
	dispatcher.Start(workCtx)

	contentSvc := service.NewContentService(pages, logger.Component(log, "content"))
	userSvc := service.NewUserService(users, pages, files, service.NewBcryptHasher(0), logger.Component(log, "users"))
	fileSvc := service.NewFileService(files, disk, dispatcher, logger.Component(log, "files"))
	metaSvc := service.NewSiteMetaService(meta, logger.Component(log, "meta"))
	authSvc := service.NewAuthService(userSvc, redisdb.NewSessionRevoker(rdb), cfg.JWTSecret, cfg.SessionTTL, logger.Component(log, "auth"))

	boot := service.NewBootstrapper(contentSvc, userSvc, metaSvc, logger.Component(log, "bootstrap"))
	if err := boot.Run(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Auth:    authSvc,
		Content: contentSvc,
		Users:   userSvc,
		Files:   fileSvc,
		Meta:    metaSvc,
		Checks: map[string]handler.Checker{
			"mongodb": handler.MongoChecker(db),
			"redis":   handler.RedisChecker(rdb),
		},
		Logger: logger.Component(log, "http"),
	})

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
	return serve(ctx, e, ":"+cfg.Port, log, stopWorkers)
}

type httpServer interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// serve runs srv until ctx is done or the listener fails. On shutdown it
// drains in-flight requests first and calls afterShutdown once they are done.
func serve(ctx context.Context, srv httpServer, addr string, log zerolog.Logger, afterShutdown func()) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			afterShutdown()
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	afterShutdown()
	return err
}
