package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"projectshelf/internal/auth"
	"projectshelf/internal/config"
	apphttp "projectshelf/internal/http"
	"projectshelf/internal/repository"
	"projectshelf/internal/repository/mongo"
	"projectshelf/internal/repository/sqlite"
	"projectshelf/internal/service"
	"projectshelf/internal/storage"
	"projectshelf/internal/telemetry"
)

type repositories struct {
	users      repository.UserRepository
	portfolios repository.PortfolioRepository
	metrics    repository.MetricsRepository
	close      func(context.Context) error
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			logger.Warnf("close database: %v", err)
		}
	}()

	if err := repos.users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := repos.portfolios.Init(ctx); err != nil {
		logger.Fatalf("init portfolio repository: %v", err)
	}
	if err := repos.metrics.Init(ctx); err != nil {
		logger.Fatalf("init metrics repository: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatalf("token manager: %v", err)
	}

	var media service.MediaService
	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	if storageSvc != nil {
		media = service.NewMediaService(storageSvc, service.MediaConfig{
			KeyPrefix:      cfg.Storage.KeyPrefix,
			MaxUploadBytes: cfg.Storage.MaxUploadBytes,
			URLTTL:         cfg.Storage.URLTTL,
		}, logger)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Storage.MaxUploadBytes
	handler := apphttp.NewHandler(apphttp.Services{
		Users:      service.NewUserService(repos.users, tokens, cfg.Auth.BcryptCost, logger),
		Portfolios: service.NewPortfolioService(repos.portfolios, repos.users, logger),
		Metrics:    service.NewMetricsService(repos.metrics, repos.portfolios, logger),
		Media:      media,
		Tokens:     tokens,
		Telemetry:  telemetry.New(),
	}, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return &repositories{
			users:      sqlite.NewUserRepository(db),
			portfolios: sqlite.NewPortfolioRepository(db),
			metrics:    sqlite.NewMetricsRepository(db),
			close:      func(context.Context) error { return db.Close() },
		}, nil
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, cfg.Database.URI, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		logger.Infof("using mongo database %s", cfg.Database.Name)
		return &repositories{
			users:      mongo.NewUserRepository(db),
			portfolios: mongo.NewPortfolioRepository(db),
			metrics:    mongo.NewMetricsRepository(db),
			close:      client.Disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// buildStorage returns nil when no bucket is configured; media routes then
// answer 503.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not set, media uploads disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket)
}
