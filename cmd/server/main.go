package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"movie-catalog/internal/auth"
	"movie-catalog/internal/config"
	apphttp "movie-catalog/internal/http"
	"movie-catalog/internal/repository/sqlite"
	"movie-catalog/internal/service"
	"movie-catalog/internal/session"
	"movie-catalog/internal/storage"
	"movie-catalog/internal/view"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	movieRepo := sqlite.NewMovieRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := movieRepo.Init(ctx); err != nil {
		logger.Fatalf("init movie repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	movieService := service.NewMovieService(movieRepo, userRepo)

	sessionStore, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup session store: %v", err)
	}
	sessions := session.NewManager(
		sessionStore,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
		cfg.Session.SecureCookies,
	)

	guard := auth.NewGuard(movieRepo)

	renderer, err := view.NewTemplateRenderer()
	if err != nil {
		logger.Fatalf("setup renderer: %v", err)
	}

	posterStore, err := buildPosterStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		logger,
		userService,
		movieService,
		sessions,
		guard,
		renderer,
		posterStore,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: apphttp.MethodOverride(router),
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

func buildSessionStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (session.Store, error) {
	if cfg.Session.RedisAddr == "" {
		logger.Warn("no redis address configured, sessions held in memory")
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Session.RedisAddr,
		Password: cfg.Session.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	logger.Infof("using redis sessions at %s", cfg.Session.RedisAddr)
	return session.NewRedisStore(client), nil
}

func buildPosterStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("no storage bucket configured, poster uploads disabled")
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
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix), nil
}
