package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/stashit/stashit/internal/config"
	"github.com/stashit/stashit/internal/infra/database"
	"github.com/stashit/stashit/internal/infra/repository"
	"github.com/stashit/stashit/internal/infra/vector"
	"github.com/stashit/stashit/internal/present/rest"
	"github.com/stashit/stashit/internal/present/rest/middleware"
	"github.com/stashit/stashit/internal/service"
	"github.com/stashit/stashit/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := setupTracing(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			log.Fatalf("failed to set up tracing: %v", err)
		}
		defer shutdown(ctx)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := database.MigratePostgres(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var rdb *redis.Client
	if conf.Server.RedisAddr != "" {
		rdb = database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
	}

	var mc *memcache.Client
	if conf.Server.MemcachedAddr != "" {
		mc = database.NewMemcached(conf.Server.MemcachedAddr)
	}

	embedder, err := vector.NewOpenAIEmbedder(
		conf.Vector.EmbeddingHost,
		conf.Vector.EmbeddingToken,
		conf.Vector.EmbeddingModel,
	)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	index := vector.NewChromaIndex(vector.ChromaConfig{
		Host:       conf.Vector.ChromaHost,
		Tenant:     conf.Vector.ChromaTenant,
		Database:   conf.Vector.ChromaDatabase,
		APIKey:     conf.Vector.ChromaApiKey,
		Collection: conf.Vector.Collection,
	}, embedder)

	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	shareRepo := repository.NewShareLinkRepository(db)

	contentUC := usecase.NewContentUsecase(contentRepo, shareRepo, userRepo, index)
	searchUC := usecase.NewSearchUsecase(index, conf.Vector.TopN, conf.Vector.ScoreThreshold)

	authService := service.NewAuthService(
		userRepo,
		conf.Auth.JwtSecret,
		time.Duration(conf.Auth.TokenExpiryHours)*time.Hour,
	)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	limiter := middleware.NewRateLimiter(rdb, conf.Server.RateLimit, time.Hour)

	handler := rest.NewHandler(authService, contentUC, searchUC, mc, conf.Server.Environment)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("stashit"))
	}

	handler.RegisterRoutes(e, authMiddleware, limiter)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}

func setupTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("stashit"),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
