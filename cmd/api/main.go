package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/imrishuroy/go-clubshop/internal/auth"
	"github.com/imrishuroy/go-clubshop/internal/aws"
	"github.com/imrishuroy/go-clubshop/internal/config"
	"github.com/imrishuroy/go-clubshop/internal/handlers"
	"github.com/imrishuroy/go-clubshop/internal/kvstore"
	"github.com/imrishuroy/go-clubshop/internal/observability"
	"github.com/imrishuroy/go-clubshop/internal/stores"
	"github.com/imrishuroy/go-clubshop/internal/validation"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(cfg.Logger))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func newCartStore(cfg config.Config, clients *aws.AWSClients) kvstore.Store {
	switch cfg.Cart.Store {
	case config.CartStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return kvstore.NewRedis(client, cfg.Cart.TTL)
	case config.CartStoreMemory:
		return kvstore.NewMemory()
	default:
		return kvstore.NewDynamo(clients.DynamoDB, cfg.Tables.Carts, cfg.Cart.TTL)
	}
}

func loadCatalog(cfg config.Config) (*stores.Catalog, error) {
	if cfg.Stores.File == "" {
		return stores.DefaultCatalog(), nil
	}
	return stores.LoadFile(cfg.Stores.File, validation.New())
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients, err := aws.NewAWSClients(ctx, aws.Settings{Region: cfg.AWS.Region, EndpointOverride: cfg.AWS.EndpointOverride})
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		logger.Fatal("failed to load store catalog", zap.String("file", cfg.Stores.File), zap.Error(err))
	}

	hcfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		MetricsNamespace: cfg.Metrics.Namespace,
		IdempotencyTable: cfg.Tables.Idempotency,
		OrdersTable:      cfg.Tables.Orders,
		QueueURL:         cfg.Queue.OrdersURL,
		TTLWindow:        cfg.Idempotency.TTL,
		CartStore:        newCartStore(cfg, clients),
		Verifier:         auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Catalog:          catalog,
		Logger:           logger,
	}
	if cfg.Metrics.Enabled {
		hcfg.CloudWatchClient = clients.CloudWatch
	}

	r := setupRouter(hcfg)
	logger.Info("api configured",
		zap.String("cart_store", cfg.Cart.Store),
		zap.Int("stores", catalog.Len()),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	// if RUN_LOCAL is true, run a local HTTP server for development.
	if cfg.Server.RunLocal {
		if err := serve(ctx, r, cfg.Server, logger); err != nil {
			logger.Fatal("local server failed", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

func serve(ctx context.Context, h http.Handler, s config.ServerConfig, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:         ":" + s.Port,
		Handler:      h,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("running local server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
