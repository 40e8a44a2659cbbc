package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/auth"
	"github.com/imrishuroy/go-clubshop/internal/aws"
	"github.com/imrishuroy/go-clubshop/internal/cart"
	"github.com/imrishuroy/go-clubshop/internal/idempotency"
	"github.com/imrishuroy/go-clubshop/internal/kvstore"
	"github.com/imrishuroy/go-clubshop/internal/orders"
	"github.com/imrishuroy/go-clubshop/internal/stores"
	"github.com/imrishuroy/go-clubshop/internal/validation"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI // nil disables metrics
	MetricsNamespace string
	IdempotencyTable string
	OrdersTable      string
	QueueURL         string
	TTLWindow        time.Duration

	CartStore kvstore.Store
	Verifier  *auth.Verifier
	Catalog   *stores.Catalog
	Logger    *zap.Logger
	Now       func() time.Time
}

// API holds the wired components behind the routes.
type API struct {
	carts     *cart.Registry
	orders    *orders.Store
	catalog   *stores.Catalog
	validator *validatorv10.Validate
	now       func() time.Time
}

// RegisterRoutes wires the cart, checkout, order and store routes onto r.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) *API {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = stores.DefaultCatalog()
	}

	idempStore := idempotency.NewStore(cfg.DynamoDBClient, cfg.IdempotencyTable, cfg.TTLWindow)
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	var metrics *aws.Metrics
	if cfg.CloudWatchClient != nil {
		metrics = aws.NewMetrics(cfg.CloudWatchClient, cfg.MetricsNamespace)
	}
	creator := orders.NewCreator(ordersStore, idempStore, publisher, metrics, logger.Named("orders"))

	api := &API{
		carts:     cart.NewRegistry(cfg.CartStore, creator, logger.Named("cart")),
		orders:    ordersStore,
		catalog:   catalog,
		validator: validation.New(),
		now:       now,
	}

	if cfg.Verifier != nil {
		r.Use(auth.Optional(cfg.Verifier))
	}

	c := r.Group("/cart")
	c.GET("", api.getCart)
	c.DELETE("", api.clearCart)
	c.POST("/items", api.addItem)
	c.PUT("/items/:productId", api.setQuantity)
	c.POST("/items/:productId/increment", api.incrementItem)
	c.POST("/items/:productId/decrement", api.decrementItem)
	c.DELETE("/items/:productId", api.removeItem)

	r.POST("/checkout", api.checkout)

	o := r.Group("/orders", auth.Required())
	o.GET("", api.listOrders)
	o.GET("/:id", api.getOrder)

	s := r.Group("/stores")
	s.GET("", api.listStores)
	s.GET("/nearest", api.nearestStore)
	s.GET("/:id", api.getStore)

	return api
}
