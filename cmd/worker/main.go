package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/aws"
	"github.com/imrishuroy/go-clubshop/internal/config"
	"github.com/imrishuroy/go-clubshop/internal/observability"
	"github.com/imrishuroy/go-clubshop/internal/orders"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	clients, err := aws.NewAWSClients(ctx, aws.Settings{Region: cfg.AWS.Region, EndpointOverride: cfg.AWS.EndpointOverride})
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	p := NewProcessor(orders.NewStore(clients.DynamoDB, cfg.Tables.Orders), logger.Named("worker"))

	// RUN_LOCAL=true feeds a single event from LOCAL_SQS_BODY through the processor.
	if cfg.Server.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"type":"order.created","order_id":"local-order-1","idempotency_key":"local-key-1"}`
		}
		event := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "local", Body: body}}}
		if err := p.Handle(ctx, event); err != nil {
			logger.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(p.Handle)
}
