package exporter

import (
	"context"

	"fulfillment-system/internal/connections/rabbitmq"
	"fulfillment-system/internal/microservices/exporter/service"
)

// Run consumes PO batch events until ctx is canceled.
func Run(ctx context.Context, rmq *rabbitmq.Client, prefetch int) error {
	return service.New(rmq, prefetch).Run(ctx)
}
