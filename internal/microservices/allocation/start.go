package allocation

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"

	"fulfillment-system/internal/common/httpx"
	"fulfillment-system/internal/common/logger"
	"fulfillment-system/internal/config"
	"fulfillment-system/internal/connections/rabbitmq"
	"fulfillment-system/internal/ledger"
	"fulfillment-system/internal/microservices/allocation/handlers"
	"fulfillment-system/internal/microservices/allocation/repository"
	"fulfillment-system/internal/microservices/allocation/service"
)

// Run wires the allocation service and serves until ctx is canceled.
func Run(ctx context.Context, port int, db *sql.DB, rmq *rabbitmq.Client, cfg config.EngineConfig) error {
	lg := logger.New("allocation-service")

	repo := repository.New(db)
	led := ledger.NewPostgres(db)
	svc := service.New(repo, led, rmq, cfg, lg)
	h := handlers.NewAllocationHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /allocations", h.ProcessBatch)

	lg.Info("service_started", map[string]any{"port": port})
	srv := httpx.New(":"+strconv.Itoa(port), mux)
	return srv.Run(ctx)
}
