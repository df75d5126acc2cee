package lookup

import (
	"context"
	"database/sql"
	"strconv"

	"fulfillment-system/internal/common/httpx"
	"fulfillment-system/internal/common/logger"
	"fulfillment-system/internal/ledger"
	"fulfillment-system/internal/microservices/lookup/handler"
	"fulfillment-system/internal/microservices/lookup/repository"
	"fulfillment-system/internal/microservices/lookup/service"
)

// Run serves the admin lookup API until ctx is canceled.
func Run(ctx context.Context, port int, db *sql.DB) error {
	lg := logger.New("lookup-service")

	led := ledger.NewPostgres(db)
	limits := repository.NewLimitsRepo(db)
	svc := service.New(led, limits)
	h := handler.NewLookupHandler(svc)

	lg.Info("service_started", map[string]any{"port": port})
	srv := httpx.New(":"+strconv.Itoa(port), handler.Router(h))
	return srv.Run(ctx)
}
