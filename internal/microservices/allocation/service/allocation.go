package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"fulfillment-system/internal/common/logger"
	"fulfillment-system/internal/config"
	"fulfillment-system/internal/connections/rabbitmq"
	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/engine"
	"fulfillment-system/internal/ingest"
	"fulfillment-system/internal/ledger"
	"fulfillment-system/internal/microservices/allocation/repository"

	"github.com/google/uuid"
)

// Publisher is the slice of the AMQP client the service needs.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type AllocationServiceInterface interface {
	Process(ctx context.Context, req domain.AllocationRequest) (domain.AllocationResponse, error)
}

type AllocationService struct {
	repo   repository.AllocationRepoInterface
	ledger *ledger.Postgres
	pub    Publisher
	cfg    config.EngineConfig
	lg     *logger.Logger
}

func New(repo repository.AllocationRepoInterface, led *ledger.Postgres, pub Publisher, cfg config.EngineConfig, lg *logger.Logger) AllocationServiceInterface {
	return &AllocationService{repo: repo, ledger: led, pub: pub, cfg: cfg, lg: lg}
}

// Process runs one allocation: ingest, allocate, batch, persist, plan
// parcels. Ledger batches and the stock write-back commit in a single
// transaction; nothing is reported or published before that commit.
func (s *AllocationService) Process(ctx context.Context, req domain.AllocationRequest) (domain.AllocationResponse, error) {
	runID := uuid.NewString()
	lg := s.lg.WithRun(runID)

	// 1. Normalize columns and validate the uploaded rows.
	records, err := ingest.Records(req.Rows)
	if err != nil {
		return domain.AllocationResponse{}, err
	}

	// 2. Load reference data.
	suppliers, err := s.repo.LoadSupplierMap(ctx)
	if err != nil {
		return domain.AllocationResponse{}, domain.E(domain.KindPersistenceFailure, "load suppliers", err)
	}
	snapshot, err := s.repo.LoadStockSnapshot(ctx)
	if err != nil {
		return domain.AllocationResponse{}, domain.E(domain.KindPersistenceFailure, "load stock", err)
	}
	limits, err := s.repo.LoadParcelLimits(ctx)
	if err != nil {
		return domain.AllocationResponse{}, domain.E(domain.KindPersistenceFailure, "load parcel limits", err)
	}

	// 3. Allocate against a working copy of the snapshot.
	lines := make([]domain.OrderLine, len(records))
	for i, rec := range records {
		lines[i] = rec.OrderLine
	}
	resolver := engine.NewResolver(suppliers)
	working := snapshot.Clone()
	result := engine.Allocate(lines, working, resolver)

	// 4. Batch residuals; ledger rows and stock write-back share one tx.
	var batches []domain.POBatch
	err = s.repo.InTx(ctx, func(tx *sql.Tx) error {
		batcher := engine.NewBatcher(s.ledger.WithTx(tx, runID), s.cfg.MaxOrdersPerBatch, s.cfg.PrefixFor)
		var berr error
		batches, berr = batcher.Batch(ctx, result.ResidualBySupplier)
		if berr != nil {
			return berr
		}
		return s.repo.WriteStockTx(ctx, tx, working)
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindUnknown {
			err = domain.E(domain.KindPersistenceFailure, "persist run", err)
		}
		lg.Error("run_failed", err, nil)
		return domain.AllocationResponse{}, err
	}

	// 5. Publish batch events. The run is committed; a broker failure
	// only costs the notification, so it is logged and skipped.
	for _, b := range batches {
		lg.Debug("batch_persisted", map[string]any{
			"po_number": b.PONumber,
			"supplier":  b.Supplier,
			"orders":    len(b.OrderIDs()),
		})
		msg := domain.POBatchMessage{
			RunID:       runID,
			PONumber:    b.PONumber,
			Supplier:    b.Supplier,
			Lines:       toBatchLines(b.Lines),
			GeneratedAt: time.Now().UTC(),
		}
		body, _ := json.Marshal(msg)
		if err := s.pub.Publish(ctx, rabbitmq.ExchangeFulfillment, "po_batch.created", body); err != nil {
			lg.Error("publish_failed", err, map[string]any{"po_number": b.PONumber})
		}
	}

	// 6. Plan parcels for the carrier export.
	planner := engine.NewParcelPlanner(limits, s.cfg.ExcludeOrders)
	export := planner.Plan(records)

	// 7. Assemble the response.
	resp := domain.AllocationResponse{
		RunID:              runID,
		FulfilledFromStock: orderBlocks(result.Fulfilled),
		ToOrderBySupplier:  make(map[string][]domain.OrderBlock, len(result.ResidualBySupplier)),
		Batches:            make([]domain.POBatchDTO, 0, len(batches)),
		ParcelExport: domain.ParcelExportDTO{
			Rows:     export.Rows,
			Excluded: export.Excluded,
		},
		Unmatched: result.Unmatched,
	}
	for supplier, residual := range result.ResidualBySupplier {
		resp.ToOrderBySupplier[supplier] = orderBlocks(residual)
	}
	for _, b := range batches {
		resp.Batches = append(resp.Batches, domain.POBatchDTO{
			PONumber:   b.PONumber,
			Supplier:   b.Supplier,
			OrderCount: len(b.OrderIDs()),
			Lines:      toBatchLines(b.Lines),
		})
	}

	lg.Info("run_completed", map[string]any{
		"orders":    len(records),
		"fulfilled": len(result.Fulfilled),
		"batches":   len(batches),
		"unmatched": len(result.Unmatched),
		"excluded":  len(export.Excluded),
	})
	return resp, nil
}

// orderBlocks groups lines by order id, preserving first-seen order.
func orderBlocks(lines []domain.OrderLine) []domain.OrderBlock {
	index := make(map[string]int)
	var blocks []domain.OrderBlock
	for _, ln := range lines {
		i, ok := index[ln.OrderID]
		if !ok {
			i = len(blocks)
			index[ln.OrderID] = i
			blocks = append(blocks, domain.OrderBlock{OrderID: ln.OrderID})
		}
		blocks[i].Lines = append(blocks[i].Lines, domain.OrderLineDTO{SKU: ln.SKU, Quantity: ln.Quantity})
	}
	return blocks
}

func toBatchLines(lines []domain.OrderLine) []domain.BatchLineDTO {
	out := make([]domain.BatchLineDTO, len(lines))
	for i, ln := range lines {
		out[i] = domain.BatchLineDTO{OrderID: ln.OrderID, SKU: ln.SKU, Quantity: ln.Quantity}
	}
	return out
}
