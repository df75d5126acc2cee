package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"fulfillment-system/internal/common/logger"
	"fulfillment-system/internal/connections/rabbitmq"
	"fulfillment-system/internal/domain"
)

// ExporterService consumes committed PO batches and renders the supplier
// order documents. Only batches already durable in the ledger arrive
// here, so a crash mid-render never loses allocation state.
type ExporterService struct {
	rmq      *rabbitmq.Client
	lg       *logger.Logger
	Prefetch int
}

func New(rmq *rabbitmq.Client, prefetch int) *ExporterService {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &ExporterService{
		rmq:      rmq,
		lg:       logger.New("export-subscriber"),
		Prefetch: prefetch,
	}
}

func (s *ExporterService) Run(ctx context.Context) error {
	msgs, err := s.rmq.Consume(rabbitmq.QueuePOBatches, "export-subscriber", s.Prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.QueuePOBatches, err)
	}
	s.lg.Info("service_started", map[string]any{"queue": rabbitmq.QueuePOBatches})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := s.processOne(d); err != nil {
				// poison message, off to the DLQ
				s.lg.Error("batch_rejected", err, map[string]any{"body_len": len(d.Body)})
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (s *ExporterService) processOne(d amqp.Delivery) error {
	var msg domain.POBatchMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fmt.Errorf("decode batch message: %w", err)
	}
	if msg.PONumber == "" {
		return fmt.Errorf("batch message without po_number")
	}

	doc := RenderOrderBlocks(msg.Lines)
	s.lg.Info("batch_exported", map[string]any{
		"po_number": msg.PONumber,
		"supplier":  msg.Supplier,
		"run_id":    msg.RunID,
		"orders":    countOrders(msg.Lines),
		"document":  doc,
	})
	return nil
}

// RenderOrderBlocks formats batch lines the way the supplier order sheet
// is sent out: one block per order, quantity-prefixed lines.
func RenderOrderBlocks(lines []domain.BatchLineDTO) string {
	var b strings.Builder
	var current string
	for _, ln := range lines {
		if ln.OrderID != current {
			if current != "" {
				b.WriteString("\n------------------------------\n\n")
			}
			current = ln.OrderID
			fmt.Fprintf(&b, "Order Number: %s\n", ln.OrderID)
		}
		fmt.Fprintf(&b, "  %dx %s\n", ln.Quantity, ln.SKU)
	}
	if current != "" {
		b.WriteString("\n------------------------------\n")
	}
	return b.String()
}

func countOrders(lines []domain.BatchLineDTO) int {
	seen := make(map[string]bool, len(lines))
	for _, ln := range lines {
		seen[ln.OrderID] = true
	}
	return len(seen)
}
