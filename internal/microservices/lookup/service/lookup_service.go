package service

import (
	"context"
	"errors"
	"strings"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/ledger"
	"fulfillment-system/internal/microservices/lookup/repository"
)

type LookupServiceInterface interface {
	GetBatch(ctx context.Context, poNumber string) ([]domain.OrderLine, error)
	FindOrders(ctx context.Context, poNumber, sku string) ([]string, error)
	SetLimit(ctx context.Context, sku string, maxPerParcel int) error
	DeleteLimit(ctx context.Context, sku string) (bool, error)
	ListLimits(ctx context.Context) (domain.MaxPerParcelConfig, error)
}

// LookupService answers the admin tool: what went into a PO, which order
// holds a SKU, and the parcel-limit table maintenance.
type LookupService struct {
	ledger ledger.Ledger
	limits repository.LimitsRepoInterface
}

func New(led ledger.Ledger, limits repository.LimitsRepoInterface) LookupServiceInterface {
	return &LookupService{ledger: led, limits: limits}
}

func (s *LookupService) GetBatch(ctx context.Context, poNumber string) ([]domain.OrderLine, error) {
	return s.ledger.Get(ctx, strings.TrimSpace(poNumber))
}

func (s *LookupService) FindOrders(ctx context.Context, poNumber, sku string) ([]string, error) {
	return s.ledger.Find(ctx, strings.TrimSpace(poNumber), sku)
}

func (s *LookupService) SetLimit(ctx context.Context, sku string, maxPerParcel int) error {
	if strings.TrimSpace(sku) == "" {
		return domain.E(domain.KindInputValidation, "set limit", errors.New("sku is required"))
	}
	if maxPerParcel <= 0 {
		return domain.E(domain.KindInputValidation, "set limit", errors.New("max_per_parcel must be positive"))
	}
	return s.limits.Upsert(ctx, sku, maxPerParcel)
}

func (s *LookupService) DeleteLimit(ctx context.Context, sku string) (bool, error) {
	return s.limits.Delete(ctx, sku)
}

func (s *LookupService) ListLimits(ctx context.Context) (domain.MaxPerParcelConfig, error) {
	return s.limits.List(ctx)
}
