package service

import (
	"context"
	"time"

	"weighstation/internal/infra"
)

// WeightGateway is the billing side's view of the weight service.
// *infra.WeightClient satisfies it; tests substitute a stub.
type WeightGateway interface {
	GetWeighings(ctx context.Context, from, to time.Time, filter string) ([]infra.WeighingRecord, error)
	GetItem(ctx context.Context, id string, from, to time.Time) (*infra.ItemRecord, error)
}
