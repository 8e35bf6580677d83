package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"weighstation/internal/dto"
	"weighstation/internal/model"
	"weighstation/internal/repository"
	"weighstation/internal/timefmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillingService interface {
	GetBill(ctx context.Context, providerID uint, filter dto.BillFilter) (*dto.BillResponse, error)
}

type billingService struct {
	providers repository.ProviderRepository
	trucks    repository.TruckRepository
	rates     repository.RateRepository
	weight    WeightGateway
	rdb       *redis.Client
	cacheTTL  time.Duration
}

func NewBillingService(
	providers repository.ProviderRepository,
	trucks repository.TruckRepository,
	rates repository.RateRepository,
	weight WeightGateway,
	rdb *redis.Client,
	cacheTTL time.Duration,
) BillingService {
	return &billingService{
		providers: providers,
		trucks:    trucks,
		rates:     rates,
		weight:    weight,
		rdb:       rdb,
		cacheTTL:  cacheTTL,
	}
}

// GetBill aggregates a provider's closed weighing sessions in the window
// into per-produce totals and prices them. One windowed call fetches every
// "out" record; a weight service failure fails the whole bill rather than
// silently under-charging.
func (s *billingService) GetBill(ctx context.Context, providerID uint, filter dto.BillFilter) (*dto.BillResponse, error) {
	provider, err := s.providers.FindByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider %d", ErrNotFound, providerID)
		}
		return nil, err
	}

	now := time.Now()
	from := timefmt.Parse(filter.From, timefmt.StartOfMonth(now))
	to := timefmt.Parse(filter.To, now)

	trucks, err := s.trucks.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	truckSet := make(map[string]bool, len(trucks))
	for _, t := range trucks {
		truckSet[t.ID] = true
	}

	records, err := s.weight.GetWeighings(ctx, from, to, model.DirectionOut)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	type group struct {
		count  int
		amount int
	}
	groups := make(map[string]*group)
	for _, r := range records {
		if !truckSet[r.Truck] {
			continue
		}
		neto, known := r.NetoInt()
		if !known {
			// Sessions with an unknown neto cannot be billed.
			continue
		}
		g := groups[r.Produce]
		if g == nil {
			g = &group{}
			groups[r.Produce] = g
		}
		g.count++
		g.amount += neto
	}

	rateTable, err := s.loadRates(ctx)
	if err != nil {
		return nil, err
	}
	providerScope := strconv.FormatUint(uint64(providerID), 10)

	products := make([]dto.BillProduct, 0, len(groups))
	sessionCount := 0
	total := decimal.Zero
	for produce, g := range groups {
		rate := resolveRate(rateTable, produce, providerScope)
		pay := decimal.NewFromInt(int64(g.amount)).Mul(decimal.NewFromInt(int64(rate)))
		total = total.Add(pay)
		sessionCount += g.count
		products = append(products, dto.BillProduct{
			Product: produce,
			Count:   g.count,
			Amount:  g.amount,
			Rate:    rate,
			Pay:     pay,
		})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Product < products[j].Product })

	return &dto.BillResponse{
		ID:           provider.ID,
		Name:         provider.Name,
		From:         timefmt.Format(from),
		To:           timefmt.Format(to),
		TruckCount:   len(trucks),
		SessionCount: sessionCount,
		Products:     products,
		Total:        total,
	}, nil
}

// loadRates reads the rate table through the Redis cache. Cache failures
// are logged and fall back to the DB; they never fail a bill.
func (s *billingService) loadRates(ctx context.Context) ([]model.Rate, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ratesCacheKey).Bytes(); err == nil {
			var rates []model.Rate
			if jsonErr := json.Unmarshal(cached, &rates); jsonErr == nil {
				return rates, nil
			}
		}
	}

	rates, err := s.rates.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(rates); jsonErr == nil {
			if err := s.rdb.Set(ctx, ratesCacheKey, b, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("rates cache populate failed")
			}
		}
	}
	return rates, nil
}

// resolveRate prefers a provider-scoped rate for the product, then the
// catch-all "All" scope, then zero.
func resolveRate(rates []model.Rate, product, providerScope string) int {
	allRate := 0
	for _, r := range rates {
		if r.ProductID != product {
			continue
		}
		if r.Scope == providerScope {
			return r.Rate
		}
		if r.Scope == model.ScopeAll {
			allRate = r.Rate
		}
	}
	return allRate
}
