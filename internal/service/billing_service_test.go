package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"weighstation/internal/dto"
	"weighstation/internal/infra"
	"weighstation/internal/model"
	"weighstation/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubProviderRepo struct {
	byID map[uint]*model.Provider
	seq  uint
}

func newStubProviderRepo() *stubProviderRepo {
	return &stubProviderRepo{byID: make(map[uint]*model.Provider)}
}

func (r *stubProviderRepo) Create(_ context.Context, p *model.Provider) error {
	r.seq++
	p.ID = r.seq
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *stubProviderRepo) FindByID(_ context.Context, id uint) (*model.Provider, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProviderRepo) FindByName(_ context.Context, name string) (*model.Provider, error) {
	for _, p := range r.byID {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProviderRepo) Update(_ context.Context, p *model.Provider) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

var _ repository.ProviderRepository = (*stubProviderRepo)(nil)

type stubTruckRepo struct {
	byID map[string]*model.Truck
}

func newStubTruckRepo() *stubTruckRepo {
	return &stubTruckRepo{byID: make(map[string]*model.Truck)}
}

func (r *stubTruckRepo) Create(_ context.Context, t *model.Truck) error {
	cp := *t
	r.byID[t.ID] = &cp
	return nil
}

func (r *stubTruckRepo) FindByID(_ context.Context, id string) (*model.Truck, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTruckRepo) Update(_ context.Context, t *model.Truck) error {
	cp := *t
	r.byID[t.ID] = &cp
	return nil
}

func (r *stubTruckRepo) ListByProvider(_ context.Context, providerID uint) ([]model.Truck, error) {
	var out []model.Truck
	for _, t := range r.byID {
		if t.ProviderID == providerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

var _ repository.TruckRepository = (*stubTruckRepo)(nil)

type stubRateRepo struct {
	rates []model.Rate
}

func (r *stubRateRepo) ReplaceAll(_ context.Context, rates []model.Rate) error {
	r.rates = append([]model.Rate(nil), rates...)
	return nil
}

func (r *stubRateRepo) ListAll(_ context.Context) ([]model.Rate, error) {
	return append([]model.Rate(nil), r.rates...), nil
}

var _ repository.RateRepository = (*stubRateRepo)(nil)

// stubWeightGateway replays canned weight service responses.
type stubWeightGateway struct {
	records []infra.WeighingRecord
	err     error
	item    *infra.ItemRecord
	itemErr error
}

func (g *stubWeightGateway) GetWeighings(_ context.Context, _, _ time.Time, _ string) ([]infra.WeighingRecord, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.records, nil
}

func (g *stubWeightGateway) GetItem(_ context.Context, _ string, _, _ time.Time) (*infra.ItemRecord, error) {
	if g.itemErr != nil {
		return nil, g.itemErr
	}
	return g.item, nil
}

var _ WeightGateway = (*stubWeightGateway)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedProviderWithTrucks(t *testing.T, providers *stubProviderRepo, trucks *stubTruckRepo, name string, plates ...string) *model.Provider {
	t.Helper()
	p := &model.Provider{Name: name}
	require.NoError(t, providers.Create(context.Background(), p))
	for _, plate := range plates {
		require.NoError(t, trucks.Create(context.Background(), &model.Truck{ID: plate, ProviderID: p.ID}))
	}
	return p
}

func outRecord(truck, produce string, neto interface{}) infra.WeighingRecord {
	return infra.WeighingRecord{
		Direction: model.DirectionOut,
		Truck:     truck,
		Produce:   produce,
		Neto:      neto,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestGetBill(t *testing.T) {
	providers := newStubProviderRepo()
	trucks := newStubTruckRepo()
	rates := &stubRateRepo{rates: []model.Rate{
		{ProductID: "orange", Rate: 172, Scope: model.ScopeAll},
		{ProductID: "orange", Rate: 200, Scope: "1"},
		{ProductID: "apple", Rate: 300, Scope: model.ScopeAll},
	}}
	p := seedProviderWithTrucks(t, providers, trucks, "Gan Shmuel Farms", "T-1", "T-2")

	gateway := &stubWeightGateway{records: []infra.WeighingRecord{
		outRecord("T-1", "orange", 1000),
		outRecord("T-2", "orange", 500),
		outRecord("T-1", "apple", 200),
		outRecord("T-OTHER", "orange", 9999), // another provider's truck
		outRecord("T-2", "apple", "na"),      // unclosed session, not billable
	}}

	svc := NewBillingService(providers, trucks, rates, gateway, nil, time.Hour)
	bill, err := svc.GetBill(context.Background(), p.ID, dto.BillFilter{})
	require.NoError(t, err)

	assert.Equal(t, p.ID, bill.ID)
	assert.Equal(t, "Gan Shmuel Farms", bill.Name)
	assert.Equal(t, 2, bill.TruckCount)
	assert.Equal(t, 3, bill.SessionCount)
	require.Len(t, bill.Products, 2)

	// products sorted by name
	apple := bill.Products[0]
	assert.Equal(t, "apple", apple.Product)
	assert.Equal(t, 1, apple.Count)
	assert.Equal(t, 200, apple.Amount)
	assert.Equal(t, 300, apple.Rate)
	assert.Equal(t, "60000", apple.Pay.String())

	// provider-scoped rate beats the catch-all
	orange := bill.Products[1]
	assert.Equal(t, 1500, orange.Amount)
	assert.Equal(t, 200, orange.Rate)
	assert.Equal(t, "300000", orange.Pay.String())

	assert.Equal(t, "360000", bill.Total.String())
}

func TestGetBill_NoRateForProduce(t *testing.T) {
	providers := newStubProviderRepo()
	trucks := newStubTruckRepo()
	p := seedProviderWithTrucks(t, providers, trucks, "Farm", "T-1")

	gateway := &stubWeightGateway{records: []infra.WeighingRecord{
		outRecord("T-1", "kumquat", 100),
	}}

	svc := NewBillingService(providers, trucks, &stubRateRepo{}, gateway, nil, time.Hour)
	bill, err := svc.GetBill(context.Background(), p.ID, dto.BillFilter{})
	require.NoError(t, err)
	require.Len(t, bill.Products, 1)
	assert.Equal(t, 0, bill.Products[0].Rate)
	assert.Equal(t, "0", bill.Total.String())
}

func TestGetBill_ProviderNotFound(t *testing.T) {
	svc := NewBillingService(newStubProviderRepo(), newStubTruckRepo(), &stubRateRepo{}, &stubWeightGateway{}, nil, time.Hour)
	_, err := svc.GetBill(context.Background(), 42, dto.BillFilter{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBill_WeightServiceDown(t *testing.T) {
	providers := newStubProviderRepo()
	trucks := newStubTruckRepo()
	p := seedProviderWithTrucks(t, providers, trucks, "Farm")

	gateway := &stubWeightGateway{err: errors.New("connection refused")}
	svc := NewBillingService(providers, trucks, &stubRateRepo{}, gateway, nil, time.Hour)

	_, err := svc.GetBill(context.Background(), p.ID, dto.BillFilter{})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestResolveRate(t *testing.T) {
	rates := []model.Rate{
		{ProductID: "orange", Rate: 172, Scope: model.ScopeAll},
		{ProductID: "orange", Rate: 200, Scope: "7"},
	}
	assert.Equal(t, 200, resolveRate(rates, "orange", "7"))
	assert.Equal(t, 172, resolveRate(rates, "orange", "3"))
	assert.Equal(t, 0, resolveRate(rates, "mango", "7"))
}
