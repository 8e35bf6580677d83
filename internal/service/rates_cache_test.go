package service

import (
	"context"
	"testing"
	"time"

	"weighstation/internal/dto"
	"weighstation/internal/infra"
	"weighstation/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRatesImport_InvalidatesCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set(ratesCacheKey, `[{"ProductID":"orange","Rate":999,"Scope":"All"}]`))

	svc := NewRateService(&stubRateRepo{}, rdb)
	_, err := svc.Import(context.Background(), buildRatesXlsx(t, [][]interface{}{{"orange", 172, ""}}))
	require.NoError(t, err)

	assert.False(t, mr.Exists(ratesCacheKey))
}

func TestGetBill_PopulatesRatesCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	providers := newStubProviderRepo()
	trucks := newStubTruckRepo()
	rates := &stubRateRepo{rates: []model.Rate{
		{ProductID: "orange", Rate: 172, Scope: model.ScopeAll},
	}}
	p := seedProviderWithTrucks(t, providers, trucks, "Farm", "T-1")
	gateway := &stubWeightGateway{records: []infra.WeighingRecord{
		outRecord("T-1", "orange", 1000),
	}}

	svc := NewBillingService(providers, trucks, rates, gateway, rdb, time.Hour)

	bill, err := svc.GetBill(context.Background(), p.ID, dto.BillFilter{})
	require.NoError(t, err)
	require.Len(t, bill.Products, 1)
	assert.Equal(t, 172, bill.Products[0].Rate)

	// the first bill populated the cache with the configured expiry
	require.True(t, mr.Exists(ratesCacheKey))
	assert.Equal(t, time.Hour, mr.TTL(ratesCacheKey))
	cached, err := mr.Get(ratesCacheKey)
	require.NoError(t, err)
	assert.Contains(t, cached, "orange")

	// a second bill is served from the cache, not the table
	rates.rates = []model.Rate{{ProductID: "orange", Rate: 999, Scope: model.ScopeAll}}
	bill, err = svc.GetBill(context.Background(), p.ID, dto.BillFilter{})
	require.NoError(t, err)
	assert.Equal(t, 172, bill.Products[0].Rate)
}

func TestRatesUpload_NextBillRereadsTable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	providers := newStubProviderRepo()
	trucks := newStubTruckRepo()
	rates := &stubRateRepo{rates: []model.Rate{
		{ProductID: "orange", Rate: 172, Scope: model.ScopeAll},
	}}
	p := seedProviderWithTrucks(t, providers, trucks, "Farm", "T-1")
	gateway := &stubWeightGateway{records: []infra.WeighingRecord{
		outRecord("T-1", "orange", 1000),
	}}

	billingSvc := NewBillingService(providers, trucks, rates, gateway, rdb, time.Hour)
	rateSvc := NewRateService(rates, rdb)

	bill, err := billingSvc.GetBill(context.Background(), p.ID, dto.BillFilter{})
	require.NoError(t, err)
	assert.Equal(t, 172, bill.Products[0].Rate)
	require.True(t, mr.Exists(ratesCacheKey))

	// uploading a new sheet replaces the table and drops the cache
	_, err = rateSvc.Import(context.Background(), buildRatesXlsx(t, [][]interface{}{{"orange", 200, ""}}))
	require.NoError(t, err)
	assert.False(t, mr.Exists(ratesCacheKey))

	// the next bill re-reads the table and sees the new rate
	bill, err = billingSvc.GetBill(context.Background(), p.ID, dto.BillFilter{})
	require.NoError(t, err)
	assert.Equal(t, 200, bill.Products[0].Rate)
	assert.Equal(t, "200000", bill.Total.String())
}
