package service

import (
	"context"
	"errors"
	"testing"

	"weighstation/internal/dto"
	"weighstation/internal/infra"
	"weighstation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTruckSvc(gateway WeightGateway) (TruckService, *stubTruckRepo, *stubProviderRepo) {
	trucks := newStubTruckRepo()
	providers := newStubProviderRepo()
	if gateway == nil {
		gateway = &stubWeightGateway{}
	}
	return NewTruckService(trucks, providers, gateway), trucks, providers
}

func TestTruckCreate(t *testing.T) {
	svc, trucks, providers := buildTruckSvc(nil)
	p := &model.Provider{Name: "Farm"}
	require.NoError(t, providers.Create(context.Background(), p))

	resp, err := svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: p.ID})
	require.NoError(t, err)
	assert.Equal(t, "T-123", resp.ID)

	stored, err := trucks.FindByID(context.Background(), "T-123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.ProviderID)
}

func TestTruckCreate_UnknownProvider(t *testing.T) {
	svc, _, _ := buildTruckSvc(nil)
	_, err := svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: 7})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTruckCreate_Duplicate(t *testing.T) {
	svc, _, providers := buildTruckSvc(nil)
	p := &model.Provider{Name: "Farm"}
	require.NoError(t, providers.Create(context.Background(), p))

	_, err := svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: p.ID})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: p.ID})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTruckUpdate(t *testing.T) {
	svc, trucks, providers := buildTruckSvc(nil)
	p1 := &model.Provider{Name: "Farm A"}
	p2 := &model.Provider{Name: "Farm B"}
	require.NoError(t, providers.Create(context.Background(), p1))
	require.NoError(t, providers.Create(context.Background(), p2))
	_, err := svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: p1.ID})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "T-123", dto.TruckUpdateRequest{Provider: p2.ID})
	require.NoError(t, err)

	stored, _ := trucks.FindByID(context.Background(), "T-123")
	assert.Equal(t, p2.ID, stored.ProviderID)

	_, err = svc.Update(context.Background(), "T-999", dto.TruckUpdateRequest{Provider: p2.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), "T-123", dto.TruckUpdateRequest{Provider: 99})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTruckGetData(t *testing.T) {
	gateway := &stubWeightGateway{item: &infra.ItemRecord{
		ID:       "T-123",
		Tara:     float64(5000),
		Sessions: []uint{1, 4},
	}}
	svc, _, providers := buildTruckSvc(gateway)
	p := &model.Provider{Name: "Farm"}
	require.NoError(t, providers.Create(context.Background(), p))
	_, err := svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: p.ID})
	require.NoError(t, err)

	item, err := svc.GetData(context.Background(), "T-123", "", "")
	require.NoError(t, err)
	assert.Equal(t, "T-123", item.ID)
	assert.Equal(t, float64(5000), item.Tara)
	assert.Equal(t, []uint{1, 4}, item.Sessions)
}

func TestTruckGetData_UnknownTruck(t *testing.T) {
	svc, _, _ := buildTruckSvc(nil)
	_, err := svc.GetData(context.Background(), "T-123", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTruckGetData_NeverWeighed(t *testing.T) {
	// Registered locally but unknown to the weight service: empty history,
	// not an error.
	gateway := &stubWeightGateway{itemErr: infra.ErrItemNotFound}
	svc, _, providers := buildTruckSvc(gateway)
	p := &model.Provider{Name: "Farm"}
	require.NoError(t, providers.Create(context.Background(), p))
	_, err := svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: p.ID})
	require.NoError(t, err)

	item, err := svc.GetData(context.Background(), "T-123", "", "")
	require.NoError(t, err)
	assert.Equal(t, "na", item.Tara)
	assert.Empty(t, item.Sessions)
}

func TestTruckGetData_WeightServiceDown(t *testing.T) {
	gateway := &stubWeightGateway{itemErr: errors.New("connection refused")}
	svc, _, providers := buildTruckSvc(gateway)
	p := &model.Provider{Name: "Farm"}
	require.NoError(t, providers.Create(context.Background(), p))
	_, err := svc.Create(context.Background(), dto.TruckRequest{ID: "T-123", Provider: p.ID})
	require.NoError(t, err)

	_, err = svc.GetData(context.Background(), "T-123", "", "")
	assert.ErrorIs(t, err, ErrUpstream)
}
