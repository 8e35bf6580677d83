package service

import (
	"context"
	"testing"

	"weighstation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildContainerSvc() (ContainerService, *stubTxRepo, *stubContainerRepo) {
	txRepo := &stubTxRepo{}
	containerRepo := newStubContainerRepo()
	return NewContainerService(containerRepo, txRepo), txRepo, containerRepo
}

func TestImportBatch_CSVKilograms(t *testing.T) {
	svc, _, containerRepo := buildContainerSvc()

	data := []byte("id,kg\nC1,100\nC2,\n")
	resp, err := svc.ImportBatch(context.Background(), "batch1.csv", data)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)

	c1, err := containerRepo.FindByContainerID(context.Background(), "C1")
	require.NoError(t, err)
	require.NotNil(t, c1.Weight)
	assert.Equal(t, 100, *c1.Weight)

	// missing weight registers the container with an unknown tare
	c2, err := containerRepo.FindByContainerID(context.Background(), "C2")
	require.NoError(t, err)
	assert.Nil(t, c2.Weight)
}

func TestImportBatch_CSVPounds(t *testing.T) {
	svc, _, containerRepo := buildContainerSvc()

	data := []byte("id,lbs\nC3,1000\n")
	_, err := svc.ImportBatch(context.Background(), "batch2.csv", data)
	require.NoError(t, err)

	c3, err := containerRepo.FindByContainerID(context.Background(), "C3")
	require.NoError(t, err)
	require.NotNil(t, c3.Weight)
	assert.Equal(t, 453, *c3.Weight) // 1000 × 0.453592, truncated
	assert.Equal(t, "kg", c3.Unit)   // stored normalized
}

func TestImportBatch_CSVBadUnit(t *testing.T) {
	svc, _, _ := buildContainerSvc()

	_, err := svc.ImportBatch(context.Background(), "batch.csv", []byte("id,stone\nC1,10\n"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestImportBatch_JSON(t *testing.T) {
	svc, _, containerRepo := buildContainerSvc()

	data := []byte(`[
		{"id": "K1", "weight": 220.5, "unit": "lbs"},
		{"id": "K2", "weight": 50, "unit": "kg"},
		{"id": "K3"}
	]`)
	resp, err := svc.ImportBatch(context.Background(), "containers.json", data)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)

	k1, _ := containerRepo.FindByContainerID(context.Background(), "K1")
	require.NotNil(t, k1.Weight)
	assert.Equal(t, 100, *k1.Weight) // 220.5 lbs → 100 kg

	k2, _ := containerRepo.FindByContainerID(context.Background(), "K2")
	require.NotNil(t, k2.Weight)
	assert.Equal(t, 50, *k2.Weight)

	k3, _ := containerRepo.FindByContainerID(context.Background(), "K3")
	assert.Nil(t, k3.Weight)
}

func TestImportBatch_UpsertOverwrites(t *testing.T) {
	svc, _, containerRepo := buildContainerSvc()

	_, err := svc.ImportBatch(context.Background(), "a.csv", []byte("id,kg\nC1,100\n"))
	require.NoError(t, err)
	_, err = svc.ImportBatch(context.Background(), "b.csv", []byte("id,kg\nC1,120\n"))
	require.NoError(t, err)

	c1, _ := containerRepo.FindByContainerID(context.Background(), "C1")
	require.NotNil(t, c1.Weight)
	assert.Equal(t, 120, *c1.Weight) // last write wins
}

func TestImportBatch_Rejections(t *testing.T) {
	svc, _, _ := buildContainerSvc()

	_, err := svc.ImportBatch(context.Background(), "batch.txt", []byte("whatever"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ImportBatch(context.Background(), "batch.csv", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ImportBatch(context.Background(), "batch.json", []byte("{not json"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUnknownContainers(t *testing.T) {
	svc, txRepo, containerRepo := buildContainerSvc()
	seedContainer(t, containerRepo, "C1", intPtr(100))

	truck := "T-1"
	require.NoError(t, txRepo.Create(context.Background(), nil, &model.Transaction{
		Direction: model.DirectionIn, Truck: &truck, Containers: "C1,X9", Bruto: 1000,
	}))
	require.NoError(t, txRepo.Create(context.Background(), nil, &model.Transaction{
		Direction: model.DirectionNone, Containers: "X9,Z3", Bruto: 200,
	}))

	unknown, err := svc.UnknownContainers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"X9", "Z3"}, unknown)
}

func TestUnknownContainers_Empty(t *testing.T) {
	svc, _, _ := buildContainerSvc()

	unknown, err := svc.UnknownContainers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unknown)
}
