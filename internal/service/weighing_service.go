package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weighstation/internal/dto"
	"weighstation/internal/model"
	"weighstation/internal/repository"
	"weighstation/internal/timefmt"

	"gorm.io/gorm"
)

type WeighingService interface {
	Record(ctx context.Context, req dto.WeightRequest) (*dto.WeightResponse, error)
	List(ctx context.Context, filter dto.WeightFilter) ([]dto.TransactionResponse, error)
	GetSession(ctx context.Context, id uint) (*dto.SessionResponse, error)
	GetItem(ctx context.Context, id string, filter dto.ItemFilter) (*dto.ItemResponse, error)
}

type weighingService struct {
	repo       repository.TransactionRepository
	containers repository.ContainerRepository
}

func NewWeighingService(repo repository.TransactionRepository, containers repository.ContainerRepository) WeighingService {
	return &weighingService{repo: repo, containers: containers}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Record ────────────────────────────────────────────────────────────────────
// Session lifecycle per truck: NONE → IN_OPEN → OUT_RECORDED → NONE.
// An "in" opens a session; the matching "out" closes it by filling
// truck_tara/neto on the in row and inserting an out row with the same
// computed fields — both writes in one transaction, with the in row locked,
// so two concurrent outs cannot consume the same session.

func (s *weighingService) Record(ctx context.Context, req dto.WeightRequest) (*dto.WeightResponse, error) {
	switch req.Direction {
	case model.DirectionIn:
		return s.recordIn(ctx, req)
	case model.DirectionOut:
		return s.recordOut(ctx, req)
	case model.DirectionNone:
		return s.recordNone(ctx, req)
	default:
		return nil, fmt.Errorf("%w: direction must be in, out or none", ErrValidation)
	}
}

func (s *weighingService) recordIn(ctx context.Context, req dto.WeightRequest) (*dto.WeightResponse, error) {
	if req.Truck == "" {
		return nil, fmt.Errorf("%w: missing truck id", ErrValidation)
	}
	if req.Weight == nil {
		return nil, fmt.Errorf("%w: missing weight", ErrValidation)
	}

	if !req.Force {
		_, err := s.repo.FindOpenIn(ctx, nil, req.Truck, "")
		if err == nil {
			return nil, fmt.Errorf("%w: truck %s already weighed in", ErrConflict, req.Truck)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	truck := req.Truck
	t := model.Transaction{
		Datetime:   time.Now(),
		Direction:  model.DirectionIn,
		Truck:      &truck,
		Containers: strings.Join(req.Containers, ","),
		Bruto:      toKg(float64(*req.Weight), req.Unit),
		Produce:    produceOrNA(req.Produce),
	}
	if err := s.repo.Create(ctx, nil, &t); err != nil {
		return nil, err
	}
	return &dto.WeightResponse{ID: t.ID, Truck: truck, Bruto: t.Bruto}, nil
}

func (s *weighingService) recordOut(ctx context.Context, req dto.WeightRequest) (*dto.WeightResponse, error) {
	if req.Truck == "" {
		return nil, fmt.Errorf("%w: missing truck id", ErrValidation)
	}
	produce := produceOrNA(req.Produce)

	var resp *dto.WeightResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		in, err := s.repo.FindOpenIn(ctx, tx, req.Truck, produce)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no open in-session for truck %s", ErrNotFound, req.Truck)
			}
			return err
		}

		if !req.Force {
			outs, err := s.repo.CountOutsAfter(ctx, req.Truck, in.Datetime)
			if err != nil {
				return err
			}
			if outs > 0 {
				return fmt.Errorf("%w: truck %s already weighed out", ErrConflict, req.Truck)
			}
		}

		// Containers on the out request override the ones recorded at entry;
		// an empty list inherits them.
		containerIDs := req.Containers
		if len(containerIDs) == 0 {
			containerIDs = in.ContainerList()
		}
		containerTara, taraKnown, err := s.sumContainerTara(ctx, containerIDs)
		if err != nil {
			return err
		}

		// Truck tare: derived from the out-side gross when one was weighed,
		// otherwise the truck's last recorded tare.
		var truckTara *int
		outBruto := in.Bruto
		if req.Weight != nil {
			outBruto = toKg(float64(*req.Weight), req.Unit)
			if taraKnown {
				v := outBruto - containerTara
				truckTara = &v
			}
		} else {
			truckTara, err = s.repo.LastKnownTara(ctx, req.Truck)
			if err != nil {
				return err
			}
			if truckTara == nil {
				return fmt.Errorf("%w: unknown tare for truck %s, supply an out weight", ErrValidation, req.Truck)
			}
		}

		var neto *int
		if truckTara != nil && taraKnown {
			v := in.Bruto - *truckTara - containerTara
			neto = &v
		}

		if err := s.repo.SetSessionResult(ctx, tx, in.ID, truckTara, neto); err != nil {
			return err
		}

		truck := req.Truck
		out := model.Transaction{
			Datetime:   time.Now(),
			Direction:  model.DirectionOut,
			Truck:      &truck,
			Containers: strings.Join(containerIDs, ","),
			Bruto:      outBruto,
			TruckTara:  truckTara,
			Neto:       neto,
			Produce:    produce,
		}
		if err := s.repo.Create(ctx, tx, &out); err != nil {
			return err
		}

		resp = &dto.WeightResponse{
			ID:        out.ID,
			Truck:     truck,
			Bruto:     outBruto,
			TruckTara: truckTara,
			Neto:      neto,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

func (s *weighingService) recordNone(ctx context.Context, req dto.WeightRequest) (*dto.WeightResponse, error) {
	if req.Weight == nil {
		return nil, fmt.Errorf("%w: missing weight", ErrValidation)
	}
	if req.Truck != "" {
		_, err := s.repo.FindOpenIn(ctx, nil, req.Truck, "")
		if err == nil {
			return nil, fmt.Errorf("%w: truck %s has an open in-session, expected out", ErrValidation, req.Truck)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	t := model.Transaction{
		Datetime:   time.Now(),
		Direction:  model.DirectionNone,
		Containers: strings.Join(req.Containers, ","),
		Bruto:      toKg(float64(*req.Weight), req.Unit),
		Produce:    produceOrNA(req.Produce),
	}
	if err := s.repo.Create(ctx, nil, &t); err != nil {
		return nil, err
	}
	return &dto.WeightResponse{ID: t.ID, Bruto: t.Bruto}, nil
}

// sumContainerTara sums registered tare weights over the supplied ids.
// Unregistered ids are a hard error listing every missing id; a registered
// container without a recorded weight makes the total unknown.
func (s *weighingService) sumContainerTara(ctx context.Context, ids []string) (int, bool, error) {
	if len(ids) == 0 {
		return 0, true, nil
	}
	registered, err := s.containers.FindByContainerIDs(ctx, ids)
	if err != nil {
		return 0, false, err
	}
	byID := make(map[string]*model.RegisteredContainer, len(registered))
	for i := range registered {
		byID[registered[i].ContainerID] = &registered[i]
	}

	var missing []string
	sum := 0
	known := true
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if c.Weight == nil {
			known = false
			continue
		}
		sum += *c.Weight
	}
	if len(missing) > 0 {
		return 0, false, fmt.Errorf("%w: unregistered containers: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return sum, known, nil
}

// ── List ──────────────────────────────────────────────────────────────────────

var allDirections = []string{model.DirectionIn, model.DirectionOut, model.DirectionNone}

func (s *weighingService) List(ctx context.Context, filter dto.WeightFilter) ([]dto.TransactionResponse, error) {
	now := time.Now()
	from := timefmt.Parse(filter.From, timefmt.StartOfDay(now))
	to := timefmt.Parse(filter.To, now)

	directions := parseDirections(filter.Filter)
	txs, err := s.repo.List(ctx, from, to, directions)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(&t))
	}
	return out, nil
}

// parseDirections splits the filter param, dropping unknown tokens. An
// empty or fully invalid filter falls back to all three directions.
func parseDirections(filter string) []string {
	if filter == "" {
		return allDirections
	}
	var out []string
	for _, d := range strings.Split(filter, ",") {
		switch strings.TrimSpace(d) {
		case model.DirectionIn, model.DirectionOut, model.DirectionNone:
			out = append(out, strings.TrimSpace(d))
		}
	}
	if len(out) == 0 {
		return allDirections
	}
	return out
}

func toTransactionResponse(t *model.Transaction) dto.TransactionResponse {
	truck := "na"
	if t.Truck != nil {
		truck = *t.Truck
	}
	return dto.TransactionResponse{
		ID:         t.ID,
		Datetime:   timefmt.Format(t.Datetime),
		Direction:  t.Direction,
		Truck:      truck,
		Containers: t.ContainerList(),
		Bruto:      t.Bruto,
		Neto:       dto.NetoJSON(t.Neto),
		Produce:    t.Produce,
	}
}

// ── GetSession ────────────────────────────────────────────────────────────────

func (s *weighingService) GetSession(ctx context.Context, id uint) (*dto.SessionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %d", ErrNotFound, id)
		}
		return nil, err
	}
	if t.Direction != model.DirectionIn {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, id)
	}

	truck := "na"
	if t.Truck != nil {
		truck = *t.Truck
	}
	resp := &dto.SessionResponse{ID: t.ID, Truck: truck, Bruto: t.Bruto}

	if t.Truck != nil {
		out, err := s.repo.FindOutAfter(ctx, *t.Truck, t.Datetime)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil {
			resp.TruckTara = out.TruckTara
			resp.Neto = out.Neto
		}
	}
	return resp, nil
}

// ── GetItem ───────────────────────────────────────────────────────────────────

func (s *weighingService) GetItem(ctx context.Context, id string, filter dto.ItemFilter) (*dto.ItemResponse, error) {
	now := time.Now()
	from := timefmt.Parse(filter.From, timefmt.StartOfMonth(now))
	to := timefmt.Parse(filter.To, now)

	// Truck ids take precedence: a plate that also happens to be a container
	// id is reported as the truck.
	truckRows, err := s.repo.ListByTruck(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	if len(truckRows) > 0 {
		sessions := make([]uint, 0, len(truckRows))
		for _, t := range truckRows {
			if t.Direction == model.DirectionIn {
				sessions = append(sessions, t.ID)
			}
		}
		tara, err := s.repo.LastKnownTara(ctx, id)
		if err != nil {
			return nil, err
		}
		var taraJSON interface{} = "na"
		if tara != nil {
			taraJSON = *tara
		}
		return &dto.ItemResponse{ID: id, Tara: taraJSON, Sessions: sessions}, nil
	}

	// Container: registered weight plus the sessions it appeared in.
	// Matching is by whole container id only, never by substring.
	reg, regErr := s.containers.FindByContainerID(ctx, id)
	if regErr != nil && !errors.Is(regErr, gorm.ErrRecordNotFound) {
		return nil, regErr
	}

	rows, err := s.repo.List(ctx, from, to, allDirections)
	if err != nil {
		return nil, err
	}
	sessions := make([]uint, 0)
	seen := false
	for _, t := range rows {
		if !t.HasContainer(id) {
			continue
		}
		seen = true
		if t.Direction == model.DirectionIn {
			sessions = append(sessions, t.ID)
		}
	}

	if reg == nil && !seen {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}

	tara := make([]int, 0, 1)
	if reg != nil && reg.Weight != nil {
		tara = append(tara, *reg.Weight)
	}
	return &dto.ItemResponse{ID: id, Tara: tara, Sessions: sessions}, nil
}

func produceOrNA(p string) string {
	if p == "" {
		return "na"
	}
	return p
}
