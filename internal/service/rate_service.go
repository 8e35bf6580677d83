package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"weighstation/internal/dto"
	"weighstation/internal/model"
	"weighstation/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ratesCacheKey holds the JSON-serialized rate table in Redis; billing
// reads through it and every upload invalidates it.
const ratesCacheKey = "rates:all"

type RateService interface {
	// Import replaces the whole rate table from an uploaded spreadsheet.
	Import(ctx context.Context, data []byte) (*dto.RatesUploadResponse, error)
	// Export renders the current rate table as an xlsx file.
	Export(ctx context.Context) ([]byte, error)
}

type rateService struct {
	repo repository.RateRepository
	rdb  *redis.Client
}

func NewRateService(repo repository.RateRepository, rdb *redis.Client) RateService {
	return &rateService{repo: repo, rdb: rdb}
}

func (s *rateService) Import(ctx context.Context, data []byte) (*dto.RatesUploadResponse, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid spreadsheet: %v", ErrValidation, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no sheets", ErrValidation)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet: %v", ErrValidation, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: spreadsheet is empty", ErrValidation)
	}

	// First row is the Product / Rate / Scope header.
	rates := make([]model.Rate, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: missing rate at row %d", ErrValidation, i+2)
		}
		rateVal, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid rate %q at row %d", ErrValidation, row[1], i+2)
		}

		scope := ""
		if len(row) > 2 {
			scope = row[2]
		}
		rates = append(rates, model.Rate{
			ProductID: strings.TrimSpace(row[0]),
			Rate:      int(rateVal),
			Scope:     NormalizeScope(scope),
		})
	}

	if err := s.repo.ReplaceAll(ctx, rates); err != nil {
		return nil, err
	}

	// Drop the cached table — best effort, billing falls back to the DB.
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, ratesCacheKey).Err(); err != nil {
			log.Warn().Err(err).Msg("rates cache invalidation failed")
		}
	}

	return &dto.RatesUploadResponse{
		Message: "Rates uploaded successfully",
		Count:   len(rates),
	}, nil
}

// NormalizeScope maps blank or any casing of "all" to the catch-all scope.
func NormalizeScope(scope string) string {
	s := strings.TrimSpace(scope)
	if s == "" || strings.EqualFold(s, model.ScopeAll) {
		return model.ScopeAll
	}
	return s
}

func (s *rateService) Export(ctx context.Context) ([]byte, error) {
	rates, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Product", "Rate", "Scope"}); err != nil {
		return nil, err
	}
	for i, r := range rates {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{r.ProductID, r.Rate, r.Scope}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
