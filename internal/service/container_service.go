package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"weighstation/internal/dto"
	"weighstation/internal/model"
	"weighstation/internal/repository"
)

type ContainerService interface {
	// ImportBatch upserts container tare registrations from an uploaded CSV
	// or JSON file. The file type is decided by extension.
	ImportBatch(ctx context.Context, filename string, data []byte) (*dto.BatchResponse, error)
	// UnknownContainers reports container ids that appear in transaction
	// history but were never registered.
	UnknownContainers(ctx context.Context) ([]string, error)
}

type containerService struct {
	repo   repository.ContainerRepository
	txRepo repository.TransactionRepository
}

func NewContainerService(repo repository.ContainerRepository, txRepo repository.TransactionRepository) ContainerService {
	return &containerService{repo: repo, txRepo: txRepo}
}

func (s *containerService) ImportBatch(ctx context.Context, filename string, data []byte) (*dto.BatchResponse, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrValidation)
	}

	var (
		records []model.RegisteredContainer
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = parseContainerCSV(data)
	case ".json":
		records, err = parseContainerJSON(data)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q, expected .csv or .json", ErrValidation, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}

	for i := range records {
		if err := s.repo.Upsert(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return &dto.BatchResponse{
		Message: fmt.Sprintf("%d containers inserted", len(records)),
		Count:   len(records),
	}, nil
}

// parseContainerCSV reads the batch format: a header row "id,<unit>" where
// the unit column name declares kg or lbs for the whole file, then one
// container per row. Weights convert to whole kg at import time.
func parseContainerCSV(data []byte) ([]model.RegisteredContainer, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid CSV: %v", ErrValidation, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: CSV header must be id,<unit>", ErrValidation)
	}
	unit := strings.ToLower(strings.TrimSpace(header[1]))
	if unit != "kg" && unit != "lbs" {
		return nil, fmt.Errorf("%w: unsupported unit %q, expected kg or lbs", ErrValidation, unit)
	}

	var records []model.RegisteredContainer
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid CSV at line %d: %v", ErrValidation, line, err)
		}
		if len(row) < 1 || strings.TrimSpace(row[0]) == "" {
			return nil, fmt.Errorf("%w: missing container id at line %d", ErrValidation, line)
		}

		rec := model.RegisteredContainer{
			ContainerID: strings.TrimSpace(row[0]),
			Unit:        "kg",
		}
		// A row without a weight registers the container with an unknown
		// tare; any session depending on it gets neto "na".
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid weight %q at line %d", ErrValidation, row[1], line)
			}
			kg := toKg(v, unit)
			rec.Weight = &kg
		}
		records = append(records, rec)
	}
	return records, nil
}

type containerJSONRecord struct {
	ID     string   `json:"id"`
	Weight *float64 `json:"weight"`
	Unit   string   `json:"unit"`
}

func parseContainerJSON(data []byte) ([]model.RegisteredContainer, error) {
	var rows []containerJSONRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrValidation, err)
	}

	var records []model.RegisteredContainer
	for i, row := range rows {
		if row.ID == "" {
			return nil, fmt.Errorf("%w: missing container id at record %d", ErrValidation, i)
		}
		unit := strings.ToLower(strings.TrimSpace(row.Unit))
		if unit == "" {
			unit = "kg"
		}
		if unit != "kg" && unit != "lbs" {
			return nil, fmt.Errorf("%w: unsupported unit %q at record %d", ErrValidation, row.Unit, i)
		}
		rec := model.RegisteredContainer{ContainerID: row.ID, Unit: "kg"}
		if row.Weight != nil {
			kg := toKg(*row.Weight, unit)
			rec.Weight = &kg
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *containerService) UnknownContainers(ctx context.Context) ([]string, error) {
	cols, err := s.txRepo.ContainerColumns(ctx)
	if err != nil {
		return nil, err
	}
	registered, err := s.repo.ListContainerIDs(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(registered))
	for _, id := range registered {
		known[id] = true
	}

	unknownSet := make(map[string]bool)
	for _, col := range cols {
		for _, id := range strings.Split(col, ",") {
			if id != "" && !known[id] {
				unknownSet[id] = true
			}
		}
	}

	unknown := make([]string, 0, len(unknownSet))
	for id := range unknownSet {
		unknown = append(unknown, id)
	}
	sort.Strings(unknown)
	return unknown, nil
}
