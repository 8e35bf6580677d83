package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"weighstation/internal/timefmt"
)

// ErrItemNotFound is returned when the weight service does not know the
// requested truck or container.
var ErrItemNotFound = errors.New("weightclient: item not found")

// WeighingRecord is one transaction as serialized by the weight service.
type WeighingRecord struct {
	ID         uint        `json:"id"`
	Datetime   string      `json:"datetime"`
	Direction  string      `json:"direction"`
	Truck      string      `json:"truck"`
	Containers []string    `json:"containers"`
	Bruto      int         `json:"bruto"`
	Neto       interface{} `json:"neto"` // number, or the literal "na"
	Produce    string      `json:"produce"`
}

// NetoInt returns the net weight and whether it is known.
func (r *WeighingRecord) NetoInt() (int, bool) {
	switch v := r.Neto.(type) {
	case float64: // encoding/json decodes numbers into float64
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// ItemRecord is the weight service's truck/container lookup response.
type ItemRecord struct {
	ID       string      `json:"id"`
	Tara     interface{} `json:"tara"`
	Sessions []uint      `json:"sessions"`
}

// WeightClient talks to the weight service from billingd. Every call runs
// under a bounded timeout and any non-2xx (other than the mapped 404)
// surfaces as an error: billing fails fast rather than producing a silently
// short invoice.
type WeightClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWeightClient(baseURL string) *WeightClient {
	return &WeightClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetWeighings fetches transactions in [from, to) matching the direction
// filter (comma list, e.g. "out").
func (c *WeightClient) GetWeighings(ctx context.Context, from, to time.Time, filter string) ([]WeighingRecord, error) {
	q := url.Values{}
	q.Set("from", timefmt.Format(from))
	q.Set("to", timefmt.Format(to))
	q.Set("filter", filter)

	var records []WeighingRecord
	if err := c.get(ctx, "/weight?"+q.Encode(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetItem fetches the session history for a truck or container id.
func (c *WeightClient) GetItem(ctx context.Context, id string, from, to time.Time) (*ItemRecord, error) {
	q := url.Values{}
	q.Set("from", timefmt.Format(from))
	q.Set("to", timefmt.Format(to))

	var item ItemRecord
	if err := c.get(ctx, "/item/"+url.PathEscape(id)+"?"+q.Encode(), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *WeightClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("weightclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weightclient: weight service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrItemNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weightclient: weight service returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("weightclient: decode response: %w", err)
	}
	return nil
}
