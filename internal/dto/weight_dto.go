package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// WeightRequest is the body of POST /weight for all three directions.
// Direction-dependent requirements (truck for in/out, weight for in) are
// enforced in the service, where the error messages can be specific.
type WeightRequest struct {
	Direction  string   `json:"direction" validate:"required,oneof=in out none"`
	Truck      string   `json:"truck"`
	Containers []string `json:"containers"`
	// Weight is mandatory for "in" and "none"; for "out" it is the gross
	// weight of the empty truck plus containers, used to derive the tare.
	Weight  *int   `json:"weight" validate:"omitempty,gt=0"`
	Unit    string `json:"unit" validate:"omitempty,oneof=kg lbs"`
	Produce string `json:"produce"`
	Force   bool   `json:"force"`
}

// WeightFilter is bound from the query string of GET /weight.
type WeightFilter struct {
	From   string `form:"from"`   // yyyymmddhhmmss; empty = start of today
	To     string `form:"to"`     // yyyymmddhhmmss; empty = now
	Filter string `form:"filter"` // comma list of in,out,none
}

// ItemFilter is bound from the query string of GET /item/:id.
type ItemFilter struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// WeightResponse is returned by POST /weight. Fields that do not apply to
// the recorded direction are omitted.
type WeightResponse struct {
	ID        uint   `json:"id"`
	Truck     string `json:"truck,omitempty"`
	Bruto     int    `json:"bruto"`
	TruckTara *int   `json:"truckTara,omitempty"`
	Neto      *int   `json:"neto,omitempty"`
}

// TransactionResponse is one row of GET /weight.
type TransactionResponse struct {
	ID         uint        `json:"id"`
	Datetime   string      `json:"datetime"`
	Direction  string      `json:"direction"`
	Truck      string      `json:"truck"`
	Containers []string    `json:"containers"`
	Bruto      int         `json:"bruto"`
	Neto       interface{} `json:"neto"` // int, or the literal "na"
	Produce    string      `json:"produce"`
}

// SessionResponse is returned by GET /session/:id. TruckTara and Neto are
// present only once the matching "out" event has been recorded.
type SessionResponse struct {
	ID        uint   `json:"id"`
	Truck     string `json:"truck"`
	Bruto     int    `json:"bruto"`
	TruckTara *int   `json:"truckTara,omitempty"`
	Neto      *int   `json:"neto,omitempty"`
}

// ItemResponse is returned by GET /item/:id. For a truck, Tara is its last
// known tare (or "na"); for a container, Tara is the list of registered
// weights.
type ItemResponse struct {
	ID       string      `json:"id"`
	Tara     interface{} `json:"tara"`
	Sessions []uint      `json:"sessions"`
}

// BatchResponse is returned by POST /batch-weight.
type BatchResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// UnknownResponse lists container ids seen in transactions but missing from
// the registry.
type UnknownResponse struct {
	UnknownContainers []string `json:"unknown_containers"`
}

// NetoJSON renders a nullable neto the way every list endpoint does: the
// integer when known, the literal string "na" when not.
func NetoJSON(n *int) interface{} {
	if n == nil {
		return "na"
	}
	return *n
}
