package dto

import "github.com/shopspring/decimal"

// ─── Provider / Truck CRUD ───────────────────────────────────────────────────

type ProviderRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type ProviderResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TruckRequest struct {
	ID       string `json:"id" validate:"required,min=1"`
	Provider uint   `json:"provider" validate:"required"`
}

type TruckUpdateRequest struct {
	Provider uint `json:"provider" validate:"required"`
}

type TruckResponse struct {
	ID string `json:"id"`
}

// ─── Rates ───────────────────────────────────────────────────────────────────

type RatesUploadResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ─── Bills ───────────────────────────────────────────────────────────────────

// BillFilter is bound from the query string of GET /bills/:id.
type BillFilter struct {
	From string `form:"from"` // yyyymmddhhmmss; empty = start of this month
	To   string `form:"to"`   // yyyymmddhhmmss; empty = now
}

// BillProduct is one produce group on a bill. Amount is the summed net
// weight in kg, Rate the resolved price per kg, Pay = Amount × Rate.
type BillProduct struct {
	Product string          `json:"product"`
	Count   int             `json:"count"`
	Amount  int             `json:"amount"`
	Rate    int             `json:"rate"`
	Pay     decimal.Decimal `json:"pay"`
}

type BillResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	TruckCount   int             `json:"truckCount"`
	SessionCount int             `json:"sessionCount"`
	Products     []BillProduct   `json:"products"`
	Total        decimal.Decimal `json:"total"`
}
