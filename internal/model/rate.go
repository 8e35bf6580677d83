package model

// ScopeAll is the catch-all rate scope applied when no provider-specific
// rate exists for a product.
const ScopeAll = "All"

// Rate prices one product for one scope (a provider id or ScopeAll).
// The whole table is replaced on every rates upload.
type Rate struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID string `gorm:"index;not null"`
	Rate      int    `gorm:"not null"`
	Scope     string `gorm:"index;not null;default:'All'"`
}
