package model

// Truck is keyed by its license plate, the same id the weight service sees.
type Truck struct {
	ID         string `gorm:"primaryKey"` // plate
	ProviderID uint   `gorm:"index;not null"`

	Provider *Provider `gorm:"foreignKey:ProviderID"`
}
