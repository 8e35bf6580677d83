package model

// Provider is a produce supplier whose trucks get weighed and billed.
type Provider struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}
