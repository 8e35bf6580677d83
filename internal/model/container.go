package model

// RegisteredContainer maps a container id to its tare weight. Weight is
// nullable: a container can be known to the system before anyone has put it
// on a scale, in which case any neto depending on it is unknown.
type RegisteredContainer struct {
	ID          uint   `gorm:"primaryKey"`
	ContainerID string `gorm:"uniqueIndex;not null"`
	Weight      *int   // kg, after unit conversion at import time
	Unit        string `gorm:"not null;default:'kg'"`
}
