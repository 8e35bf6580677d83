package model

import (
	"strings"
	"time"
)

// Directions a weighing transaction can carry.
const (
	DirectionIn   = "in"
	DirectionOut  = "out"
	DirectionNone = "none"
)

// Transaction is one weighing event. An "in" row starts a session and is
// later mutated (TruckTara/Neto filled) when the matching "out" event is
// recorded; an "out" row carries the same computed fields. Rows are never
// deleted.
type Transaction struct {
	ID        uint      `gorm:"primaryKey"`
	Datetime  time.Time `gorm:"index;not null"`
	Direction string    `gorm:"index;not null"` // in | out | none
	Truck     *string   `gorm:"index"`          // nil for direction=none
	// Containers is the comma-joined list of container ids on the truck,
	// exploded into a JSON array on every read path.
	Containers string `gorm:"not null;default:''"`
	Bruto      int    `gorm:"not null"` // gross weight, kg
	TruckTara  *int
	Neto       *int // nil until the session closes; rendered as "na"
	Produce    string `gorm:"not null;default:'na'"`
}

// ContainerList splits the stored comma-joined container column.
func (t *Transaction) ContainerList() []string {
	if t.Containers == "" {
		return []string{}
	}
	return strings.Split(t.Containers, ",")
}

// HasContainer reports whether id appears as a whole element of the
// container list. Substring matches are deliberately not counted.
func (t *Transaction) HasContainer(id string) bool {
	for _, c := range t.ContainerList() {
		if c == id {
			return true
		}
	}
	return false
}
