package model

import "time"

// Offcut is leftover stock material large enough to reuse in a future
// project. Offcuts live independently of the project that produced them;
// lifecycle: created from a reusable waste region -> available ->
// (optionally) consumed by a future project -> available again if returned.
type Offcut struct {
	ID                  string     `json:"id"`
	Material            string     `json:"material"`
	Length              float64    `json:"length"`
	Width               float64    `json:"width"`
	Thickness           float64    `json:"thickness"`
	Available           bool       `json:"available"`
	OriginProjectID     string     `json:"origin_project_id,omitempty"`
	ConsumedByProjectID string     `json:"consumed_by_project_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	ConsumedAt          *time.Time `json:"consumed_at,omitempty"`
}

// Area returns the offcut area in square mm.
func (o Offcut) Area() float64 { return o.Length * o.Width }

// ToStockSheet converts an offcut into a single-quantity stock sheet so a
// future project can nest onto it.
func (o Offcut) ToStockSheet() StockSheet {
	s := NewStockSheet("Offcut "+o.ID, o.Material, o.Length, o.Width, 1)
	s.Thickness = o.Thickness
	return s
}
