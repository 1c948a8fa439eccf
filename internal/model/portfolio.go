package model

import "time"

// Holding is one portfolio position.
type Holding struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Quantity    float64   `json:"quantity"`
	AvgPrice    float64   `json:"avg_price"`
	TargetPrice float64   `json:"target_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
