// Package payout computes the prize for each quarter from the shared pot.
package payout

import (
	"math"

	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// DefaultPricePerCell applies when no price has been configured.
const DefaultPricePerCell = 10.00

// DefaultPayoutPercent splits the pot evenly across the four quarters.
var DefaultPayoutPercent = [models.NumQuarters]float64{25, 25, 25, 25}

// Pot is the total collected across every board.
func Pot(cfg *models.GameConfig, totalClaimed int) float64 {
	return roundCents(float64(totalClaimed) * cfg.PricePerCell)
}

// Prize is the amount paid for quarter q. Percentages are taken as
// configured and need not sum to 100.
func Prize(q int, cfg *models.GameConfig, totalClaimed int) float64 {
	if q < 1 || q > models.NumQuarters {
		return 0
	}
	return roundCents(float64(totalClaimed) * cfg.PricePerCell * cfg.PayoutPercent[q-1] / 100)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
