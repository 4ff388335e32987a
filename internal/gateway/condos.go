package gateway

import (
	"context"

	"github.com/motoreast/rebate-portal/internal/models"
)

// Condos lists every participating condo ordered by name.
func (g *Gateway) Condos(ctx context.Context) ([]models.Condo, error) {
	return g.condos.AllCondos(ctx)
}

// CondoStats reads the per-condo aggregate view.
func (g *Gateway) CondoStats(ctx context.Context) ([]models.CondoStats, error) {
	return g.condos.CondoStats(ctx)
}
