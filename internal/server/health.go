package server

import (
	"context"

	"github.com/vanshika/vizdash/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService reports the graph store as unhealthy when it cannot be
// reached. A nil client always passes, for deployments reading files only.
type GraphHealthService struct {
	Client graph.Client
}

func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Error    string `json:"error,omitempty"`
}
