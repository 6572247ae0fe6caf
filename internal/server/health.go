package server

import (
	"context"
	"fmt"

	"github.com/vanshika/heliumtrace/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// hotspotProbeCypher succeeds on an empty ledger; it only proves the
// database named in the driver config accepts reads.
const hotspotProbeCypher = `MATCH (h:Hotspot) RETURN h.address AS address LIMIT 1`

// GraphHealthService reports whether the ledger graph is reachable and
// readable.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return err
	}
	if _, err := s.Client.ExecuteRead(ctx, hotspotProbeCypher, nil); err != nil {
		return fmt.Errorf("read hotspots: %w", err)
	}
	return nil
}
