package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/pubkit/internal/adapters/detector"
	"go.trai.ch/pubkit/internal/adapters/telemetry/progrock"
	"go.trai.ch/pubkit/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			mode := detector.ResolveMode(detector.DetectEnvironment(), os.Getenv("PUBKIT_PROGRESS"))
			if mode == detector.ModeProgress {
				return progrock.New(), nil
			}
			return NewNoOpTelemetry(), nil
		},
	})
}
