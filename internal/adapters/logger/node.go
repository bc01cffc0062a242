package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/pubkit/internal/core/ports"
)

const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Logger, error) {
			return New(os.Stderr), nil
		},
	})
}
