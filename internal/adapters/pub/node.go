package pub

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pubkit/internal/adapters/config"
	"go.trai.ch/pubkit/internal/adapters/exec"
	"go.trai.ch/pubkit/internal/adapters/logger"
	"go.trai.ch/pubkit/internal/adapters/noop"
	"go.trai.ch/pubkit/internal/adapters/telemetry"
	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
)

const NodeID graft.ID = "adapter.resolver"

func init() {
	graft.Register(graft.Node[ports.PackageResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			exec.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (ports.PackageResolver, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			if !settings.Enabled {
				return noop.NewResolver(), nil
			}

			runner, err := graft.Dep[ports.ProcessRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(settings, runner, log, tel), nil
		},
	})
}
