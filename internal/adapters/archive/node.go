package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pubkit/internal/adapters/config"
	"go.trai.ch/pubkit/internal/adapters/logger"
	"go.trai.ch/pubkit/internal/adapters/noop"
	"go.trai.ch/pubkit/internal/adapters/telemetry"
	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
)

const NodeID graft.ID = "adapter.store"

func init() {
	graft.Register(graft.Node[ports.LibraryStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (ports.LibraryStore, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			if !settings.Enabled {
				return noop.NewStore(), nil
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(settings, log, tel)
		},
	})
}
