package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pubkit/internal/adapters/archive" //nolint:depguard // Wired in app layer
	"go.trai.ch/pubkit/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/pubkit/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/pubkit/internal/adapters/pub"     //nolint:depguard // Wired in app layer
	"go.trai.ch/pubkit/internal/adapters/telemetry"
	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			logger.NodeID,
			pub.NodeID,
			archive.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.PackageResolver](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.LibraryStore](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(settings, log, resolver, store, tel), nil
}

// Components bundles the initialized App with the pieces the CLI layer
// needs alongside it. graft.ExecuteFor resolves one per process.
type Components struct {
	App    *App
	Logger ports.Logger
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
