// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pubkit/internal/adapters/archive"
	_ "go.trai.ch/pubkit/internal/adapters/config"
	_ "go.trai.ch/pubkit/internal/adapters/exec"
	_ "go.trai.ch/pubkit/internal/adapters/logger"
	_ "go.trai.ch/pubkit/internal/adapters/pub"
	_ "go.trai.ch/pubkit/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/pubkit/internal/app"
)
