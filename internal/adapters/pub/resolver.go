// Package pub implements package resolution by driving an external
// pub-style resolution tool.
package pub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Resolver implements ports.PackageResolver. It materializes a scratch
// project declaring the requested packages, runs `<tool> get` in it and
// reads back the lockfile the tool writes.
type Resolver struct {
	settings  domain.Settings
	runner    ports.ProcessRunner
	logger    ports.Logger
	telemetry ports.Telemetry

	mu      sync.RWMutex
	results map[string]domain.ResolvedSet

	requestGroup singleflight.Group
}

// NewResolver creates a new Resolver.
func NewResolver(
	settings domain.Settings,
	runner ports.ProcessRunner,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Resolver {
	return &Resolver{
		settings:  settings,
		runner:    runner,
		logger:    logger,
		telemetry: telemetry,
		results:   make(map[string]domain.ResolvedSet),
	}
}

// Resolve pins the named packages (and their transitive dependencies) to
// concrete versions. An empty request resolves to the empty set without
// invoking the tool. Identical concurrent requests coalesce into a single
// tool run, and a set resolved once is served from memory for the lifetime
// of the resolver.
func (r *Resolver) Resolve(ctx context.Context, names []string) (domain.ResolvedSet, error) {
	requested := normalizeNames(names)
	if len(requested) == 0 {
		return domain.NewResolvedSet(), nil
	}
	for _, name := range requested {
		if !domain.ValidName(name) {
			return domain.ResolvedSet{}, zerr.With(domain.ErrInvalidName, "name", name)
		}
	}

	key := domain.NamesKey(requested)

	r.mu.RLock()
	set, ok := r.results[key]
	r.mu.RUnlock()
	if ok {
		return set, nil
	}

	v, err, _ := r.requestGroup.Do(key, func() (any, error) {
		// Re-check: a previous flight may have stored the set between the
		// fast path above and this call acquiring the flight.
		r.mu.RLock()
		set, ok := r.results[key]
		r.mu.RUnlock()
		if ok {
			return set, nil
		}

		set, err := r.resolve(ctx, requested)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.results[key] = set
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.ResolvedSet{}, err
	}
	return v.(domain.ResolvedSet), nil
}

// ToolVersion reports the resolution tool's self-described version, trimmed.
func (r *Resolver) ToolVersion(ctx context.Context) (string, error) {
	result, err := r.runner.Run(ctx, domain.RunSpec{
		Path:    r.settings.Tool,
		Args:    []string{"--version"},
		Timeout: r.settings.ResolveTimeout,
	})
	if err != nil {
		return "", zerr.Wrap(err, "failed to query tool version")
	}
	if result.ExitCode != 0 {
		return "", zerr.With(zerr.New("tool version query failed"), "exit_code", result.ExitCode)
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

func (r *Resolver) resolve(ctx context.Context, names []string) (domain.ResolvedSet, error) {
	ctx, vertex := r.telemetry.Record(ctx, "resolve: "+strings.Join(names, " "))

	set, err := r.runTool(ctx, names)
	if err != nil {
		vertex.Complete(err)
		return domain.ResolvedSet{}, err
	}

	vertex.Log(domain.LogLevelInfo, fmt.Sprintf("pinned %d packages", set.Len()))
	vertex.Complete(nil)
	return set, nil
}

// runTool performs one resolution run in a scratch directory. The scratch
// directory is removed on every path.
func (r *Resolver) runTool(ctx context.Context, names []string) (domain.ResolvedSet, error) {
	scratch, err := os.MkdirTemp("", "pubkit-resolve-")
	if err != nil {
		return domain.ResolvedSet{}, zerr.Wrap(err, "failed to create scratch dir")
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			r.logger.Warn("failed to clean up scratch dir: " + rmErr.Error())
		}
	}()

	if err := writeScratchManifest(scratch, names); err != nil {
		return domain.ResolvedSet{}, err
	}

	result, err := r.runner.Run(ctx, domain.RunSpec{
		Path:    r.settings.Tool,
		Args:    []string{"get"},
		Dir:     scratch,
		Timeout: r.settings.ResolveTimeout,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			timedOut := errors.Join(domain.ErrResolutionTimeout, err)
			return domain.ResolvedSet{}, zerr.With(timedOut, "timeout", r.settings.ResolveTimeout.String())
		}
		return domain.ResolvedSet{}, errors.Join(domain.ErrResolutionFailed, err)
	}
	if result.ExitCode != 0 {
		stderr := strings.TrimSpace(string(result.Stderr))
		if stderr == "" {
			stderr = fmt.Sprintf("exit status %d", result.ExitCode)
		}
		failure := zerr.With(domain.ErrResolutionFailed, "exit_code", result.ExitCode)
		return domain.ResolvedSet{}, zerr.With(failure, "stderr", stderr)
	}

	return parseLockfile(filepath.Join(scratch, lockfileName))
}

// normalizeNames trims, drops empties, sorts and de-duplicates the request.
func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
