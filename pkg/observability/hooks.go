// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let a consumer watch the orchestration without the orchestration
// depending on any particular backend. The defaults are no-ops; register
// custom implementations once at startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetToolHooks(&myToolHooks{})
//	    // ... run application
//	}
//
// Library code emits events through the registered hooks:
//
//	observability.Tools().OnToolStart(ctx, "terraform", args)
//	// ... run the tool ...
//	observability.Tools().OnToolComplete(ctx, "terraform", args, exitCode, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from batch generation and serve mode.
type PipelineHooks interface {
	// OnEnvironmentStart fires before an environment is validated.
	OnEnvironmentStart(ctx context.Context, env string)
	// OnEnvironmentSkipped fires when validation rejects an environment.
	OnEnvironmentSkipped(ctx context.Context, env string, reason error)
	// OnEnvironmentComplete fires after cleanup of a processed environment.
	OnEnvironmentComplete(ctx context.Context, env string, success bool, duration time.Duration)

	// OnManifestWritten fires after the manifest file is written.
	OnManifestWritten(ctx context.Context, path string, diagrams int)
}

// =============================================================================
// Tool Hooks
// =============================================================================

// ToolHooks receives events for every external process invocation.
type ToolHooks interface {
	OnToolStart(ctx context.Context, tool string, args []string)
	OnToolComplete(ctx context.Context, tool string, args []string, exitCode int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnEnvironmentStart(context.Context, string)                         {}
func (NoopPipelineHooks) OnEnvironmentSkipped(context.Context, string, error)                {}
func (NoopPipelineHooks) OnEnvironmentComplete(context.Context, string, bool, time.Duration) {}
func (NoopPipelineHooks) OnManifestWritten(context.Context, string, int)                     {}

// NoopToolHooks is a no-op implementation of ToolHooks.
type NoopToolHooks struct{}

func (NoopToolHooks) OnToolStart(context.Context, string, []string) {}
func (NoopToolHooks) OnToolComplete(context.Context, string, []string, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	toolHooks     ToolHooks     = NoopToolHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetToolHooks registers custom tool hooks.
// This should be called once at application startup.
func SetToolHooks(h ToolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		toolHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Tools returns the registered tool hooks.
func Tools() ToolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return toolHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	toolHooks = NoopToolHooks{}
}
