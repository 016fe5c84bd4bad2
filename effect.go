package beacon

import "github.com/mossbeacon/beacon/internal"

// Effect is a Consumer with no value, purely for side effects (§4.5). Its
// body runs once on creation to establish dependencies, then re-runs
// whenever any of them change; the optional cleanup it returns runs before
// every subsequent re-run and on Dispose.
type Effect struct {
	node *internal.EffectNode
}

// EffectOption configures an Effect at construction.
type EffectOption func(*effectConfig)

type effectConfig struct {
	name               string
	supportConditional bool
	synchronous        bool
}

func resolveEffectOpts(opts []EffectOption) effectConfig {
	cfg := effectConfig{supportConditional: true}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithEffectConditional mirrors WithConditional for effects: false tracks
// dependencies once, on the first run, instead of re-tracking every time.
func WithEffectConditional(supportConditional bool) EffectOption {
	return func(c *effectConfig) { c.supportConditional = supportConditional }
}

// WithEffectSync runs this effect at EffectSync priority: ahead of ordinary
// effects and user-level Subscribe callbacks in each flush's effect pass,
// for plumbing that other effects should observe as already settled.
func WithEffectSync() EffectOption {
	return func(c *effectConfig) { c.synchronous = true }
}

// NewEffect registers fn to run under dependency tracking, immediately and
// again on every subsequent change to any cell it read. fn may return a
// cleanup closure, run before the next re-run and on Dispose (nil is fine).
func NewEffect(rt *Runtime, fn func() func(), opts ...EffectOption) *Effect {
	cfg := resolveEffectOpts(opts)
	name := cfg.name
	if name == "" {
		name = rt.nextName("effect")
	}

	node := internal.NewEffect(rt.rt, name, priorityFor(cfg.synchronous), cfg.supportConditional, fn)
	rt.registerNode(name, func() []string {
		var out []string
		for dep := range node.Deps() {
			out = append(out, dep.Name)
		}
		return out
	})
	return &Effect{node: node}
}

// Name returns the diagnostic label.
func (e *Effect) Name() string { return e.node.Name }

// LastError returns the error raised by the most recent run, if any.
func (e *Effect) LastError() error { return e.node.LastError() }

// Dispose clears dependency subscriptions, runs the pending cleanup if any,
// and marks the effect disposed so further scheduling is a no-op.
func (e *Effect) Dispose() { e.node.Dispose() }

// OnDispose registers fn to run once, when Dispose executes.
func (e *Effect) OnDispose(fn func()) { e.node.OnDispose(fn) }

// OnCleanup registers fn against the currently-executing owner (an effect
// body, a derived compute, or an async derived run), to be invoked before
// the owner's next run and on its Dispose. It is a no-op called outside any
// tracked run.
func OnCleanup(rt *Runtime, fn func()) { rt.rt.OnCleanup(fn) }
