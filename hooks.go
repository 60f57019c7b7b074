package tiermap

import "time"

// Op identifies the mutation that produced a hook event.
type Op string

const (
	OpPut     Op = "put"
	OpPutAll  Op = "put_all"
	OpRemove  Op = "remove"
	OpInherit Op = "inherit"
	OpAttach  Op = "attach"
	OpDetach  Op = "detach"
)

// Event describes a single mutation observed on a family. Key carries the
// affected key for put/remove/inherit and is nil for structural events and
// PutAll. The event is emitted once per call, from the node the caller
// invoked, not once per cascaded tier.
type Event struct {
	Op         Op
	NodeID     string
	Key        any
	Generation int
	OccurredAt time.Time
}

// Hook receives mutation events. Hooks run synchronously on the mutating
// call; keep them cheap.
type Hook interface {
	Notify(event Event)
}

// HookFunc allows plain functions to satisfy Hook.
type HookFunc func(event Event)

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(event Event) {
	if fn != nil {
		fn(event)
	}
}

// Hooks fans out events to zero or more hooks.
type Hooks []Hook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify forwards the event to all hooks, filling in the timestamp when the
// producer left it zero.
func (h Hooks) Notify(event Event) {
	if len(h) == 0 {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.Notify(event)
	}
}

// WithHooks attaches mutation hooks to the family configuration. Hooks are
// cloned and nil entries dropped.
func WithHooks(hooks Hooks) Option {
	normalized := cloneHooks(hooks)
	return func(cfg *familyConfig) {
		cfg.hooks = normalized
	}
}

// CaptureHook records events for assertions in tests.
type CaptureHook struct {
	Events []Event
}

// Notify records the event.
func (h *CaptureHook) Notify(event Event) {
	h.Events = append(h.Events, event)
}

func cloneHooks(hooks Hooks) Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

func (m *Map[K, V]) notify(op Op, key any) {
	if m.cfg == nil || !m.cfg.hooks.Enabled() {
		return
	}
	m.cfg.hooks.Notify(Event{
		Op:         op,
		NodeID:     m.id,
		Key:        key,
		Generation: m.Generation(),
	})
}
