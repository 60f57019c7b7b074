package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies the position of a payload inside a family document,
// e.g. "/" for the root or "/1/0/" for the first child of the second child.
type Context struct {
	Path string
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated value after
// decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts family-document payloads into strongly typed values.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithUseNumber enables json.Decoder.UseNumber during decoding.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDisallowUnknownFields invokes json.Decoder.DisallowUnknownFields so
// documents carrying unexpected keys are rejected instead of silently
// dropped.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into the target value T applying configured hooks.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil at %q", ctx.Path)
	}

	current, err := clonePayload(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: clone payload at %q: %w", ctx.Path, err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook at %q failed: %w", ctx.Path, err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal payload at %q: %w", ctx.Path, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode at %q: %w", ctx.Path, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook at %q failed: %w", ctx.Path, err)
		}
	}

	return result, nil
}

func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
