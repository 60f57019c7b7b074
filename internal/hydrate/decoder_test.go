package hydrate

import (
	"errors"
	"strings"
	"testing"
)

type payloadTarget struct {
	Name  string         `json:"name"`
	Count int            `json:"count"`
	Extra map[string]any `json:"extra,omitempty"`
}

func TestDecodeBasicPayload(t *testing.T) {
	decoder := NewDecoder[payloadTarget]()
	got, err := decoder.Decode(Context{Path: "/"}, map[string]any{
		"name":  "root",
		"count": 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "root" || got.Count != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDecodeNilPayload(t *testing.T) {
	decoder := NewDecoder[payloadTarget]()
	if _, err := decoder.Decode(Context{Path: "/0/"}, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	} else if !strings.Contains(err.Error(), "/0/") {
		t.Fatalf("error should carry the document path, got %v", err)
	}
}

func TestDecodeDisallowUnknownFields(t *testing.T) {
	strict := NewDecoder[payloadTarget](WithDisallowUnknownFields[payloadTarget]())
	_, err := strict.Decode(Context{Path: "/"}, map[string]any{
		"name":    "root",
		"unknown": true,
	})
	if err == nil {
		t.Fatalf("expected unknown-field rejection")
	}

	lenient := NewDecoder[payloadTarget]()
	if _, err := lenient.Decode(Context{Path: "/"}, map[string]any{
		"name":    "root",
		"unknown": true,
	}); err != nil {
		t.Fatalf("lenient decoder should ignore unknown fields, got %v", err)
	}
}

func TestDecodePreHookNormalisesPayload(t *testing.T) {
	decoder := NewDecoder[payloadTarget](WithPreHook[payloadTarget](func(_ Context, payload map[string]any) (map[string]any, error) {
		if _, ok := payload["name"]; !ok {
			payload["name"] = "defaulted"
		}
		return payload, nil
	}))

	got, err := decoder.Decode(Context{Path: "/"}, map[string]any{"count": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "defaulted" {
		t.Fatalf("pre-hook should have defaulted the name, got %q", got.Name)
	}
}

func TestDecodePreHookDoesNotMutateCaller(t *testing.T) {
	decoder := NewDecoder[payloadTarget](WithPreHook[payloadTarget](func(_ Context, payload map[string]any) (map[string]any, error) {
		payload["name"] = "hooked"
		return payload, nil
	}))

	original := map[string]any{"name": "caller", "count": 1}
	if _, err := decoder.Decode(Context{Path: "/"}, original); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if original["name"] != "caller" {
		t.Fatalf("the decoder must work on a cloned payload, caller saw %q", original["name"])
	}
}

func TestDecodePostHookValidation(t *testing.T) {
	wantErr := errors.New("count must be positive")
	decoder := NewDecoder[payloadTarget](WithPostHook[payloadTarget](func(_ Context, target *payloadTarget) error {
		if target.Count <= 0 {
			return wantErr
		}
		return nil
	}))

	if _, err := decoder.Decode(Context{Path: "/"}, map[string]any{"name": "x", "count": 0}); !errors.Is(err, wantErr) {
		t.Fatalf("expected the post-hook error, got %v", err)
	}
}

func TestDecodeUseNumber(t *testing.T) {
	type numberTarget struct {
		Value any `json:"value"`
	}
	decoder := NewDecoder[numberTarget](WithUseNumber[numberTarget]())
	got, err := decoder.Decode(Context{Path: "/"}, map[string]any{"value": 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.Value.(interface{ Int64() (int64, error) }); !ok {
		t.Fatalf("expected a json.Number, got %T", got.Value)
	}
}
