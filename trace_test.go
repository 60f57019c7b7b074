package tiermap

import "testing"

func TestTraceKeyWalksTiersStrongestFirst(t *testing.T) {
	root := NewFrom(map[string]string{"k": "root"})
	a := root.Child()
	b := a.Child()
	b.data["k"] = "leaf" // shadow out of band

	trace := b.TraceKey("k")

	if trace.Key != "k" {
		t.Fatalf("expected traced key %q, got %q", "k", trace.Key)
	}
	if len(trace.Tiers) != 3 {
		t.Fatalf("expected one provenance entry per tier, got %d", len(trace.Tiers))
	}

	leaf := trace.Tiers[0]
	if leaf.NodeID != b.ID() || leaf.Generation != 2 || !leaf.Found || leaf.Value != "leaf" {
		t.Fatalf("unexpected leaf provenance: %+v", leaf)
	}
	middle := trace.Tiers[1]
	if middle.NodeID != a.ID() || middle.Found {
		t.Fatalf("the middle tier holds nothing locally: %+v", middle)
	}
	top := trace.Tiers[2]
	if top.NodeID != root.ID() || top.Generation != 0 || !top.Found || top.Value != "root" {
		t.Fatalf("unexpected root provenance: %+v", top)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	root := NewFrom(map[string]int{"quota": 100})
	child := root.Child()

	trace := child.TraceKey("quota")
	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("marshal trace: %v", err)
	}

	restored, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("unmarshal trace: %v", err)
	}
	if restored.Key != "quota" || len(restored.Tiers) != 2 {
		t.Fatalf("unexpected restored trace: %+v", restored)
	}
	if restored.Tiers[0].Found {
		t.Fatalf("child tier should report not found")
	}
	if !restored.Tiers[1].Found {
		t.Fatalf("root tier should report found")
	}

	if _, err := TraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
