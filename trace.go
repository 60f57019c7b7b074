package tiermap

import (
	"encoding/json"
	"fmt"
)

// Trace captures provenance information for a key lookup across the tiers
// between a node and its root.
type Trace struct {
	Key   string       `json:"key"`
	Tiers []Provenance `json:"tiers"`
}

// Provenance details what a single tier holds for a traced key.
type Provenance struct {
	NodeID     string `json:"node_id"`
	Generation int    `json:"generation"`
	Value      any    `json:"value,omitempty"`
	Found      bool   `json:"found"`
}

// TraceKey records, for every tier from m (strongest) up to the root
// (weakest), whether the tier holds key locally and with which value. It
// never mutates the family; use it to explain where an inherited or
// shadowed value comes from.
func (m *Map[K, V]) TraceKey(key K) Trace {
	trace := Trace{Key: fmt.Sprint(key)}
	for node := m; node != nil; node = node.parent {
		entry := Provenance{
			NodeID:     node.id,
			Generation: node.Generation(),
		}
		if value, ok := node.data[key]; ok {
			entry.Value = value
			entry.Found = true
		}
		trace.Tiers = append(trace.Tiers, entry)
	}
	return trace
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated
// via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
