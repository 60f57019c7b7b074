package tiermap

import (
	"maps"

	layering "github.com/goliatone/go-tiermap/layering"
)

// FamilyView returns the merged view of the family as seen from m: the
// root's entries overlaid by each tier on the path down to m, so a
// descendant's entry shadows its ancestors'. The result is a fresh map;
// mutating it does not touch the family.
func (m *Map[K, V]) FamilyView() map[K]V {
	view := map[K]V{}
	for _, tier := range m.lineage() {
		maps.Copy(view, tier.data)
	}
	return view
}

// MergedValue deep-merges the values stored under key at every tier from the
// root (weakest) down to m (strongest) and returns the result. Scalar values
// behave like FamilyView — the nearest tier wins outright — but map, struct
// and pointer values are merged field by field, which gives layered-config
// semantics for nested values. Returns false when no tier holds the key.
func (m *Map[K, V]) MergedValue(key K) (V, bool) {
	var tiers []V
	for node := m; node != nil; node = node.parent {
		if value, ok := node.data[key]; ok {
			tiers = append(tiers, value)
		}
	}
	if len(tiers) == 0 {
		var zero V
		return zero, false
	}
	return layering.Merge(tiers...), true
}
