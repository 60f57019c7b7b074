package tiermap

// Lineage assembles a straight root→child→…→leaf chain, one generation per
// seed map, and returns the leaf. Each generation is seeded through PutAll
// so the cascade keeps the root a superset of every tier. An empty call
// returns a bare root.
func Lineage[K comparable, V any](seeds []map[K]V, opts ...Option) *Map[K, V] {
	root := New[K, V](opts...)
	node := root
	for i, seed := range seeds {
		if i > 0 {
			node = node.Child()
		}
		node.PutAll(seed)
	}
	return node
}
