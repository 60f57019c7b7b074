package tiermap

import "strings"

// Graph renders the entire family m belongs to as a multi-line string: the
// root first, then every node depth-first in stored child order, one line
// per node showing its local data, indented one space per generation.
func Graph[K comparable, V any](m *Map[K, V]) string {
	var b strings.Builder
	renderGraph(m.Root(), 0, &b)
	return b.String()
}

// SubtreeGraph renders m and its descendants with the same layout as Graph,
// without walking up to the family root first.
func SubtreeGraph[K comparable, V any](m *Map[K, V]) string {
	var b strings.Builder
	renderGraph(m, 0, &b)
	return b.String()
}

func renderGraph[K comparable, V any](m *Map[K, V], depth int, b *strings.Builder) {
	if depth > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", depth))
	}
	b.WriteString(m.String())
	for _, child := range m.children {
		renderGraph(child, depth+1, b)
	}
}
