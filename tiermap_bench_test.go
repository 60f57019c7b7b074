package tiermap

import (
	"fmt"
	"testing"
)

func benchmarkLineage(depth int) *Map[string, int] {
	seeds := make([]map[string]int, depth)
	for i := 0; i < depth; i++ {
		seeds[i] = map[string]int{
			fmt.Sprintf("tier_%d", i): i,
			"shared":                  i,
		}
	}
	return Lineage(seeds)
}

func BenchmarkPutAtDepth(b *testing.B) {
	leaf := benchmarkLineage(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		leaf.Put("bench", i)
	}
}

func BenchmarkInheritAtDepth(b *testing.B) {
	leaf := benchmarkLineage(10)
	leaf.Root().Put("inherited", 42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := leaf.Inherit("inherited"); !ok {
			b.Fatalf("expected value at root")
		}
	}
}

func BenchmarkTraceKey(b *testing.B) {
	leaf := benchmarkLineage(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trace := leaf.TraceKey("shared")
		if len(trace.Tiers) != 10 {
			b.Fatalf("expected 10 tiers, got %d", len(trace.Tiers))
		}
	}
}

func BenchmarkFamilyView(b *testing.B) {
	leaf := benchmarkLineage(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if view := leaf.FamilyView(); len(view) == 0 {
			b.Fatalf("expected a populated view")
		}
	}
}
