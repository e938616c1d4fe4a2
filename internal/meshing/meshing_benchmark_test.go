package meshing

import (
	"testing"
)

func BenchmarkBuildCylinder(b *testing.B) {
	c := HashColor("United States")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildCylinder(0.1, -0.2, 0.5, 0.005, 20, c)
	}
}

func BenchmarkHashColor(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = HashColor("Côte d'Ivoire")
	}
}
