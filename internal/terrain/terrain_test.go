package terrain

import (
	"math"
	"testing"

	"github.com/talgya/worldgen/internal/grid"
	"github.com/talgya/worldgen/internal/rng"
)

func flatBase(w, h int, v float64) *grid.Field[float64] {
	return grid.Fill(w, h, v)
}

func TestGenerateProducesFiniteElevation(t *testing.T) {
	base := flatBase(32, 32, 100)
	cfg := DefaultConfig(32, 32, 1.0)
	cfg.Droplets = 50
	out := Generate(cfg, base, rng.ForStage(1, "terrain"))
	for _, v := range out.Raw() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite elevation: %v", v)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	base := flatBase(24, 24, 50)
	cfg := DefaultConfig(24, 24, 1.0)
	cfg.Droplets = 30
	a := Generate(cfg, base, rng.ForStage(9, "terrain"))
	b := Generate(cfg, base, rng.ForStage(9, "terrain"))
	for i := range a.Raw() {
		if a.Raw()[i] != b.Raw()[i] {
			t.Fatalf("cell %d differs between identical-seed runs", i)
		}
	}
}

func TestGenerateDoesNotMutateBase(t *testing.T) {
	base := flatBase(16, 16, 10)
	original := append([]float64(nil), base.Raw()...)
	cfg := DefaultConfig(16, 16, 1.0)
	_ = Generate(cfg, base, rng.ForStage(2, "terrain"))
	for i, v := range base.Raw() {
		if v != original[i] {
			t.Fatalf("Generate mutated its base_elevation input at cell %d", i)
		}
	}
}

func TestSmoothReducesSingleCellSpikes(t *testing.T) {
	f := grid.Fill(8, 8, 0.0)
	f.Set(4, 4, 1000)
	before := f.At(4, 4)
	smooth(f)
	after := f.At(4, 4)
	if after >= before {
		t.Fatalf("expected smoothing to reduce an isolated spike: before=%v after=%v", before, after)
	}
}

func TestErodeLeavesGridOnEdgeDropletsWithoutPanic(t *testing.T) {
	base := flatBase(4, 4, 5)
	cfg := DefaultConfig(4, 4, 1.0)
	cfg.Droplets = 20
	_ = Generate(cfg, base, rng.ForStage(3, "terrain"))
}
