package rng

import "testing"

func TestForStageDeterministic(t *testing.T) {
	a := ForStage(42, "S1-plates")
	b := ForStage(42, "S1-plates")
	for i := 0; i < 16; i++ {
		va, vb := a.Uint64(), b.Uint64()
		if va != vb {
			t.Fatalf("stream %d diverged: %d != %d", i, va, vb)
		}
	}
}

func TestForStageIndependentByTag(t *testing.T) {
	a := ForStage(42, "S1-plates")
	b := ForStage(42, "S3-erosion")
	same := true
	for i := 0; i < 8; i++ {
		if a.Uint64() != b.Uint64() {
			same = false
		}
	}
	if same {
		t.Fatal("distinct tags produced an identical stream")
	}
}

func TestSubProducesDistinctTags(t *testing.T) {
	if Sub("S6-wind", 0) == Sub("S6-wind", 1) {
		t.Fatal("Sub(tag, 0) == Sub(tag, 1)")
	}
	a := ForStage(7, Sub("S6-wind", 2))
	b := ForStage(7, Sub("S6-wind", 2))
	if a.Uint64() != b.Uint64() {
		t.Fatal("Sub tag is not itself deterministic")
	}
}

func TestDefaultSeedVariesAcrossCalls(t *testing.T) {
	// Not a strict correctness property (0 is a legal u64), but a
	// regression guard: a broken crypto/rand call should not silently
	// collapse to the same fallback every time in a way that looks like
	// a real seed.
	seen := map[uint64]bool{}
	for i := 0; i < 4; i++ {
		seen[DefaultSeed()] = true
	}
	if len(seen) < 2 {
		t.Fatal("DefaultSeed returned the same value repeatedly")
	}
}
