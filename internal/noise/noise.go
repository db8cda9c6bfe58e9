// Package noise wraps opensimplex-go with the layered-octave helper
// world.Generate uses (world/generation.go's octaveNoise), generalized
// to take an arbitrary simplex source so every stage that
// needs coherent noise (plate boundary undulation in S1, base elevation
// detail in S3) shares one implementation.
package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Source produces 2D coherent noise in [-1, 1].
type Source interface {
	Eval2(x, y float64) float64
}

// New2D creates a simplex source from seed, shifted from opensimplex's
// normalized [0,1] output (the form NewNormalized constructs) into
// [-1,1] so downstream octave summation stays zero-centered. Distinct
// seeds (typically derived via rng.ForStage or a small per-layer
// offset, exactly as world.Generate offsets elevNoise/rainNoise/
// tempNoise by 0/1/2) produce independent fields.
func New2D(seed int64) Source {
	return signedSource{inner: opensimplex.NewNormalized(seed)}
}

type signedSource struct {
	inner opensimplex.Noise
}

func (s signedSource) Eval2(x, y float64) float64 {
	return s.inner.Eval2(x, y)*2 - 1
}

// Octave layers `octaves` rounds of noise at increasing frequency and
// decreasing amplitude (persistence), normalizing the result back into
// roughly [-1, 1]. Directly generalizes world.octaveNoise.
func Octave(src Source, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += src.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	if maxVal == 0 {
		return 0
	}
	return total / maxVal
}

// Ridged turns a [-1,1] noise value into a ridged variant (1 - |v|),
// which produces the sharp, linear ridgelines orographic tectonics and
// mountain-range deposition want rather than the rounded lobes plain
// noise gives.
func Ridged(v float64) float64 {
	if v < 0 {
		v = -v
	}
	return 1 - v
}
