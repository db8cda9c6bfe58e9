// Package phi holds the two golden-ratio constants the generator uses
// for a real geometric purpose: phyllotactic sampling of plate seeds.
// The original package also carried a numerology-flavored
// ConjugateField/HealthRatio layer for economic balance (see DESIGN.md);
// that part has no terrain-generation analogue and was dropped.
package phi

// Phi is the golden ratio.
const Phi = 1.6180339887498948

// GrowthAngle is the golden angle in degrees (360 / Phi^2), the angular
// increment used by phyllotactic point sequences (sunflower seed heads,
// pinecone scales) to pack points with no two ever falling on the same
// radial line. internal/plates uses it to generate a low-discrepancy
// candidate lattice for Poisson-disk-like plate seed rejection sampling.
const GrowthAngle = 137.5077
