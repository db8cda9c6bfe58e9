// Package grid provides the dense W×H field type every pipeline stage reads
// and writes, plus the 8-connected (Moore) and 4-connected (von Neumann)
// neighborhoods the pipeline needs. The grid is flat and non-toroidal: edges
// are out-of-domain, never wrapped.
package grid

import "fmt"

// Field is a dense, row-major W×H array of T. It is the generic
// generalization of ByteGrid (W,H int; data []uint8;
// Index(x,y) = y*W+x), parameterized so the same storage and indexing
// logic backs elevation (float64), plate_id (int), is_ocean (bool), and
// biome (enum) fields without duplicating the bookkeeping for each.
type Field[T any] struct {
	W, H int
	data []T
}

// New allocates a zero-valued field of the given dimensions. Panics if
// W or H is not positive — callers validate dimensions once, in
// config.Validate, before any field is allocated.
func New[T any](w, h int) *Field[T] {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", w, h))
	}
	return &Field[T]{W: w, H: h, data: make([]T, w*h)}
}

// Fill allocates a field and sets every cell to v.
func Fill[T any](w, h int, v T) *Field[T] {
	f := New[T](w, h)
	for i := range f.data {
		f.data[i] = v
	}
	return f
}

// Index returns the linear slice index for coordinates (x, y). Callers
// that already know (x,y) is in bounds should prefer this over Get/Set
// in hot loops to avoid a second bounds check.
func (f *Field[T]) Index(x, y int) int { return y*f.W + x }

// InBounds reports whether (x, y) lies within the grid.
func (f *Field[T]) InBounds(x, y int) bool {
	return x >= 0 && x < f.W && y >= 0 && y < f.H
}

// At returns the value at (x, y). Panics on out-of-bounds coordinates,
// matching slice semantics — callers that may be out of bounds must
// check InBounds first (the edge policy in spec.md is explicit about
// clamping vs. treating edges as sinks, never silent wraparound).
func (f *Field[T]) At(x, y int) T {
	return f.data[f.Index(x, y)]
}

// Set stores v at (x, y).
func (f *Field[T]) Set(x, y int, v T) {
	f.data[f.Index(x, y)] = v
}

// Raw exposes the backing slice in row-major order for bulk operations
// (parallel stage workers, IR serialization) that want direct access.
func (f *Field[T]) Raw() []T { return f.data }

// Coord returns the (x, y) coordinates for a linear index.
func (f *Field[T]) Coord(i int) (int, int) {
	return i % f.W, i / f.W
}

// Len returns W*H.
func (f *Field[T]) Len() int { return len(f.data) }

// Clone returns a deep copy of the field.
func (f *Field[T]) Clone() *Field[T] {
	out := &Field[T]{W: f.W, H: f.H, data: make([]T, len(f.data))}
	copy(out.data, f.data)
	return out
}

// Map applies fn to every cell of f in place.
func (f *Field[T]) Map(fn func(x, y int, v T) T) {
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			i := f.Index(x, y)
			f.data[i] = fn(x, y, f.data[i])
		}
	}
}
