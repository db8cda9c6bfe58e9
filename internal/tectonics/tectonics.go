// Package tectonics implements S2: deriving base_elevation from the
// plate geometry and motion S1 produced. Boundary classification and
// distance-decayed deposition are new to this domain, but the shaping
// idiom — multiply a raw field by an edge/falloff term, then add a
// per-region bias — is grounded directly on world.Generate
// (world/generation.go), which shapes elev by a continental
// edgeFalloff term and layers a temperature bias on top of raw noise
// the same way this package layers plate-kind bias on top of boundary
// uplift.
package tectonics

import (
	"math"

	"github.com/talgya/worldgen/internal/grid"
	"github.com/talgya/worldgen/internal/plates"
)

// BoundaryKind classifies a pair of adjacent cells straddling a plate
// boundary by their relative velocity against the boundary normal.
type BoundaryKind int

const (
	Transform BoundaryKind = iota
	Convergent
	Divergent
)

// Tau is the relative-velocity threshold (spec.md §4.2) below which a
// boundary is classified transform rather than convergent/divergent.
const Tau = 0.1

// Config controls uplift deposition.
type Config struct {
	CharacteristicLength float64 // L_range, config.Config.CharacteristicLength()
}

// Generate runs S2, producing base_elevation from plate_id/plate_vel.
//
// Every boundary cell pair contributes an uplift (or subsidence) value
// that decays exponentially with Euclidean distance from the boundary,
// mirroring real mountain ranges forming as lines rather than blobs
// (spec.md §4.2 "why this shape"). Contributions are added straight
// into the field in a fixed, single-threaded order (boundary cells in
// row-major scan order), so the result is deterministic — satisfying
// the "no atomic float adds" rule in spec.md §9.
func Generate(cfg Config, res plates.Result) *grid.Field[float64] {
	w, h := res.PlateID.W, res.PlateID.H
	elevation := grid.New[float64](w, h)

	boundaryCells := findBoundaryCells(res)
	for _, b := range boundaryCells {
		depositUplift(elevation, b, cfg.CharacteristicLength)
	}

	applyPlateBias(elevation, res)

	return elevation
}

// boundaryCell is one cell adjacent to a cell of a different plate,
// with the uplift contribution already classified and signed. normal
// points from this cell's plate toward the neighboring plate;
// depositUplift uses it to place the secondary trench/shoulder lobes
// spec.md §4.2 describes for mixed-kind convergent and divergent
// boundaries, which a single radial bump can't express on its own.
type boundaryCell struct {
	x, y            int
	sign            float64 // +1 convergent, -1 divergent, 0 transform
	normal          grid.Vec2
	oceanOnFarSide  bool // mixed convergent boundary: the oceanic plate lies in the +normal direction
	mixedConvergent bool // convergent boundary between one oceanic and one continental plate
	divergent       bool
}

// findBoundaryCells walks every cell's Moore-8 neighborhood looking for
// plate_id mismatches, classifying the pair by the dot product of
// their relative velocity against the boundary normal. Moore-8 (rather
// than Von4) so diagonal plate seams are detected too — a seam that
// only touches diagonally would otherwise never register as a
// boundary.
func findBoundaryCells(res plates.Result) []boundaryCell {
	w, h := res.PlateID.W, res.PlateID.H
	var out []boundaryCell

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pa := res.PlateID.At(x, y)
			var strongest float64
			var strongestNormal grid.Vec2
			strongestOther := -1
			found := false
			grid.Moore8(w, h, x, y, func(dir grid.Direction, nx, ny int) {
				pb := res.PlateID.At(nx, ny)
				if pb == pa {
					return
				}
				dx, dy := dir.Offset()
				n := grid.Vec2{X: float64(dx), Y: float64(dy)}.Normalized()
				dv := res.Plates[pa].Vel.Sub(res.Plates[pb].Vel)
				rel := dv.Dot(n)
				if !found || math.Abs(rel) > math.Abs(strongest) {
					strongest = rel
					strongestNormal = n
					strongestOther = pb
					found = true
				}
			})
			if !found {
				continue
			}
			sign := 0.0
			mixedConvergent := false
			divergent := false
			switch {
			case strongest < -Tau:
				kindA := res.Plates[pa].Kind
				kindB := res.Plates[strongestOther].Kind
				sign = classifyMagnitude(kindA, kindB, true)
				mixedConvergent = kindA != kindB
			case strongest > Tau:
				sign = -1
				divergent = true
			}
			if sign != 0 {
				out = append(out, boundaryCell{
					x: x, y: y, sign: sign,
					normal:          strongestNormal,
					oceanOnFarSide:  res.Plates[pa].Kind == plates.Continental,
					mixedConvergent: mixedConvergent,
					divergent:       divergent,
				})
			}
		}
	}
	return out
}

// classifyMagnitude returns the uplift sign/strength for a convergent
// pair. Both-continental pairs get the strongest positive contribution
// (high mountain ranges); oceanic-continental and oceanic-oceanic
// pairs still uplift (coastal range / island arc) but more mildly,
// per spec.md §4.2.
func classifyMagnitude(a, b plates.Kind, convergent bool) float64 {
	if !convergent {
		return 0
	}
	if a == plates.Continental && b == plates.Continental {
		return 1.4
	}
	if a == plates.Oceanic && b == plates.Oceanic {
		return 0.6
	}
	return 1.0
}

// depositUplift adds an exponentially-decaying contribution around a
// classified boundary cell into elevation. Scanning a bounded box
// around the boundary cell (rather than every cell in the grid, for
// every boundary cell) keeps the O(boundary_cells * L_range^2) cost
// tractable at the grid sizes spec.md targets. Mixed-kind convergent
// boundaries additionally get an offshore trench on the oceanic
// plate's side, and divergent boundaries get mild flanking shoulders,
// per spec.md §4.2's "coastal range plus trench" / "rift flanked by
// mild shoulders" shapes — depositLobe alone only produces the single
// central range or rift.
func depositUplift(elevation *grid.Field[float64], b boundaryCell, lRange float64) {
	if lRange <= 0 {
		lRange = 1
	}
	depositLobe(elevation, b.x, b.y, 600.0*b.sign, lRange)

	if b.mixedConvergent {
		dir := -1.0
		if b.oceanOnFarSide {
			dir = 1.0
		}
		tx := b.x + int(math.Round(dir*b.normal.X*lRange*1.5))
		ty := b.y + int(math.Round(dir*b.normal.Y*lRange*1.5))
		depositLobe(elevation, tx, ty, -280.0, lRange*0.6)
	}

	if b.divergent {
		for _, dir := range [2]float64{-1, 1} {
			sx := b.x + int(math.Round(dir*b.normal.X*lRange*2))
			sy := b.y + int(math.Round(dir*b.normal.Y*lRange*2))
			depositLobe(elevation, sx, sy, 140.0, lRange*0.8)
		}
	}
}

// depositLobe adds one exponentially-decaying bump centered at
// (cx, cy) into elevation, clipped to the grid.
func depositLobe(elevation *grid.Field[float64], cx, cy int, amplitude, lRange float64) {
	if lRange <= 0 {
		lRange = 1
	}
	radius := int(math.Ceil(lRange * 4))
	if radius < 1 {
		radius = 1
	}

	w, h := elevation.W, elevation.H
	for dy := -radius; dy <= radius; dy++ {
		ny := cy + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			nx := cx + dx
			if nx < 0 || nx >= w {
				continue
			}
			dist := math.Hypot(float64(dx), float64(dy))
			decay := math.Exp(-dist / lRange)
			elevation.Set(nx, ny, elevation.At(nx, ny)+amplitude*decay)
		}
	}
}

// applyPlateBias adds the per-plate base offset from spec.md §4.2:
// continental plates get a positive plateau, oceanic a negative one,
// tempered by plate age (an older oceanic plate has cooled and sunk
// further, per original_source's TectonicPlate.age — supplemental to
// spec.md but grounded in the same physical intuition).
func applyPlateBias(elevation *grid.Field[float64], res plates.Result) {
	w, h := res.PlateID.W, res.PlateID.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := res.Plates[res.PlateID.At(x, y)]
			bias := 200.0
			if p.Kind == plates.Oceanic {
				bias = -1800.0 - p.Age*4.0
			}
			elevation.Set(x, y, elevation.At(x, y)+bias)
		}
	}
}
