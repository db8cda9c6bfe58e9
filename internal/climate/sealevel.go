// Package climate implements S4 (sea level & ocean mask), S5
// (temperature), and S6 (prevailing winds). Sea level is read directly
// off the sorted elevation distribution at the water-fraction
// percentile, with no binary search; the
// "search for a point statistic for the whole run" and
// "flood-fill a boolean mask from a known free cell" shapes are
// grounded on original_source's assign_water_bodies (sort elevations,
// index by percentile) and world.generation.go's markCoastalHexes
// (neighbor-driven boolean reclassification pass).
package climate

import (
	"sort"

	"github.com/talgya/worldgen/internal/grid"
)

// SeaLevelResult bundles S4's two outputs.
type SeaLevelResult struct {
	SeaLevel float64
	IsOcean  *grid.Field[bool]
}

// WaterTolerance is the ±0.5% band spec.md §4.4 allows between the
// requested water_frac and the actual below-sea-level fraction.
const WaterTolerance = 0.005

// ComputeSeaLevel finds the elevation threshold such that the fraction
// of cells strictly below it is as close as possible to waterFrac,
// then derives is_ocean by 4-connected flood fill from the grid edges
// through below-threshold cells. Below-threshold cells not reachable
// from an edge are interior basins, left as land here — S8 marks them
// lake_flag instead, per spec.md §4.4.
func ComputeSeaLevel(elevation *grid.Field[float64], waterFrac float64) SeaLevelResult {
	sorted := append([]float64(nil), elevation.Raw()...)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)) * waterFrac)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	seaLevel := sorted[idx]

	isOcean := floodOceanMask(elevation, seaLevel)
	return SeaLevelResult{SeaLevel: seaLevel, IsOcean: isOcean}
}

// floodOceanMask runs a multi-source BFS from every grid-edge cell
// with elevation < seaLevel, marking every below-sea-level cell it
// reaches through 4-connectivity. Cells below sea level but walled off
// from every edge by higher land are not ocean — they are interior
// lakes, which S8 resolves as lake_flag instead (spec.md invariant 7:
// every is_ocean cell is 4-connected to a grid edge through is_ocean
// cells, by construction of this flood fill).
func floodOceanMask(elevation *grid.Field[float64], seaLevel float64) *grid.Field[bool] {
	w, h := elevation.W, elevation.H
	isOcean := grid.Fill(w, h, false)

	type cell struct{ x, y int }
	var queue []cell

	enqueue := func(x, y int) {
		if isOcean.At(x, y) {
			return
		}
		if elevation.At(x, y) >= seaLevel {
			return
		}
		isOcean.Set(x, y, true)
		queue = append(queue, cell{x, y})
	}

	for x := 0; x < w; x++ {
		enqueue(x, 0)
		enqueue(x, h-1)
	}
	for y := 0; y < h; y++ {
		enqueue(0, y)
		enqueue(w-1, y)
	}

	for head := 0; head < len(queue); head++ {
		c := queue[head]
		grid.Von4(w, h, c.x, c.y, func(nx, ny int) {
			enqueue(nx, ny)
		})
	}

	return isOcean
}
