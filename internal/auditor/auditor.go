// Package auditor checks a generated IR dump against the testable
// properties a generation run must satisfy, independent of the
// generator that produced it. Grounded on gardener's observe → triage
// shape (internal/gardener/observe.go collects a WorldSnapshot,
// triage.go reduces it to derived diagnostic signals) repurposed from
// a live dashboard feed into an offline, one-shot check: Load plays
// the role of Observe, Audit plays the role of Triage.
package auditor

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/talgya/worldgen/internal/biome"
	"github.com/talgya/worldgen/internal/render"
)

// Check is the result of one testable property evaluated against a dump.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Report is the full set of checks run against one dump.
type Report struct {
	Checks []Check
}

// Passed reports whether every check in the report succeeded.
func (r Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// FailureCount returns how many checks failed.
func (r Report) FailureCount() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

// Load reads and decodes an IR dump from path, the offline analogue of
// gardener.Observer.Observe's HTTP fetch.
func Load(path string) (render.IRDump, error) {
	f, err := os.Open(path)
	if err != nil {
		return render.IRDump{}, fmt.Errorf("open ir dump: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (render.IRDump, error) {
	var dump render.IRDump
	dec := json.NewDecoder(r)
	if err := dec.Decode(&dump); err != nil {
		return render.IRDump{}, fmt.Errorf("decode ir dump: %w", err)
	}
	return dump, nil
}

// waterFractionTolerance is spec.md §8 invariant 1's tolerance band.
const waterFractionTolerance = 0.005

// Audit runs every static, per-dump testable property from spec.md §8
// against dump and returns a Report. Properties that require two
// independent runs (determinism, invariant 5) or full flow-direction
// data the IR format does not carry (invariants 2, 3, 6) are out of
// scope for a single offline dump and are not checked here.
func Audit(dump render.IRDump) Report {
	var r Report
	r.Checks = append(r.Checks,
		checkDimensions(dump),
		checkWaterFraction(dump),
		checkOceanConnectivity(dump),
		checkPlateContiguity(dump),
		checkNoNaNOrNegativeRainfall(dump),
		checkFlowAccumConservative(dump),
	)
	return r
}

func checkDimensions(dump render.IRDump) Check {
	n := dump.Width * dump.Height
	ok := dump.Width > 0 && dump.Height > 0 &&
		len(dump.Cells.Elevation) == n &&
		len(dump.Cells.Temperature) == n &&
		len(dump.Cells.Rainfall) == n &&
		len(dump.Cells.PlateID) == n &&
		len(dump.Cells.Biome) == n &&
		len(dump.Cells.FlowAccum) == n &&
		len(dump.Cells.River) == n
	detail := fmt.Sprintf("width=%d height=%d, expected %d cells per array", dump.Width, dump.Height, n)
	return Check{Name: "dimensions", Passed: ok, Detail: detail}
}

// checkWaterFraction verifies invariant 1: the fraction of cells below
// sea_level matches the water_frac recorded in params, within
// waterFractionTolerance plus one cell's worth of rounding.
func checkWaterFraction(dump render.IRDump) Check {
	n := len(dump.Cells.Elevation)
	if n == 0 {
		return Check{Name: "water_fraction", Passed: false, Detail: "no elevation data"}
	}
	below := 0
	for _, e := range dump.Cells.Elevation {
		if e < dump.SeaLevel {
			below++
		}
	}
	frac := float64(below) / float64(n)
	target, ok := dump.Params["water_frac"].(float64)
	if !ok {
		return Check{Name: "water_fraction", Passed: true, Detail: "no water_frac recorded in params, skipped"}
	}
	tolerance := waterFractionTolerance + 1.0/float64(n)
	diff := math.Abs(frac - target)
	passed := diff <= tolerance
	detail := fmt.Sprintf("observed=%.4f target=%.4f diff=%.4f tolerance=%.4f", frac, target, diff, tolerance)
	return Check{Name: "water_fraction", Passed: passed, Detail: detail}
}

// checkOceanConnectivity verifies invariant 7: every below-sea-level
// cell is 4-connected to a grid edge through below-sea-level cells.
func checkOceanConnectivity(dump render.IRDump) Check {
	w, h := dump.Width, dump.Height
	if w == 0 || h == 0 || len(dump.Cells.Elevation) != w*h {
		return Check{Name: "ocean_connectivity", Passed: false, Detail: "missing or malformed elevation data"}
	}
	isOcean := make([]bool, w*h)
	for i, e := range dump.Cells.Elevation {
		isOcean[i] = e < dump.SeaLevel
	}

	reachable := make([]bool, w*h)
	var queue []int
	push := func(x, y int) {
		idx := y*w + x
		if isOcean[idx] && !reachable[idx] {
			reachable[idx] = true
			queue = append(queue, idx)
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		x, y := idx%w, idx/w
		neighbors := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
		for _, nb := range neighbors {
			nx, ny := nb[0], nb[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			push(nx, ny)
		}
	}

	disconnected := 0
	for i, ocean := range isOcean {
		if ocean && !reachable[i] {
			disconnected++
		}
	}
	detail := fmt.Sprintf("%d ocean cells not edge-connected", disconnected)
	return Check{Name: "ocean_connectivity", Passed: disconnected == 0, Detail: detail}
}

// checkPlateContiguity verifies invariant 8: every plate_id region is
// 4-connected, the static analogue of plates.TestGenerateRegionsAreFourConnected.
func checkPlateContiguity(dump render.IRDump) Check {
	w, h := dump.Width, dump.Height
	if w == 0 || h == 0 || len(dump.Cells.PlateID) != w*h {
		return Check{Name: "plate_contiguity", Passed: false, Detail: "missing or malformed plate_id data"}
	}
	plateID := dump.Cells.PlateID
	violations := 0

	// A plate is contiguous iff it forms exactly one connected
	// component. Walk the grid once, flood-filling each unvisited cell's
	// component; a plate id seen across more than one component is a
	// violation.
	seenPlate := make(map[int]bool)
	visited := make([]bool, w*h)
	for start := 0; start < w*h; start++ {
		if visited[start] {
			continue
		}
		plate := plateID[start]
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			x, y := idx%w, idx/w
			neighbors := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
			for _, nb := range neighbors {
				nx, ny := nb[0], nb[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if !visited[nidx] && plateID[nidx] == plate {
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}
		}
		if seenPlate[plate] {
			violations++
		}
		seenPlate[plate] = true
	}

	detail := fmt.Sprintf("%d plate ids span more than one connected component", violations)
	return Check{Name: "plate_contiguity", Passed: violations == 0, Detail: detail}
}

// checkNoNaNOrNegativeRainfall verifies invariant 9 across the fields
// the IR dump carries: no NaN elevation/temperature/rainfall, no
// negative rainfall, every biome index in range.
func checkNoNaNOrNegativeRainfall(dump render.IRDump) Check {
	for _, v := range dump.Cells.Elevation {
		if math.IsNaN(v) {
			return Check{Name: "no_nan_or_negative", Passed: false, Detail: "NaN elevation"}
		}
	}
	for _, v := range dump.Cells.Temperature {
		if math.IsNaN(v) {
			return Check{Name: "no_nan_or_negative", Passed: false, Detail: "NaN temperature"}
		}
	}
	for _, v := range dump.Cells.Rainfall {
		if math.IsNaN(v) {
			return Check{Name: "no_nan_or_negative", Passed: false, Detail: "NaN rainfall"}
		}
		if v < 0 {
			return Check{Name: "no_nan_or_negative", Passed: false, Detail: fmt.Sprintf("negative rainfall %v", v)}
		}
	}
	for _, b := range dump.Cells.Biome {
		if b < 0 {
			return Check{Name: "no_nan_or_negative", Passed: false, Detail: fmt.Sprintf("negative biome index %d", b)}
		}
		if biome.Biome(b).String() == "unset" {
			return Check{Name: "no_nan_or_negative", Passed: false, Detail: fmt.Sprintf("biome index %d out of range", b)}
		}
	}
	return Check{Name: "no_nan_or_negative", Passed: true, Detail: "no NaN or negative values found"}
}

// checkFlowAccumConservative checks invariant 4's per-cell clause:
// flow_accum at every cell must be at least that cell's own rainfall,
// since accumulation only ever adds inflow from upstream. The
// aggregate land/ocean sum clause needs flow_dir data the IR format
// doesn't carry and isn't checked here.
func checkFlowAccumConservative(dump render.IRDump) Check {
	n := len(dump.Cells.FlowAccum)
	if n != len(dump.Cells.Rainfall) {
		return Check{Name: "flow_accum_conservative", Passed: false, Detail: "flow_accum/rainfall length mismatch"}
	}
	violations := 0
	for i := 0; i < n; i++ {
		if dump.Cells.FlowAccum[i] < dump.Cells.Rainfall[i]-1e-6 {
			violations++
		}
	}
	detail := fmt.Sprintf("%d cells have flow_accum below their own rainfall", violations)
	return Check{Name: "flow_accum_conservative", Passed: violations == 0, Detail: detail}
}
