package hydrology

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/talgya/worldgen/internal/grid"
)

func randomLandscape(w, h int, seed uint64) (*grid.Field[float64], *grid.Field[bool]) {
	rnd := rand.New(rand.NewPCG(seed, seed>>1|1))
	elev := grid.New[float64](w, h)
	for i := range elev.Raw() {
		x, y := elev.Coord(i)
		elev.Set(x, y, rnd.Float64()*1000)
	}
	isOcean := grid.Fill(w, h, false)
	for x := 0; x < w; x++ {
		isOcean.Set(x, 0, true)
		isOcean.Set(x, h-1, true)
	}
	for y := 0; y < h; y++ {
		isOcean.Set(0, y, true)
		isOcean.Set(w-1, y, true)
	}
	return elev, isOcean
}

func TestFillPitsNeverLowersElevation(t *testing.T) {
	elev, isOcean := randomLandscape(32, 32, 1)
	hydro := fillPits(elev, isOcean)
	for i := range hydro.Raw() {
		if hydro.Raw()[i] < elev.Raw()[i]-1e-9 {
			t.Fatalf("cell %d: hydro_elevation %v below elevation %v", i, hydro.Raw()[i], elev.Raw()[i])
		}
	}
}

func TestFlowDirectionDescendsStrictly(t *testing.T) {
	elev, isOcean := randomLandscape(24, 24, 2)
	hydro := fillPits(elev, isOcean)
	flowDir := computeFlowDirection(hydro, isOcean)

	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			if isOcean.At(x, y) {
				continue
			}
			dir := flowDir.At(x, y)
			if dir == grid.DirSink {
				continue
			}
			dx, dy := dir.Offset()
			nx, ny := x+dx, y+dy
			if hydro.At(nx, ny) >= hydro.At(x, y) {
				t.Fatalf("cell (%d,%d) flow_dir does not strictly descend: %v -> %v", x, y, hydro.At(x, y), hydro.At(nx, ny))
			}
		}
	}
}

func TestEveryLandCellReachesOceanWithinBound(t *testing.T) {
	w, h := 24, 24
	elev, isOcean := randomLandscape(w, h, 3)
	hydro := fillPits(elev, isOcean)
	flowDir := computeFlowDirection(hydro, isOcean)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isOcean.At(x, y) {
				continue
			}
			cx, cy := x, y
			steps := 0
			for {
				if isOcean.At(cx, cy) {
					break
				}
				dir := flowDir.At(cx, cy)
				if dir == grid.DirSink {
					break
				}
				dx, dy := dir.Offset()
				cx, cy = cx+dx, cy+dy
				steps++
				if steps > w+h {
					t.Fatalf("cell (%d,%d) did not reach ocean within %d steps", x, y, w+h)
				}
			}
		}
	}
}

func TestFlowAccumulationIsConservative(t *testing.T) {
	w, h := 20, 20
	elev, isOcean := randomLandscape(w, h, 4)
	rainfall := grid.New[float64](w, h)
	for i := range rainfall.Raw() {
		rainfall.Raw()[i] = 1.0
	}
	hydro := fillPits(elev, isOcean)
	flowDir := computeFlowDirection(hydro, isOcean)
	accum := computeFlowAccumulation(hydro, flowDir, rainfall)

	for i, v := range accum.Raw() {
		if v < rainfall.Raw()[i]-1e-9 {
			t.Fatalf("cell %d: flow_accum %v less than its own rainfall %v", i, v, rainfall.Raw()[i])
		}
	}

	var totalRain, sinksInflow float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !isOcean.At(x, y) {
				totalRain += rainfall.At(x, y)
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isOcean.At(x, y) {
				sinksInflow += accum.At(x, y) - rainfall.At(x, y)
			}
		}
	}
	if math.Abs(totalRain-sinksInflow) > 1e-6*float64(w*h) {
		t.Fatalf("flow not conservative: land rainfall %v vs ocean inflow %v", totalRain, sinksInflow)
	}
}

func TestGenerateProducesNoNaNOrNegativeFields(t *testing.T) {
	w, h := 30, 30
	elev, isOcean := randomLandscape(w, h, 5)
	rainfall := grid.New[float64](w, h)
	for i := range rainfall.Raw() {
		rainfall.Raw()[i] = 2.0
	}
	res := Generate(elev, isOcean, rainfall, 0.9)
	for _, v := range res.FlowAccum.Raw() {
		if math.IsNaN(v) || v < 0 {
			t.Fatalf("invalid flow_accum value: %v", v)
		}
	}
}
