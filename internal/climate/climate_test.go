package climate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/talgya/worldgen/internal/grid"
)

func randomElevation(w, h int, seed uint64) *grid.Field[float64] {
	rnd := rand.New(rand.NewPCG(seed, seed>>1|1))
	f := grid.New[float64](w, h)
	for i := range f.Raw() {
		x, y := f.Coord(i)
		f.Set(x, y, rnd.Float64()*2000-500)
	}
	return f
}

func TestComputeSeaLevelMatchesWaterFraction(t *testing.T) {
	elev := randomElevation(64, 64, 1)
	res := ComputeSeaLevel(elev, 0.6)

	below := 0
	for _, v := range elev.Raw() {
		if v < res.SeaLevel {
			below++
		}
	}
	got := float64(below) / float64(elev.Len())
	if math.Abs(got-0.6) > 0.02 {
		t.Fatalf("expected ~60%% below sea level, got %.3f", got)
	}
}

func TestFloodOceanMaskIsEdgeConnected(t *testing.T) {
	elev := randomElevation(48, 48, 2)
	res := ComputeSeaLevel(elev, 0.5)

	w, h := res.IsOcean.W, res.IsOcean.H
	visited := grid.Fill(w, h, false)
	type cell struct{ x, y int }
	var queue []cell
	for x := 0; x < w; x++ {
		for _, y := range []int{0, h - 1} {
			if res.IsOcean.At(x, y) && !visited.At(x, y) {
				visited.Set(x, y, true)
				queue = append(queue, cell{x, y})
			}
		}
	}
	for y := 0; y < h; y++ {
		for _, x := range []int{0, w - 1} {
			if res.IsOcean.At(x, y) && !visited.At(x, y) {
				visited.Set(x, y, true)
				queue = append(queue, cell{x, y})
			}
		}
	}
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		grid.Von4(w, h, c.x, c.y, func(nx, ny int) {
			if res.IsOcean.At(nx, ny) && !visited.At(nx, ny) {
				visited.Set(nx, ny, true)
				queue = append(queue, cell{nx, ny})
			}
		})
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if res.IsOcean.At(x, y) && !visited.At(x, y) {
				t.Fatalf("ocean cell (%d,%d) is not edge-connected", x, y)
			}
		}
	}
}

func TestTemperatureDecreasesWithLatitudeAndElevation(t *testing.T) {
	cfg := DefaultTemperatureConfig()
	elev := grid.Fill(16, 16, 0.0)
	isOcean := grid.Fill(16, 16, false)
	temp := ComputeTemperature(cfg, elev, isOcean, 0)

	equator := temp.At(8, 8)
	pole := temp.At(8, 0)
	if pole >= equator {
		t.Fatalf("expected pole colder than equator: pole=%v equator=%v", pole, equator)
	}

	elevHigh := grid.Fill(16, 16, 3000.0)
	tempHigh := ComputeTemperature(cfg, elevHigh, isOcean, 0)
	if tempHigh.At(8, 8) >= equator {
		t.Fatalf("expected high elevation to be colder than sea level at same latitude")
	}
}

func TestComputeWindsBlendsAcrossBandBoundaries(t *testing.T) {
	winds := ComputeWinds(8, 400)
	for y := 1; y < 400; y++ {
		a := winds.At(0, y-1)
		b := winds.At(0, y)
		dx := math.Abs(a.X - b.X)
		dy := math.Abs(a.Y - b.Y)
		if dx > 1.2 || dy > 1.2 {
			t.Fatalf("wind vector jumped sharply between adjacent rows %d,%d: %v -> %v", y-1, y, a, b)
		}
	}
}

func TestComputeWindsIsUniformWithinRow(t *testing.T) {
	winds := ComputeWinds(10, 10)
	for y := 0; y < 10; y++ {
		first := winds.At(0, y)
		for x := 1; x < 10; x++ {
			if winds.At(x, y) != first {
				t.Fatalf("expected uniform wind within row %d", y)
			}
		}
	}
}
