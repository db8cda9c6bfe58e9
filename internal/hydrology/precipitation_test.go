package hydrology

import (
	"math"
	"testing"

	"github.com/talgya/worldgen/internal/grid"
)

func flatOceanStrip(w, h int) (*grid.Field[float64], *grid.Field[bool]) {
	elev := grid.New[float64](w, h)
	isOcean := grid.Fill(w, h, false)
	for y := 0; y < h; y++ {
		isOcean.Set(0, y, true)
		elev.Set(0, y, 0)
		for x := 1; x < w; x++ {
			elev.Set(x, y, 0)
		}
	}
	return elev, isOcean
}

func TestComputePrecipitationProducesNonNegativeRainfall(t *testing.T) {
	w, h := 40, 12
	elev, isOcean := flatOceanStrip(w, h)
	temp := grid.Fill(w, h, 20.0)
	wind := climateEastwardWind(w, h)

	cfg := DefaultPrecipitationConfig()
	rainfall := ComputePrecipitation(cfg, elev, wind, isOcean, temp, 0, 1.0)
	for _, v := range rainfall.Raw() {
		if math.IsNaN(v) || v < 0 {
			t.Fatalf("invalid rainfall value: %v", v)
		}
	}
}

func TestComputePrecipitationProducesRainShadow(t *testing.T) {
	w, h := 60, 8
	elev, isOcean := flatOceanStrip(w, h)
	// A mountain range a few cells inland, close enough to the coast
	// that ocean moisture still reaches its windward foot.
	for y := 0; y < h; y++ {
		for x := 5; x < 10; x++ {
			elev.Set(x, y, 3000)
		}
	}
	temp := grid.Fill(w, h, 20.0)
	wind := climateEastwardWind(w, h)

	cfg := DefaultPrecipitationConfig()
	rainfall := ComputePrecipitation(cfg, elev, wind, isOcean, temp, 0, 1.0)

	windward := rainfall.At(4, 4)
	leeward := rainfall.At(40, 4)
	if leeward >= windward {
		t.Fatalf("expected leeward side of range to be drier than windward: windward=%v leeward=%v", windward, leeward)
	}
}

// climateEastwardWind is a test helper producing a uniform
// west-to-east wind field, standing in for a single S6 latitude band.
func climateEastwardWind(w, h int) *grid.Field[grid.Vec2] {
	f := grid.New[grid.Vec2](w, h)
	for i := range f.Raw() {
		x, y := f.Coord(i)
		f.Set(x, y, grid.Vec2{X: 1, Y: 0})
	}
	return f
}
