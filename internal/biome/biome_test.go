package biome

import (
	"testing"

	"github.com/talgya/worldgen/internal/grid"
)

func TestGenerateAssignsOceanForOceanCells(t *testing.T) {
	w, h := 8, 8
	elev := grid.Fill(w, h, 100.0)
	temp := grid.Fill(w, h, 20.0)
	rain := grid.Fill(w, h, 5.0)
	isOcean := grid.Fill(w, h, true)

	res := Generate(DefaultConfig(), elev, temp, rain, isOcean, 0)
	for _, b := range res.Biome.Raw() {
		if b != Ocean {
			t.Fatalf("expected all-ocean grid to classify as Ocean, got %v", b)
		}
	}
}

func TestGenerateNeverLeavesLandUnset(t *testing.T) {
	w, h := 16, 16
	elev := grid.New[float64](w, h)
	temp := grid.New[float64](w, h)
	rain := grid.New[float64](w, h)
	isOcean := grid.Fill(w, h, false)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			elev.Set(x, y, float64(x*10))
			temp.Set(x, y, float64(y)-5)
			rain.Set(x, y, float64(x+y)*0.3)
		}
	}

	res := Generate(DefaultConfig(), elev, temp, rain, isOcean, 0)
	for i, b := range res.Biome.Raw() {
		if b == Ocean || b.String() == "unset" {
			t.Fatalf("land cell %d has an unset biome value %v", i, b)
		}
	}
}

func TestHotDryLowElevationIsDesert(t *testing.T) {
	cfg := DefaultConfig()
	got := classify(cfg, 30, 0.5, 0)
	if got != Desert {
		t.Fatalf("expected Desert, got %v", got)
	}
}

func TestHighElevationOverridesToAlpine(t *testing.T) {
	cfg := DefaultConfig()
	got := classify(cfg, 10, 5, cfg.AlpineElevation+100)
	if got != Alpine {
		t.Fatalf("expected Alpine override at high elevation, got %v", got)
	}
}

func TestAddBeachesMarksLowCoastalLand(t *testing.T) {
	w, h := 4, 1
	elev := grid.New[float64](w, h)
	elev.Set(0, 0, 0)  // ocean
	elev.Set(1, 0, 10) // low land, adjacent to ocean
	elev.Set(2, 0, 500)
	elev.Set(3, 0, 500)

	isOcean := grid.Fill(w, h, false)
	isOcean.Set(0, 0, true)

	biomeField := grid.Fill(w, h, Grassland)
	biomeField.Set(0, 0, Ocean)

	cfg := DefaultConfig()
	addBeaches(cfg, biomeField, elev, isOcean, 0)

	if biomeField.At(1, 0) != Beach {
		t.Fatalf("expected cell adjacent to ocean at low elevation to become Beach, got %v", biomeField.At(1, 0))
	}
	if biomeField.At(3, 0) == Beach {
		t.Fatalf("expected cell far from coast and high elevation to stay non-beach")
	}
}
