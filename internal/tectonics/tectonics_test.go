package tectonics

import (
	"math"
	"testing"

	"github.com/talgya/worldgen/internal/plates"
	"github.com/talgya/worldgen/internal/rng"
)

func samplePlateResult() plates.Result {
	cfg := plates.Config{Width: 48, Height: 48, Count: 6, WaterFrac: 0.5, Scale: 1.0}
	return plates.Generate(cfg, rng.ForStage(5, "plates"))
}

func TestGenerateProducesFiniteElevation(t *testing.T) {
	res := samplePlateResult()
	elev := Generate(Config{CharacteristicLength: 2.0}, res)
	for _, v := range elev.Raw() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite elevation value: %v", v)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	res := samplePlateResult()
	a := Generate(Config{CharacteristicLength: 2.0}, res)
	b := Generate(Config{CharacteristicLength: 2.0}, res)
	for i := range a.Raw() {
		if a.Raw()[i] != b.Raw()[i] {
			t.Fatalf("cell %d differs between identical runs", i)
		}
	}
}

func TestContinentalPlatesBiasHigherThanOceanic(t *testing.T) {
	res := samplePlateResult()
	elev := Generate(Config{CharacteristicLength: 2.0}, res)

	var contSum, contN, oceanSum, oceanN float64
	for y := 0; y < elev.H; y++ {
		for x := 0; x < elev.W; x++ {
			p := res.Plates[res.PlateID.At(x, y)]
			v := elev.At(x, y)
			if p.Kind == plates.Continental {
				contSum += v
				contN++
			} else {
				oceanSum += v
				oceanN++
			}
		}
	}
	if contN == 0 || oceanN == 0 {
		t.Skip("sample plate layout has no mix of kinds to compare")
	}
	if contSum/contN <= oceanSum/oceanN {
		t.Fatalf("expected continental average elevation above oceanic: cont=%v ocean=%v",
			contSum/contN, oceanSum/oceanN)
	}
}

func TestClassifyMagnitudeOrdering(t *testing.T) {
	cc := classifyMagnitude(plates.Continental, plates.Continental, true)
	oc := classifyMagnitude(plates.Oceanic, plates.Continental, true)
	oo := classifyMagnitude(plates.Oceanic, plates.Oceanic, true)
	if !(cc > oc && oc > oo) {
		t.Fatalf("expected continental-continental > mixed > oceanic-oceanic uplift, got %v %v %v", cc, oc, oo)
	}
}
