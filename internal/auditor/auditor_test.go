package auditor

import (
	"testing"

	"github.com/talgya/worldgen/internal/render"
)

func validDump() render.IRDump {
	// 3x3 grid, edge ring below sea level (ocean, edge-connected),
	// center above (land). Plate ids form two contiguous halves.
	elevation := []float64{
		-10, -10, -10,
		-10, 50, -10,
		-10, -10, -10,
	}
	plateID := []int{0, 0, 0, 0, 0, 0, 1, 1, 1}
	return render.IRDump{
		Version:  1,
		Width:    3,
		Height:   3,
		SeaLevel: 0,
		Params:   map[string]any{"water_frac": 8.0 / 9.0},
		Cells: render.IRCells{
			Elevation:   elevation,
			Temperature: []float64{10, 10, 10, 10, 20, 10, 10, 10, 10},
			Rainfall:    []float64{1, 1, 1, 1, 1, 1, 1, 1, 1},
			PlateID:     plateID,
			Biome:       []int{0, 0, 0, 0, 1, 0, 0, 0, 0},
			FlowAccum:   []float64{1, 1, 1, 1, 1, 1, 1, 1, 1},
			River:       []bool{false, false, false, false, false, false, false, false, false},
		},
	}
}

func TestAuditPassesOnAWellFormedDump(t *testing.T) {
	report := Audit(validDump())
	if !report.Passed() {
		for _, c := range report.Checks {
			if !c.Passed {
				t.Errorf("check %s failed: %s", c.Name, c.Detail)
			}
		}
	}
}

func TestAuditCatchesNonContiguousPlate(t *testing.T) {
	dump := validDump()
	// Scatter plate 1 into a disconnected second blob.
	dump.Cells.PlateID = []int{0, 0, 0, 0, 0, 0, 1, 0, 1}
	report := Audit(dump)
	if report.Passed() {
		t.Fatal("expected plate_contiguity check to fail")
	}
}

func TestAuditCatchesDisconnectedOcean(t *testing.T) {
	dump := validDump()
	// Turn the center cell into an isolated ocean pocket, unreachable
	// from any edge without crossing land.
	dump.Cells.Elevation = []float64{
		10, 10, 10,
		10, -10, 10,
		10, 10, 10,
	}
	report := Audit(dump)
	if report.Passed() {
		t.Fatal("expected ocean_connectivity check to fail")
	}
}

func TestAuditCatchesNegativeRainfall(t *testing.T) {
	dump := validDump()
	dump.Cells.Rainfall[4] = -1
	report := Audit(dump)
	if report.Passed() {
		t.Fatal("expected no_nan_or_negative check to fail")
	}
}

func TestAuditCatchesFlowAccumBelowRainfall(t *testing.T) {
	dump := validDump()
	dump.Cells.FlowAccum[4] = 0
	dump.Cells.Rainfall[4] = 5
	report := Audit(dump)
	if report.Passed() {
		t.Fatal("expected flow_accum_conservative check to fail")
	}
}

func TestReportFailureCount(t *testing.T) {
	dump := validDump()
	dump.Cells.Rainfall[0] = -1
	report := Audit(dump)
	if report.FailureCount() == 0 {
		t.Fatal("expected at least one failed check")
	}
}
