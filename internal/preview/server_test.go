package preview

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/talgya/worldgen/internal/render"
)

func sampleIR() render.IRDump {
	return render.IRDump{
		Version:  1,
		Width:    2,
		Height:   2,
		SeaLevel: 10,
		Cells: render.IRCells{
			Elevation:   []float64{1, 2, 3, 4},
			Temperature: []float64{10, 11, 12, 13},
			Rainfall:    []float64{0, 1, 2, 3},
			PlateID:     []int{0, 0, 1, 1},
			Biome:       []int{0, 1, 2, 3},
			FlowAccum:   []float64{0, 1, 2, 3},
			River:       []bool{false, false, true, false},
		},
	}
}

func TestHandleStatusReturnsDimensions(t *testing.T) {
	s := NewServer(sampleIR(), []byte{0x89, 'P', 'N', 'G'})
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleCellReturnsFieldValues(t *testing.T) {
	s := NewServer(sampleIR(), nil)
	req := httptest.NewRequest(http.MethodGet, "/cell?x=1&y=1", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleCellRejectsOutOfRangeCoordinates(t *testing.T) {
	s := NewServer(sampleIR(), nil)
	req := httptest.NewRequest(http.MethodGet, "/cell?x=99&y=99", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range cell, got %d", rec.Code)
	}
}

func TestHandleCellRejectsOutOfRangeXEvenWithInBoundsFlatIndex(t *testing.T) {
	// x=3, y=0 is out of range for a 2x2 grid, but 0*2+3 == 3 is still a
	// valid index into a 4-element array — this must 400, not silently
	// return cell (1,1)'s data.
	s := NewServer(sampleIR(), nil)
	req := httptest.NewRequest(http.MethodGet, "/cell?x=3&y=0", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range x with an incidentally in-bounds flat index, got %d", rec.Code)
	}
}

func TestHandleCellRejectsMissingCoordinates(t *testing.T) {
	s := NewServer(sampleIR(), nil)
	req := httptest.NewRequest(http.MethodGet, "/cell", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing coordinates, got %d", rec.Code)
	}
}
