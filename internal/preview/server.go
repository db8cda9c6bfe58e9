// Package preview serves a completed generation run over HTTP for
// interactive inspection: the rendered PNG, the IR dump, and a small
// per-cell query endpoint. Grounded directly on api.Server — same
// http.NewServeMux + writeJSON idiom — but reduced from a live,
// mutating simulation server to a read-only snapshot server, since
// spec.md §5 treats generation as a single synchronous call with no
// further state to mutate once World exists.
package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/talgya/worldgen/internal/render"
)

// Server serves one completed World snapshot.
type Server struct {
	IR  render.IRDump
	PNG []byte // pre-encoded PNG bytes, built once at startup
}

// NewServer builds a preview server for the given generation outputs.
func NewServer(ir render.IRDump, png []byte) *Server {
	return &Server{IR: ir, PNG: png}
}

// Handler builds the mux, mirroring api.Server.Start's
// "register public GET endpoints on a fresh ServeMux" shape.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/world.png", s.handlePNG)
	mux.HandleFunc("/world.json", s.handleIR)
	mux.HandleFunc("/cell", s.handleCell)
	return mux
}

// ListenAndServe starts the preview server on addr. Blocks until the
// server stops or fails; cmd/worldgen calls it as its last step, after
// generation and output writing have finished, so it never delays the
// deterministic core (spec.md §5: I/O happens only after World is complete).
func (s *Server) ListenAndServe(addr string) error {
	slog.Info("preview server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"width":     s.IR.Width,
		"height":    s.IR.Height,
		"version":   s.IR.Version,
		"sea_level": s.IR.SeaLevel,
		"plates":    len(s.IR.Plates),
	})
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Write(s.PNG)
}

func (s *Server) handleIR(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.IR)
}

// handleCell answers /cell?x=&y= with every field value at one cell,
// the read-only equivalent of api.Server's per-agent detail lookup.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	x, y, ok := s.parseXY(r)
	if !ok {
		http.Error(w, "x and y query parameters are required and must be in range", http.StatusBadRequest)
		return
	}
	idx := y*s.IR.Width + x
	writeJSON(w, map[string]any{
		"x":           x,
		"y":           y,
		"elevation":   s.IR.Cells.Elevation[idx],
		"temperature": s.IR.Cells.Temperature[idx],
		"rainfall":    s.IR.Cells.Rainfall[idx],
		"plate_id":    s.IR.Cells.PlateID[idx],
		"biome":       s.IR.Cells.Biome[idx],
		"flow_accum":  s.IR.Cells.FlowAccum[idx],
		"river":       s.IR.Cells.River[idx],
	})
}

// parseXY parses and bounds-checks x/y against the served world's own
// dimensions directly, rather than leaving it to the caller to infer
// bounds from a flattened index — an out-of-range x paired with a
// large enough y can flatten into another cell's in-bounds index and
// silently return the wrong cell's data.
func (s *Server) parseXY(r *http.Request) (int, int, bool) {
	xs := r.URL.Query().Get("x")
	ys := r.URL.Query().Get("y")
	if xs == "" || ys == "" {
		return 0, 0, false
	}
	x, err1 := strconv.Atoi(xs)
	y, err2 := strconv.Atoi(ys)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if x < 0 || x >= s.IR.Width || y < 0 || y >= s.IR.Height {
		return 0, 0, false
	}
	return x, y, true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
