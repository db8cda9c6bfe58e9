package render

import (
	"encoding/json"
	"io"

	"github.com/talgya/worldgen/internal/biome"
	"github.com/talgya/worldgen/internal/grid"
	"github.com/talgya/worldgen/internal/plates"
)

// irVersion is the IR dump's schema version tag (spec.md §6).
const irVersion = 1

// IRPlate is one plate table entry in the IR dump.
type IRPlate struct {
	ID    int     `json:"id"`
	VelX  float64 `json:"vel_x"`
	VelY  float64 `json:"vel_y"`
	Kind  string  `json:"kind"`
	Age   float64 `json:"age"`
}

// IRCells holds every per-cell field array, row-major, top-left
// origin, matching spec.md §6's suggested layout exactly.
type IRCells struct {
	Elevation   []float64 `json:"elevation"`
	Temperature []float64 `json:"temperature"`
	Rainfall    []float64 `json:"rainfall"`
	PlateID     []int     `json:"plate_id"`
	Biome       []int     `json:"biome"`
	FlowAccum   []float64 `json:"flow_accum"`
	River       []bool    `json:"river"`
}

// IRDump is the top-level structured document spec.md §6 requires.
type IRDump struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	RunID     string            `json:"run_id,omitempty"`
	Params    map[string]any    `json:"params"`
	Plates    []IRPlate         `json:"plates"`
	SeaLevel  float64           `json:"sea_level"`
	Cells     IRCells           `json:"cells"`
}

// IRFields bundles every field the IR dump serializes.
type IRFields struct {
	Width, Height int
	RunID         string
	Params        map[string]any
	Plates        []plates.Plate
	SeaLevel      float64

	Elevation   *grid.Field[float64]
	Temperature *grid.Field[float64]
	Rainfall    *grid.Field[float64]
	PlateID     *grid.Field[int]
	Biome       *grid.Field[biome.Biome]
	FlowAccum   *grid.Field[float64]
	RiverFlag   *grid.Field[bool]
}

// BuildIRDump assembles the IRDump value from World's fields,
// following persistence.DB's convention of marshaling domain structs
// straight into their JSON column representation rather than
// hand-writing a serializer.
func BuildIRDump(f IRFields) IRDump {
	irPlates := make([]IRPlate, len(f.Plates))
	for i, p := range f.Plates {
		irPlates[i] = IRPlate{
			ID:   p.ID,
			VelX: p.Vel.X,
			VelY: p.Vel.Y,
			Kind: p.Kind.String(),
			Age:  p.Age,
		}
	}

	biomeInts := make([]int, f.Biome.Len())
	for i, b := range f.Biome.Raw() {
		biomeInts[i] = int(b)
	}

	river := make([]bool, f.RiverFlag.Len())
	copy(river, f.RiverFlag.Raw())

	return IRDump{
		Version:  irVersion,
		Width:    f.Width,
		Height:   f.Height,
		RunID:    f.RunID,
		Params:   f.Params,
		Plates:   irPlates,
		SeaLevel: f.SeaLevel,
		Cells: IRCells{
			Elevation:   append([]float64(nil), f.Elevation.Raw()...),
			Temperature: append([]float64(nil), f.Temperature.Raw()...),
			Rainfall:    append([]float64(nil), f.Rainfall.Raw()...),
			PlateID:     append([]int(nil), f.PlateID.Raw()...),
			Biome:       biomeInts,
			FlowAccum:   append([]float64(nil), f.FlowAccum.Raw()...),
			River:       river,
		},
	}
}

// WriteIR marshals dump as indented JSON, matching the
// serde_json::to_string_pretty analogue in original_source's
// export_json.
func WriteIR(w io.Writer, dump IRDump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
