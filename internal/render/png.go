package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/talgya/worldgen/internal/biome"
	"github.com/talgya/worldgen/internal/grid"
)

// PNGFields bundles every field the PNG renderer reads. World fields
// all come from later pipeline stages; this package never mutates any of
// them (spec.md §3's "no stage mutates a field it does not own").
type PNGFields struct {
	Elevation   *grid.Field[float64]
	Temperature *grid.Field[float64]
	Rainfall    *grid.Field[float64]
	Biome       *grid.Field[biome.Biome]
	IsOcean     *grid.Field[bool]
	RiverFlag   *grid.Field[bool]
	SeaLevel    float64

	// AlpineElevation is the meters-above-sea-level biome.Config used to
	// gate the alpine override; vegetationDensity reuses it so tree
	// cover thins out on the same curve the biome table already commits
	// to, rather than inventing a second elevation ceiling.
	AlpineElevation float64
}

// WritePNG renders fields to an 8-bit RGBA PNG, row-major from
// top-left, dimensions exactly W×H, per spec.md §6. The image is
// deterministic from World: color starts from the biome palette,
// blended toward bare soil by vegetationDensity, darkened by a
// Moore-8 slope-based hillshade, with river_flag cells overlaid in a
// fixed blue.
func WritePNG(w io.Writer, f PNGFields) error {
	width, height := f.Elevation.W, f.Elevation.H
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	maxDepth := maxOceanDepth(f.Elevation, f.IsOcean, f.SeaLevel)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, cellColor(f, x, y, maxDepth))
		}
	}

	return png.Encode(w, img)
}

func maxOceanDepth(elevation *grid.Field[float64], isOcean *grid.Field[bool], seaLevel float64) float64 {
	max := 0.0
	for i, v := range elevation.Raw() {
		x, y := elevation.Coord(i)
		if !isOcean.At(x, y) {
			continue
		}
		depth := seaLevel - v
		if depth > max {
			max = depth
		}
	}
	return max
}

func cellColor(f PNGFields, x, y int, maxDepth float64) color.RGBA {
	if f.IsOcean.At(x, y) {
		depth := f.SeaLevel - f.Elevation.At(x, y)
		return oceanColor(depth, maxDepth)
	}
	if f.RiverFlag != nil && f.RiverFlag.At(x, y) {
		return riverColor
	}

	base, ok := biomeBaseColor[f.Biome.At(x, y).String()]
	if !ok {
		base = [3]uint8{200, 0, 200} // unmistakably wrong, signals a missing palette entry
	}

	if f.Temperature != nil && f.Rainfall != nil {
		temp := f.Temperature.At(x, y)
		rain := f.Rainfall.At(x, y)
		above := f.Elevation.At(x, y) - f.SeaLevel
		density := vegetationDensity(temp, rain, above, f.AlpineElevation)
		base = blendedRGB(vegetationColor(base, density, rain))
	}

	slope := slopeAt(f.Elevation, x, y)
	return shade(base, slope)
}

// blendedRGB strips the alpha channel vegetationColor always sets to
// 255, so its result can flow back through shade like any other base
// triple.
func blendedRGB(c color.RGBA) [3]uint8 {
	return [3]uint8{c.R, c.G, c.B}
}

// slopeAt estimates the steepest elevation change per unit distance
// over the Moore-8 neighborhood, generalizing original_source's
// calculate_slope.
func slopeAt(elevation *grid.Field[float64], x, y int) float64 {
	w, h := elevation.W, elevation.H
	cur := elevation.At(x, y)
	max := 0.0
	grid.Moore8(w, h, x, y, func(dir grid.Direction, nx, ny int) {
		dx, dy := dir.Offset()
		dist := math.Hypot(float64(dx), float64(dy))
		s := math.Abs(cur-elevation.At(nx, ny)) / dist
		if s > max {
			max = s
		}
	})
	return max
}

// shade darkens base color by slope, matching original_source's
// apply_elevation_shading's slope_darkness term (steeper = darker),
// omitting its elevation_brightness term since this palette already
// encodes elevation through the biome (alpine/snow) rather than a raw
// scalar.
func shade(base [3]uint8, slope float64) color.RGBA {
	darkness := slope * 0.002
	if darkness > 0.45 {
		darkness = 0.45
	}
	factor := 1 - darkness
	return color.RGBA{
		R: scaleChannel(base[0], factor),
		G: scaleChannel(base[1], factor),
		B: scaleChannel(base[2], factor),
		A: 255,
	}
}

func scaleChannel(v uint8, factor float64) uint8 {
	out := float64(v) * factor
	if out < 0 {
		out = 0
	}
	if out > 255 {
		out = 255
	}
	return uint8(out)
}
