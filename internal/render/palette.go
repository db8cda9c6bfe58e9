// Package render implements S10: the PNG visualization and the
// structured IR JSON dump. Hillshading, river overlay, and
// vegetation-density color blending are grounded on original_source's
// output.rs (calculate_slope, apply_elevation_shading,
// get_vegetation_color, interpolate_color), rewritten against this
// domain's Biome enum instead of raw (temp, rainfall) branching.
package render

import (
	"image/color"
	"math"
)

var biomeBaseColor = map[string][3]uint8{
	"ocean":            {20, 60, 110},
	"desert":           {220, 200, 140},
	"savanna":          {200, 180, 100},
	"tropical_forest":  {20, 90, 30},
	"shrubland":        {150, 150, 90},
	"grassland":        {100, 160, 70},
	"temperate_forest": {40, 120, 50},
	"tundra":           {160, 150, 130},
	"taiga":            {70, 100, 70},
	"boreal_forest":    {40, 90, 60},
	"ice":              {220, 230, 255},
	"snow":             {245, 245, 250},
	"alpine":           {140, 140, 140},
	"beach":            {230, 215, 170},
}

// interpolate blends two RGB triples by factor in [0,1], following
// original_source's interpolate_color.
func interpolate(a, b [3]uint8, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*factor)
	}
	return color.RGBA{
		R: lerp(a[0], b[0]),
		G: lerp(a[1], b[1]),
		B: lerp(a[2], b[2]),
		A: 255,
	}
}

// darkSoil and lightSoil are the bare-ground colors vegetationColor
// blends toward as density falls, matching original_source's
// get_base_terrain_color soil_color split (dark soil where rainfall is
// plentiful, light sandy soil where it is scarce).
var (
	darkSoil  = [3]uint8{140, 120, 90}
	lightSoil = [3]uint8{180, 160, 120}
)

// vegetationDensity scores how thickly a land cell should appear
// vegetated, from temperature, rainfall, and height above sea level,
// generalizing original_source's calculate_vegetation_density:
// vegetation favors a temperate optimum, scales up with rainfall, and
// falls off with elevation as growing conditions thin out toward the
// alpine line.
func vegetationDensity(temp, rain, aboveSeaLevel, alpineElevation float64) float64 {
	tempFactor := 0.0
	if temp > -5 && temp < 40 {
		const optimalTemp = 20.0
		tempFactor = 1 - math.Abs(temp-optimalTemp)/30
		if tempFactor < 0 {
			tempFactor = 0
		}
	}

	rainFactor := rain / 6.0
	if rainFactor > 1 {
		rainFactor = 1
	}
	if rainFactor < 0 {
		rainFactor = 0
	}

	if alpineElevation <= 0 {
		alpineElevation = 1
	}
	elevFactor := 1 - aboveSeaLevel/alpineElevation
	if elevFactor < 0 {
		elevFactor = 0
	}
	if elevFactor > 1 {
		elevFactor = 1
	}

	density := tempFactor * rainFactor * elevFactor
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	return density
}

// vegetationColor blends base (the cell's biome palette color) toward
// a bare-soil tone as vegetationDensity falls, mirroring
// original_source's get_vegetation_color mixing its climate-selected
// green against soil_color by density. Soil tone picks dark soil for
// wetter cells and light sandy soil for drier ones, per
// get_base_terrain_color's own soil split.
func vegetationColor(base [3]uint8, density, rain float64) color.RGBA {
	soil := lightSoil
	if rain > 5.0 {
		soil = darkSoil
	}
	return interpolate(soil, base, density)
}

// oceanColor shades water darker with depth below sea level,
// generalizing original_source's get_water_color depth_factor.
func oceanColor(depthBelowSeaLevel, maxDepth float64) color.RGBA {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	t := depthBelowSeaLevel / maxDepth
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	shallow := [3]uint8{40, 120, 160}
	deep := [3]uint8{8, 30, 70}
	return interpolate(shallow, deep, t)
}

// riverColor renders river_flag cells as a saturated blue overlay,
// per spec.md §4.10.
var riverColor = color.RGBA{R: 40, G: 110, B: 210, A: 255}
