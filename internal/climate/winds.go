package climate

import "github.com/talgya/worldgen/internal/grid"

// windBand describes one of the six latitude bands spec.md §4.6 names:
// polar easterlies, temperate westerlies, and tropical trades, mirrored
// north and south of the equator.
type windBand struct {
	// latFrom/latTo bound the band in latitude-proxy space [-1,1],
	// latFrom nearer the pole, latTo nearer the equator.
	latFrom, latTo float64
	vec            grid.Vec2
}

// bands is ordered north pole to south pole; ComputeWinds picks the
// band containing each row's latitude proxy and linearly blends
// across a transition zone so band edges are not a visible seam
// (spec.md §4.6: "boundaries between bands are smoothed over a few
// rows").
var bands = []windBand{
	{-1.0, -0.66, grid.Vec2{X: -1, Y: 0.3}},   // polar easterlies (north)
	{-0.66, -0.33, grid.Vec2{X: 1, Y: -0.2}}, // temperate westerlies (north)
	{-0.33, 0.0, grid.Vec2{X: -1, Y: 0.4}},    // tropical trades (north, toward equator)
	{0.0, 0.33, grid.Vec2{X: -1, Y: -0.4}},    // tropical trades (south, toward equator)
	{0.33, 0.66, grid.Vec2{X: 1, Y: 0.2}},    // temperate westerlies (south)
	{0.66, 1.0, grid.Vec2{X: -1, Y: -0.3}},     // polar easterlies (south)
}

// bandTransitionFraction is how far on either side of a band boundary
// the wind is linearly blended, in latitude-proxy units rather than
// raw rows so it scales with grid height.
const bandTransitionFraction = 0.02

// ComputeWinds runs S6: a fixed wind_vec per row, uniform within a
// band and linearly blended across band boundaries so S7's streamline
// stepping never sees a one-row discontinuity.
func ComputeWinds(width, height int) *grid.Field[grid.Vec2] {
	out := grid.New[grid.Vec2](width, height)
	for y := 0; y < height; y++ {
		lat := grid.LatitudeProxy(y, height)
		vec := windAt(lat)
		for x := 0; x < width; x++ {
			out.Set(x, y, vec)
		}
	}
	return out
}

// windAt returns the blended wind vector for a latitude-proxy value,
// linearly interpolating between adjacent bands within
// bandTransitionFraction of a boundary.
func windAt(lat float64) grid.Vec2 {
	band := bandIndexFor(lat)
	cur := bands[band]

	distToTop := lat - cur.latFrom
	distToBottom := cur.latTo - lat

	if band > 0 && distToTop < bandTransitionFraction {
		t := 0.5 + distToTop/(2*bandTransitionFraction)
		return lerp(bands[band-1].vec, cur.vec, t)
	}
	if band < len(bands)-1 && distToBottom < bandTransitionFraction {
		t := 0.5 + distToBottom/(2*bandTransitionFraction)
		return lerp(bands[band+1].vec, cur.vec, t)
	}
	return cur.vec
}

func bandIndexFor(lat float64) int {
	for i, b := range bands {
		if lat >= b.latFrom && (lat < b.latTo || i == len(bands)-1) {
			return i
		}
	}
	return len(bands) - 1
}

func lerp(a, b grid.Vec2, t float64) grid.Vec2 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return grid.Vec2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}
