package climate

import "github.com/talgya/worldgen/internal/grid"

// TemperatureConfig holds the coefficients spec.md §4.5 names directly:
// T_equator, k_lat, k_elev.
type TemperatureConfig struct {
	TEquator float64 // baseline equatorial sea-level temperature, °C
	KLat     float64 // latitude cooling coefficient
	KElev    float64 // elevation cooling coefficient, °C per meter above sea level
}

// DefaultTemperatureConfig mirrors Earth-like lapse rates: roughly 30°C
// at the equator, falling toward freezing at the poles, and cooling
// ~6.5°C per 1000m above sea level.
func DefaultTemperatureConfig() TemperatureConfig {
	return TemperatureConfig{TEquator: 30, KLat: 35, KElev: 0.0065}
}

// ComputeTemperature runs S5: temperature(x,y) = T_equator -
// k_lat*f(|latitude|) - k_elev*max(0, elevation-sea_level), per
// spec.md §4.5, with f the square of the latitude proxy (a smooth
// monotone function, steeper falloff near the poles than linear).
// Ocean cells use a damped elevation term, since depth below sea level
// does not cool surface water the way altitude cools air.
func ComputeTemperature(cfg TemperatureConfig, elevation *grid.Field[float64], isOcean *grid.Field[bool], seaLevel float64) *grid.Field[float64] {
	w, h := elevation.W, elevation.H
	out := grid.New[float64](w, h)

	for y := 0; y < h; y++ {
		lat := grid.LatitudeProxy(y, h)
		latTerm := cfg.KLat * lat * lat
		for x := 0; x < w; x++ {
			elev := elevation.At(x, y)
			above := elev - seaLevel
			if above < 0 {
				above = 0
			}
			elevTerm := cfg.KElev * above
			if isOcean.At(x, y) {
				elevTerm *= 0.2 // sea-surface temperature barely tracks depth
			}
			out.Set(x, y, cfg.TEquator-latTerm-elevTerm)
		}
	}
	return out
}
