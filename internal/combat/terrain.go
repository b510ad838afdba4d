package combat

import "math"

// losStride is the sampling step, in metres, along a line-of-sight segment.
const losStride = 25.0

// Terrain answers ground height queries. Implementations must be pure.
type Terrain interface {
	Height(x, y float64) float64
}

// TerrainFunc adapts a plain function to Terrain.
type TerrainFunc func(x, y float64) float64

func (f TerrainFunc) Height(x, y float64) float64 { return f(x, y) }

// Visible reports whether the straight segment a→b clears the terrain by at
// least clearance metres. Interior points are sampled every losStride; any
// sample where ground+clearance reaches the segment height blocks the line.
func Visible(t Terrain, a, b Vec3, clearance float64) bool {
	if t == nil {
		return true
	}
	d := b.Sub(a)
	length := math.Hypot(d.X, d.Y)
	steps := int(math.Ceil(length / losStride))
	for i := 1; i < steps; i++ {
		f := float64(i) / float64(steps)
		p := a.Add(d.Scale(f))
		if t.Height(p.X, p.Y)+clearance >= p.Z {
			return false
		}
	}
	return true
}

// FlatTerrain is a level plane at a fixed elevation.
type FlatTerrain struct {
	Elevation float64
}

func (f FlatTerrain) Height(_, _ float64) float64 { return f.Elevation }

// RidgeTerrain is a deterministic rolling landscape built from summed sines.
type RidgeTerrain struct {
	Base      float64 // mean elevation
	Amplitude float64 // peak deviation from Base
	Period    float64 // wavelength of the dominant ridge line, metres
}

// DefaultRidgeTerrain returns the hills used by the front end and reports.
func DefaultRidgeTerrain() RidgeTerrain {
	return RidgeTerrain{Base: 40, Amplitude: 160, Period: 4200}
}

func (r RidgeTerrain) Height(x, y float64) float64 {
	if r.Period <= 0 {
		return r.Base
	}
	k := 2 * math.Pi / r.Period
	h := 0.55*math.Sin(x*k) +
		0.30*math.Cos(y*k*1.7+0.8) +
		0.15*math.Sin((x+y)*k*3.1)
	return r.Base + r.Amplitude*h
}
