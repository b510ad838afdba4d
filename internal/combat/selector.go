package combat

import (
	"math"
	"sort"
)

// Pose is a shooter's position and attitude.
type Pose struct {
	Pos     Vec3
	Heading float64
	Pitch   float64
	Roll    float64
}

// Candidate is one qualifying target from a selection pass.
type Candidate struct {
	Handle Handle
	Aim    Vec3
	Dist   float64 // straight-line distance from the eye point
	Screen float64 // squared screen-space distance from the aim point
}

// Selector runs cone/range/line-of-sight gating over the registry. It holds
// no state of its own; every call is a pure read.
type Selector struct {
	Registry  *Registry
	Terrain   Terrain
	EyeHeight float64
	Clearance float64
}

func (s *Selector) eye(p Pose) Vec3 { return p.Pos.Add(Vec3{Z: s.EyeHeight}) }

// Select returns targets inside halfAngle (radians) of the pose's forward
// axis, within maxRange when maxRange > 0, and visible over the terrain.
// Results are ordered nearest-to-reticle first; ties keep registry order.
func (s *Selector) Select(p Pose, halfAngle, maxRange float64, cats []Category) []Candidate {
	eye := s.eye(p)
	basis := PoseBasis(p.Heading, p.Pitch, p.Roll)
	cosHalf := math.Cos(halfAngle)

	var out []Candidate
	s.Registry.Each(cats, func(t Target) bool {
		if c, ok := s.gate(eye, basis, cosHalf, maxRange, t); ok {
			out = append(out, c)
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Screen < out[j].Screen })
	return out
}

// Qualifies re-tests a single handle against the same gates as Select.
func (s *Selector) Qualifies(p Pose, h Handle, halfAngle, maxRange float64) (Candidate, error) {
	t, ok := s.Registry.Lookup(h)
	if !ok {
		return Candidate{}, ErrStaleHandle
	}
	eye := s.eye(p)
	basis := PoseBasis(p.Heading, p.Pitch, p.Roll)
	c, err := s.check(eye, basis, math.Cos(halfAngle), maxRange, t)
	return c, err
}

func (s *Selector) gate(eye Vec3, basis Basis, cosHalf, maxRange float64, t Target) (Candidate, bool) {
	c, err := s.check(eye, basis, cosHalf, maxRange, t)
	return c, err == nil
}

func (s *Selector) check(eye Vec3, basis Basis, cosHalf, maxRange float64, t Target) (Candidate, error) {
	aim := t.AimPoint()
	d := aim.Sub(eye)
	dist := d.Len()
	if dist < 1e-6 {
		return Candidate{}, ErrOutOfCone
	}
	dir := d.Scale(1 / dist)
	fwd := dir.Dot(basis.Forward)
	if fwd < cosHalf || fwd <= 1e-9 {
		return Candidate{}, ErrOutOfCone
	}
	if maxRange > 0 && dist > maxRange {
		return Candidate{}, ErrOutOfRange
	}
	if !Visible(s.Terrain, eye, aim, s.Clearance) {
		return Candidate{}, ErrNoLineOfSight
	}
	// Perspective projection onto the unit image plane.
	x := dir.Dot(basis.Right) / fwd
	y := dir.Dot(basis.Up) / fwd
	return Candidate{Handle: t.Handle(), Aim: aim, Dist: dist, Screen: x*x + y*y}, nil
}

// Handles flattens a candidate list.
func Handles(cs []Candidate) []Handle {
	out := make([]Handle, len(cs))
	for i, c := range cs {
		out[i] = c.Handle
	}
	return out
}
