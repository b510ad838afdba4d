package combat

import (
	"fmt"
	"math"
)

// Vec3 is a world-space vector in metres. Z is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) String() string { return fmt.Sprintf("(%.0f,%.0f,%.0f)", a.X, a.Y, a.Z) }

func (a Vec3) LenSq() float64 { return a.Dot(a) }
func (a Vec3) Len() float64   { return math.Sqrt(a.Dot(a)) }

// Norm returns the unit vector along a, or the zero vector when a is degenerate.
func (a Vec3) Norm() Vec3 {
	l := a.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// DistSq is the squared 3D distance between a and b.
func DistSq(a, b Vec3) float64 { return a.Sub(b).LenSq() }

// Dist2D is the horizontal distance between a and b, altitude ignored.
func Dist2D(a, b Vec3) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// Forward returns the unit nose axis for a heading (0 = +X, CCW) and pitch
// (positive = nose up).
func Forward(heading, pitch float64) Vec3 {
	cp := math.Cos(pitch)
	return Vec3{cp * math.Cos(heading), cp * math.Sin(heading), math.Sin(pitch)}
}

// Basis is an orthonormal orientation frame.
type Basis struct {
	Forward Vec3 `json:"forward"`
	Right   Vec3 `json:"right"`
	Up      Vec3 `json:"up"`
}

// BasisFromDir builds a roll-free frame whose forward axis is dir.
func BasisFromDir(dir Vec3) Basis {
	f := dir.Norm()
	if f.LenSq() == 0 {
		f = Vec3{X: 1}
	}
	worldUp := Vec3{Z: 1}
	r := f.Cross(worldUp)
	if r.LenSq() < 1e-12 {
		// straight up or down
		r = Vec3{Y: -1}
	}
	r = r.Norm()
	return Basis{Forward: f, Right: r, Up: r.Cross(f)}
}

// PoseBasis builds the frame for a heading/pitch/roll pose.
func PoseBasis(heading, pitch, roll float64) Basis {
	b := BasisFromDir(Forward(heading, pitch))
	if roll == 0 {
		return b
	}
	c, s := math.Cos(roll), math.Sin(roll)
	right := b.Right.Scale(c).Sub(b.Up.Scale(s))
	up := b.Up.Scale(c).Add(b.Right.Scale(s))
	return Basis{Forward: b.Forward, Right: right, Up: up}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func deg(d float64) float64 { return d * math.Pi / 180.0 }

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
