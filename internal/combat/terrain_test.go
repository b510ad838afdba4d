package combat

import (
	"math"
	"testing"
)

func TestVisible_NilTerrain(t *testing.T) {
	if !Visible(nil, V(0, 0, 0), V(1000, 0, 0), 5) {
		t.Fatal("nil terrain should never block")
	}
}

func TestVisible_FlatClear(t *testing.T) {
	if !Visible(FlatTerrain{}, V(0, 0, 10), V(1000, 0, 10), 1.5) {
		t.Fatal("level line 10 m above flat ground should be visible")
	}
}

func TestVisible_ClearanceBlocks(t *testing.T) {
	// ground + clearance reaching the segment height blocks, inclusive
	if Visible(FlatTerrain{}, V(0, 0, 10), V(1000, 0, 10), 10) {
		t.Fatal("clearance equal to segment height should block")
	}
}

func TestVisible_RidgeBlocks(t *testing.T) {
	ridge := TerrainFunc(func(x, _ float64) float64 {
		if x > 900 && x < 1100 {
			return 1000
		}
		return 0
	})
	if Visible(ridge, V(0, 0, 500), V(2000, 0, 500), 1.5) {
		t.Fatal("ridge taller than the line should block")
	}
	if !Visible(ridge, V(0, 0, 1500), V(2000, 0, 1500), 1.5) {
		t.Fatal("line above the ridge should be visible")
	}
}

func TestVisible_EndpointsNotSampled(t *testing.T) {
	// Rising from the ground: the first sample is 25 m out at 12.5 m.
	if !Visible(FlatTerrain{}, V(0, 0, 0), V(1000, 0, 500), 1.5) {
		t.Fatal("endpoint on the ground should not block")
	}
	// Shorter than one stride: nothing to sample.
	if !Visible(FlatTerrain{Elevation: 100}, V(0, 0, 0), V(20, 0, 0), 1.5) {
		t.Fatal("sub-stride segment should be visible")
	}
}

func TestRidgeTerrain_Deterministic(t *testing.T) {
	r := DefaultRidgeTerrain()
	a := r.Height(1234, -567)
	b := r.Height(1234, -567)
	if a != b {
		t.Fatalf("height not deterministic: %f vs %f", a, b)
	}
	if math.IsNaN(a) {
		t.Fatal("height is NaN")
	}
}

func TestSteerToward_Limited(t *testing.T) {
	got := SteerToward(V(1, 0, 0), V(0, 1, 0), 0.1)
	want := V(math.Cos(0.1), math.Sin(0.1), 0)
	if DistSq(got, want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSteerToward_WithinAllowanceSnaps(t *testing.T) {
	want := V(1, 0.01, 0).Norm()
	got := SteerToward(V(1, 0, 0), want.Scale(50), 0.1)
	if DistSq(got, want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSteerToward_DirectlyBehind(t *testing.T) {
	got := SteerToward(V(1, 0, 0), V(-1, 0, 0), 0.1)
	if math.Abs(got.Len()-1) > 1e-9 {
		t.Fatalf("result not unit: %v", got)
	}
	if ang := math.Acos(clamp(got.X, -1, 1)); math.Abs(ang-0.1) > 1e-9 {
		t.Fatalf("turned %.4f rad, want 0.1", ang)
	}
}

func TestPoseBasis_RightHanded(t *testing.T) {
	b := PoseBasis(0, 0, 0)
	if DistSq(b.Forward, V(1, 0, 0)) > 1e-12 || DistSq(b.Right, V(0, -1, 0)) > 1e-12 || DistSq(b.Up, V(0, 0, 1)) > 1e-12 {
		t.Fatalf("unexpected basis %+v", b)
	}
}
