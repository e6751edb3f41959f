package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

// ========== INERTIA ==========
func TestBoxComputeInertia(t *testing.T) {
	tests := []struct {
		name         string
		box          *Box
		mass         float64
		expectedDiag mgl64.Vec3
	}{
		{
			name:         "unit cube",
			box:          &Box{HalfExtents: mgl64.Vec3{1, 1, 1}},
			mass:         12.0, // m/12 = 1
			expectedDiag: mgl64.Vec3{8, 8, 8},
		},
		{
			name:         "rectangular box 2x3x4",
			box:          &Box{HalfExtents: mgl64.Vec3{2, 3, 4}},
			mass:         12.0,
			expectedDiag: mgl64.Vec3{100, 80, 52},
		},
		{
			name:         "thin box",
			box:          &Box{HalfExtents: mgl64.Vec3{0.1, 5, 0.1}},
			mass:         60.0,
			expectedDiag: mgl64.Vec3{500.2, 0.4, 500.2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.box.ComputeInertia(tt.mass)

			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					if i != j && !floatEqual(result.At(i, j), 0.0, 1e-9) {
						t.Errorf("ComputeInertia() returned non-diagonal matrix: %v", result)
					}
				}
			}
			if !vec3Equal(result.Diag(), tt.expectedDiag, 1e-6) {
				t.Errorf("ComputeInertia() diagonal = %v, want %v", result.Diag(), tt.expectedDiag)
			}
		})
	}
}

func TestSphereComputeInertia(t *testing.T) {
	tests := []struct {
		name      string
		sphere    *Sphere
		mass      float64
		expectedI float64
	}{
		{"unit sphere", &Sphere{Radius: 1.0}, 5.0, 2},
		{"sphere radius 2", &Sphere{Radius: 2.0}, 10.0, 16},
		{"small sphere", &Sphere{Radius: 0.5}, 1.0, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.sphere.ComputeInertia(tt.mass)
			want := mgl64.Vec3{tt.expectedI, tt.expectedI, tt.expectedI}

			if !vec3Equal(result.Diag(), want, 1e-9) {
				t.Errorf("ComputeInertia() diagonal = %v, want %v", result.Diag(), want)
			}
		})
	}
}

func TestPlaneMass(t *testing.T) {
	plane := &Plane{Normal: mgl64.Vec3{0, 1, 0}}

	if !math.IsInf(plane.ComputeMass(1), 1) {
		t.Errorf("ComputeMass() = %v, want +Inf", plane.ComputeMass(1))
	}
	if !plane.ComputeInertia(1).ApproxEqual(mgl64.Mat3{}) {
		t.Errorf("ComputeInertia() = %v, want zero matrix", plane.ComputeInertia(1))
	}
}

// ========== CONTACT FEATURES ==========
func TestBoxContactFeature(t *testing.T) {
	box := &Box{HalfExtents: mgl64.Vec3{1, 0.5, 2}}

	tests := []struct {
		name      string
		direction mgl64.Vec3
		wantCount int
		wantAxis  int     // coordinate shared by every returned corner
		wantValue float64 // its value
	}{
		{"bottom face", mgl64.Vec3{0, -1, 0}, 4, 1, -0.5},
		{"side face", mgl64.Vec3{3, 0, 0}, 4, 0, 1},
		{"edge", mgl64.Vec3{0, -1, -1}, 2, 2, -2},
		{"corner", mgl64.Vec3{1, 1, 1}, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feature := box.ContactFeature(tt.direction)

			if len(feature) != tt.wantCount {
				t.Fatalf("ContactFeature() returned %d points, want %d: %v", len(feature), tt.wantCount, feature)
			}
			for _, p := range feature {
				if !floatEqual(p[tt.wantAxis], tt.wantValue, 1e-12) {
					t.Errorf("point %v has coordinate %d = %v, want %v", p, tt.wantAxis, p[tt.wantAxis], tt.wantValue)
				}
			}
		})
	}
}

func TestSphereContactFeature(t *testing.T) {
	sphere := &Sphere{Radius: 2}

	feature := sphere.ContactFeature(mgl64.Vec3{0, -5, 0})
	if len(feature) != 1 || !vec3Equal(feature[0], mgl64.Vec3{0, -2, 0}, 1e-12) {
		t.Errorf("ContactFeature() = %v, want [(0,-2,0)]", feature)
	}
}

func TestPlaneSignedDistance(t *testing.T) {
	plane := &Plane{Normal: mgl64.Vec3{0, 1, 0}, Distance: -1}

	tests := []struct {
		point mgl64.Vec3
		want  float64
	}{
		{mgl64.Vec3{0, 1, 0}, 0},
		{mgl64.Vec3{5, 3, -2}, 2},
		{mgl64.Vec3{0, 0.5, 0}, -0.5},
	}

	for _, tt := range tests {
		if got := plane.SignedDistance(tt.point); !floatEqual(got, tt.want, 1e-12) {
			t.Errorf("SignedDistance(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}
}

func TestTangentBasis(t *testing.T) {
	normals := []mgl64.Vec3{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, -1},
		mgl64.Vec3{1, 1, 1}.Normalize(),
	}

	for _, n := range normals {
		t1, t2 := TangentBasis(n)

		if !floatEqual(t1.Len(), 1, 1e-12) || !floatEqual(t2.Len(), 1, 1e-12) {
			t.Errorf("TangentBasis(%v) not unit: %v %v", n, t1, t2)
		}
		if !floatEqual(t1.Dot(n), 0, 1e-12) || !floatEqual(t2.Dot(n), 0, 1e-12) || !floatEqual(t1.Dot(t2), 0, 1e-12) {
			t.Errorf("TangentBasis(%v) not orthogonal: %v %v", n, t1, t2)
		}
		if !vec3Equal(t1.Cross(t2), n, 1e-12) {
			t.Errorf("TangentBasis(%v) not right-handed: t1×t2 = %v", n, t1.Cross(t2))
		}
	}
}
