package slip

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func TestStepToOrigin2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     mgl64.Vec2
		rolling  float64
		wantFrac float64
		wantQ    mgl64.Vec2
	}{
		{
			name:     "segment through origin",
			a:        mgl64.Vec2{2, 0},
			b:        mgl64.Vec2{-2, 0},
			rolling:  1e-3,
			wantFrac: 0.5,
			wantQ:    mgl64.Vec2{0, 0},
		},
		{
			name:     "segment passing beside origin",
			a:        mgl64.Vec2{1, 1},
			b:        mgl64.Vec2{1, -1},
			rolling:  1e-3,
			wantFrac: 0.5,
			wantQ:    mgl64.Vec2{1, 0},
		},
		{
			name:     "closest point beyond end is clamped",
			a:        mgl64.Vec2{3, 0},
			b:        mgl64.Vec2{1, 0},
			rolling:  1e-3,
			wantFrac: 1,
			wantQ:    mgl64.Vec2{1, 0},
		},
		{
			name:     "moving away is clamped to start",
			a:        mgl64.Vec2{1, 0},
			b:        mgl64.Vec2{2, 0},
			rolling:  1e-3,
			wantFrac: 0,
			wantQ:    mgl64.Vec2{1, 0},
		},
		{
			name:     "initial slip already slow",
			a:        mgl64.Vec2{1e-4, 0},
			b:        mgl64.Vec2{-5, 0},
			rolling:  1e-3,
			wantFrac: 1,
			wantQ:    mgl64.Vec2{-5, 0},
		},
		{
			name:     "degenerate short segment",
			a:        mgl64.Vec2{1, 2},
			b:        mgl64.Vec2{1, 2},
			rolling:  1e-3,
			wantFrac: 1,
			wantQ:    mgl64.Vec2{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frac, q := StepToOrigin2(tt.a, tt.b, tt.rolling)
			if math.Abs(frac-tt.wantFrac) > epsilon {
				t.Errorf("StepToOrigin2() frac = %v, want %v", frac, tt.wantFrac)
			}
			if !q.ApproxEqualThreshold(tt.wantQ, epsilon) {
				t.Errorf("StepToOrigin2() q = %v, want %v", q, tt.wantQ)
			}
		})
	}
}

func TestStepToOrigin3(t *testing.T) {
	frac, q := StepToOrigin3(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, -1, 0}, 1e-3)
	if math.Abs(frac-0.5) > epsilon {
		t.Errorf("StepToOrigin3() frac = %v, want 0.5", frac)
	}
	if !q.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("StepToOrigin3() q = %v, want [1 0 0]", q)
	}

	frac, q = StepToOrigin3(mgl64.Vec3{0, 0, 1e-5}, mgl64.Vec3{0, 3, 0}, 1e-3)
	if frac != 1 || q != (mgl64.Vec3{0, 3, 0}) {
		t.Errorf("StepToOrigin3() slow start = (%v, %v), want (1, [0 3 0])", frac, q)
	}
}

func TestStepToMaxChange2(t *testing.T) {
	cos30 := math.Cos(math.Pi / 6)
	cos45 := math.Cos(math.Pi / 4)

	tests := []struct {
		name   string
		a, b   mgl64.Vec2
		cosMax float64
		want   float64
	}{
		{
			name:   "perpendicular change 30 degrees",
			a:      mgl64.Vec2{1, 0},
			b:      mgl64.Vec2{1, 1},
			cosMax: cos30,
			want:   math.Tan(math.Pi / 6),
		},
		{
			name:   "perpendicular change twice as large",
			a:      mgl64.Vec2{1, 0},
			b:      mgl64.Vec2{1, 2},
			cosMax: cos30,
			want:   math.Tan(math.Pi/6) / 2,
		},
		{
			name:   "degenerate leading coefficient",
			a:      mgl64.Vec2{1, 0},
			b:      mgl64.Vec2{0, 1},
			cosMax: cos45,
			want:   0.5,
		},
		{
			name:   "scaled initial velocity",
			a:      mgl64.Vec2{0, 4},
			b:      mgl64.Vec2{-4, 4},
			cosMax: cos45,
			want:   1,
		},
		{
			name:   "no rotation",
			a:      mgl64.Vec2{1, 0},
			b:      mgl64.Vec2{3, 0},
			cosMax: cos30,
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StepToMaxChange2(tt.a, tt.b, tt.cosMax)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("StepToMaxChange2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStepToMaxChange_ReachesAngle(t *testing.T) {
	cosMax := math.Cos(20 * math.Pi / 180)
	a := mgl64.Vec2{2, 1}
	b := mgl64.Vec2{-1, 3}

	frac := StepToMaxChange2(a, b, cosMax)
	if frac <= 0 || frac >= 1 {
		t.Fatalf("StepToMaxChange2() = %v, want a value in (0,1)", frac)
	}

	v := a.Add(b.Sub(a).Mul(frac))
	if got := CosAngle(a, v); math.Abs(got-cosMax) > 1e-9 {
		t.Errorf("cos angle at returned fraction = %v, want %v", got, cosMax)
	}
}

func TestStepToMaxChange3(t *testing.T) {
	cos30 := math.Cos(math.Pi / 6)

	got := StepToMaxChange3(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 1}, cos30)
	if math.Abs(got-math.Tan(math.Pi/6)) > 1e-9 {
		t.Errorf("StepToMaxChange3() = %v, want %v", got, math.Tan(math.Pi/6))
	}

	a := mgl64.Vec3{1, 2, -1}
	b := mgl64.Vec3{-2, 0.5, 3}
	frac := StepToMaxChange3(a, b, cos30)
	v := a.Add(b.Sub(a).Mul(frac))
	cos := a.Dot(v) / (a.Len() * v.Len())
	if math.Abs(cos-cos30) > 1e-9 {
		t.Errorf("cos angle at fraction %v = %v, want %v", frac, cos, cos30)
	}
}

func TestStepToMaxChange_MatchesPlanarForm(t *testing.T) {
	cosMax := math.Cos(15 * math.Pi / 180)
	a2, b2 := mgl64.Vec2{0.3, -1.2}, mgl64.Vec2{1.5, 0.7}
	a3, b3 := mgl64.Vec3{0.3, -1.2, 0}, mgl64.Vec3{1.5, 0.7, 0}

	f2 := StepToMaxChange2(a2, b2, cosMax)
	f3 := StepToMaxChange3(a3, b3, cosMax)
	if math.Abs(f2-f3) > 1e-12 {
		t.Errorf("planar 3D fraction %v differs from 2D fraction %v", f3, f2)
	}
}
