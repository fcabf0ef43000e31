package geometry

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2)
	if v.X != 1 || v.Y != 2 {
		t.Errorf("NewVector(1, 2) = %v; want (1, 2)", v)
	}
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (X-axis)", 10, 0, Vector2D{10, 0}},
		{"90 degrees (Y-axis)", 10, math.Pi / 2, Vector2D{0, 10}},
		{"180 degrees (Negative X)", 10, math.Pi, Vector2D{-10, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Dot", func(t *testing.T) {
		if got := v1.Dot(v2); got != 11 {
			t.Errorf("%v.Dot(%v) = %v; want 11", v1, v2, got)
		}
		if got := (Vector2D{1, 0}).Dot(Vector2D{0, 1}); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4} // 3-4-5 triangle

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		want := Vector2D{0.6, 0.8}
		if !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		zero := Vector2D{0, 0}
		got := zero.Normalize()
		if !got.Eq(zero) {
			t.Errorf("Normalize(0,0) = %v; want (0,0)", got)
		}
	})
}

func TestVector_Unit(t *testing.T) {
	t.Run("NonZero", func(t *testing.T) {
		got, err := (Vector2D{-3, 4}).Unit()
		if err != nil {
			t.Fatalf("Unit returned error %v", err)
		}
		if !got.Eq(Vector2D{-0.6, 0.8}) {
			t.Errorf("Unit = %v; want (-0.6, 0.8)", got)
		}
	})

	t.Run("Zero", func(t *testing.T) {
		got, err := (Vector2D{0, 0}).Unit()
		if !errors.Is(err, ErrDegenerateVector) {
			t.Fatalf("Unit(0,0) error = %v; want ErrDegenerateVector", err)
		}
		if !got.Eq(Vector2D{0, 0}) {
			t.Errorf("Unit(0,0) = %v; want (0,0)", got)
		}
	})

	t.Run("BelowEpsilon", func(t *testing.T) {
		v := Vector2D{Epsilon / 10, 0}
		if !v.IsDegenerate() {
			t.Errorf("%v should be degenerate", v)
		}
		if _, err := v.Unit(); !errors.Is(err, ErrDegenerateVector) {
			t.Errorf("Unit(%v) error = %v; want ErrDegenerateVector", v, err)
		}
	})

	t.Run("RandomHeadingsHaveUnitLength", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 11))
		for i := 0; i < 1000; i++ {
			h := Vector2D{rng.Float64()*2 - 1, rng.Float64()*2 - 1}
			if h.IsDegenerate() {
				continue
			}
			u, err := h.Unit()
			if err != nil {
				t.Fatalf("Unit(%v) returned error %v", h, err)
			}
			if math.Abs(u.Len()-1) > 1e-6 {
				t.Fatalf("|Unit(%v)| = %v; want 1", h, u.Len())
			}
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5} // dx=3, dy=4, dist=5

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}
}

func TestVector_Angles(t *testing.T) {
	t.Run("Angle", func(t *testing.T) {
		tests := []struct {
			v    Vector2D
			want float64
		}{
			{Vector2D{1, 0}, 0},
			{Vector2D{0, 1}, math.Pi / 2},
			{Vector2D{-1, 0}, math.Pi},
			{Vector2D{0, -1}, -math.Pi / 2},
		}
		for _, tt := range tests {
			if got := tt.v.Angle(); !floatEquals(got, tt.want) {
				t.Errorf("%v.Angle() = %v; want %v", tt.v, got, tt.want)
			}
		}
	})

	t.Run("HeadingAngle", func(t *testing.T) {
		tests := []struct {
			v    Vector2D
			want float64
		}{
			{Vector2D{0, 1}, 0},
			{Vector2D{-1, 0}, math.Pi / 2},
			{Vector2D{1, 0}, -math.Pi / 2},
			{Vector2D{-5, 5}, math.Pi / 4},
		}
		for _, tt := range tests {
			if got := tt.v.HeadingAngle(); !floatEquals(got, tt.want) {
				t.Errorf("%v.HeadingAngle() = %v; want %v", tt.v, got, tt.want)
			}
		}
	})

	t.Run("HeadingAngleIsDeterministic", func(t *testing.T) {
		h := Vector2D{0.3, -0.7}
		if a, b := h.HeadingAngle(), h.HeadingAngle(); a != b {
			t.Errorf("HeadingAngle not deterministic: %v != %v", a, b)
		}
	})

	t.Run("HeadingAngleTurnsUpToHeading", func(t *testing.T) {
		// Rotating the +Y axis by HeadingAngle must point along the heading.
		for _, h := range []Vector2D{{1, 0}, {0.5, 0.5}, {-0.2, -0.9}, {0, 1}} {
			got := Vector2D{0, 1}.Rotate(h.HeadingAngle())
			if want := h.Normalize(); !got.Eq(want) {
				t.Errorf("Rotate(up, HeadingAngle(%v)) = %v; want %v", h, got, want)
			}
		}
	})
}

func TestVector_Rotate(t *testing.T) {
	v := Vector2D{1, 0}
	got := v.Rotate(math.Pi / 2)
	want := Vector2D{0, 1}
	if !got.Eq(want) {
		t.Errorf("Rotate(90) = %v; want %v", got, want)
	}
}

func TestVector_IsFinite(t *testing.T) {
	if !(Vector2D{1, -2}).IsFinite() {
		t.Error("(1,-2) should be finite")
	}
	if (Vector2D{math.NaN(), 0}).IsFinite() {
		t.Error("(NaN,0) should not be finite")
	}
	if (Vector2D{0, math.Inf(-1)}).IsFinite() {
		t.Error("(0,-Inf) should not be finite")
	}
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}

	// Exact match
	if !v.Eq(Vector2D{1, 2}) {
		t.Error("Eq exact match failed")
	}

	// Epsilon match
	vClose := Vector2D{1 + Epsilon/2, 2 - Epsilon/2}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}

	// No match
	vDiff := Vector2D{1.1, 2}
	if v.Eq(vDiff) {
		t.Error("Eq mismatch failed")
	}
}
