package fxmath

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSaturate(t *testing.T) {
	tests := []struct {
		name string
		x    float32
		want float32
	}{
		{"below range", -0.5, 0},
		{"zero", 0, 0},
		{"inside", 0.25, 0.25},
		{"one", 1, 1},
		{"above range", 3.7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Saturate(tt.x); got != tt.want {
				t.Errorf("Saturate(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name             string
		edge0, edge1, x  float32
		want             float32
	}{
		{"below edge0", 0, 1, -1, 0},
		{"at edge0", 0, 1, 0, 0},
		{"midpoint", 0, 1, 0.5, 0.5},
		{"at edge1", 0, 1, 1, 1},
		{"above edge1", 0, 1, 2, 1},
		{"shifted midpoint", 2, 4, 3, 0.5},
		{"descending edges invert", 1, 0, 0.75, 0.15625},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Smoothstep(tt.edge0, tt.edge1, tt.x)
			if math32.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Smoothstep(%v, %v, %v) = %v, want %v",
					tt.edge0, tt.edge1, tt.x, got, tt.want)
			}
		})
	}
}

func TestSmoothstepMonotone(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 100; i++ {
		x := float32(i) / 100
		y := Smoothstep(0, 1, x)
		if y < prev {
			t.Fatalf("Smoothstep not monotone at x=%v: %v < %v", x, y, prev)
		}
		prev = y
	}
}

func TestHash12Deterministic(t *testing.T) {
	for _, p := range [][2]float32{{0, 0}, {0.5, 0.5}, {123.4, -567.8}, {1e4, 1e-4}} {
		a := Hash12(p[0], p[1])
		b := Hash12(p[0], p[1])
		if a != b {
			t.Errorf("Hash12(%v, %v) not deterministic: %v != %v", p[0], p[1], a, b)
		}
		if a < 0 || a >= 1 {
			t.Errorf("Hash12(%v, %v) = %v, outside [0, 1)", p[0], p[1], a)
		}
	}
}

func TestHash22Range(t *testing.T) {
	for i := 0; i < 64; i++ {
		x, y := float32(i)*0.37, float32(i)*1.91
		u, v := Hash22(x, y)
		if u < 0 || u >= 1 || v < 0 || v >= 1 {
			t.Errorf("Hash22(%v, %v) = (%v, %v), outside [0, 1)²", x, y, u, v)
		}
	}
}

func TestNoise3Deterministic(t *testing.T) {
	points := [][3]float32{
		{0, 0, 0},
		{1.5, 2.5, 3.5},
		{-7.25, 0.125, 42},
		{0.02, 0.04, 17.5},
	}
	for _, p := range points {
		a := Noise3(p[0], p[1], p[2])
		b := Noise3(p[0], p[1], p[2])
		if a != b {
			t.Errorf("Noise3(%v) not deterministic: %v != %v", p, a, b)
		}
		if a < -1.001 || a > 1.001 {
			t.Errorf("Noise3(%v) = %v, outside [-1, 1]", p, a)
		}
	}
}

func TestNoise3Continuity(t *testing.T) {
	// Adjacent samples along a line must not jump: the field is C1 and a
	// step of 0.01 should never move the value by more than a small bound.
	const step = 0.01
	prev := Noise3(0.5, 0.7, 0.9)
	for i := 1; i <= 200; i++ {
		x := 0.5 + float32(i)*step
		cur := Noise3(x, 0.7, 0.9)
		if math32.Abs(cur-prev) > 0.15 {
			t.Fatalf("Noise3 discontinuity at x=%v: |%v - %v| too large", x, cur, prev)
		}
		prev = cur
	}
}

func TestFract(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{1.25, 0.25},
		{-0.25, 0.75},
		{0, 0},
		{3, 0},
	}
	for _, tt := range tests {
		if got := Fract(tt.x); math32.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Fract(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
