package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

func testFrustum() Frustum {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, 10))
	c.SetAspectRatio(1)
	c.SetClipPlanes(0.1, 100)
	return ExtractFrustum(c.ViewProjectionMatrix())
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"straight ahead", math3d.V3(0, 0, 0), true},
		{"near the camera", math3d.V3(0, 0, 9), true},
		{"behind the camera", math3d.V3(0, 0, 12), false},
		{"beyond far plane", math3d.V3(0, 0, -95), false},
		{"far off to the side", math3d.V3(100, 0, 0), false},
		{"far above", math3d.V3(0, 100, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.point); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"centered", AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}, true},
		{"straddles left edge", AABB{Min: math3d.V3(-10, -1, -1), Max: math3d.V3(-5, 1, 1)}, true},
		{"fully off left", AABB{Min: math3d.V3(-100, -1, -1), Max: math3d.V3(-90, 1, 1)}, false},
		{"behind camera", AABB{Min: math3d.V3(-1, -1, 15), Max: math3d.V3(1, 1, 20)}, false},
		{"surrounds frustum", AABB{Min: math3d.V3(-200, -200, -200), Max: math3d.V3(200, 200, 200)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Intersects(tt.box); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.box, got, tt.want)
			}
		})
	}
}

func TestTransformAABB(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	moved := TransformAABB(box, math3d.Translate(math3d.V3(5, 0, 0)))
	if moved.Min.X != 4 || moved.Max.X != 6 {
		t.Errorf("translated box = %v", moved)
	}

	// A 45 degree rotation around Y grows the XZ extent to sqrt(2).
	rotated := TransformAABB(box, math3d.RotateY(math.Pi/4))
	want := math.Sqrt2
	if math.Abs(rotated.Max.X-want) > 1e-9 || math.Abs(rotated.Min.X+want) > 1e-9 {
		t.Errorf("rotated box = %v, want +-sqrt(2) in X", rotated)
	}
	if math.Abs(rotated.Max.Y-1) > 1e-9 {
		t.Errorf("rotation around Y changed the Y extent: %v", rotated)
	}

	scaled := TransformAABB(box, math3d.Scale(math3d.V3(2, 3, 4)))
	if scaled.Max != math3d.V3(2, 3, 4) || scaled.Min != math3d.V3(-2, -3, -4) {
		t.Errorf("scaled box = %v", scaled)
	}
}

func TestPlaneDistance(t *testing.T) {
	// The plane y = 2 with an upward normal.
	p := Plane{Normal: math3d.V3(0, 1, 0), D: -2}

	if got := p.DistanceToPoint(math3d.V3(0, 5, 0)); got != 3 {
		t.Errorf("distance above = %v, want 3", got)
	}
	if got := p.DistanceToPoint(math3d.V3(0, 0, 0)); got != -2 {
		t.Errorf("distance below = %v, want -2", got)
	}

	// Normalization preserves the zero set.
	q := Plane{Normal: math3d.V3(0, 10, 0), D: -20}
	q.Normalize()
	if got := q.DistanceToPoint(math3d.V3(7, 2, -3)); math.Abs(got) > 1e-12 {
		t.Errorf("point on plane after normalize: distance %v", got)
	}
	if math.Abs(q.Normal.Len()-1) > 1e-12 {
		t.Errorf("normal length after normalize = %v", q.Normal.Len())
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := AABB{Min: math3d.V3(0, 0, 0), Max: math3d.V3(2, 2, 2)}
	if !box.ContainsPoint(math3d.V3(1, 1, 1)) {
		t.Error("interior point reported outside")
	}
	if !box.ContainsPoint(math3d.V3(0, 0, 0)) {
		t.Error("boundary point reported outside")
	}
	if box.ContainsPoint(math3d.V3(3, 1, 1)) {
		t.Error("exterior point reported inside")
	}
}
