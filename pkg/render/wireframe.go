package render

import (
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Wireframe draws edges and debug markers directly to the framebuffer,
// bypassing the depth buffer.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe renderer sharing a camera and
// framebuffer with the rasterizer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D projects and draws a world-space line segment. Segments
// with both endpoints off screen are skipped rather than clipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)

	if !vis1 && !vis2 {
		return
	}

	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawMesh draws every triangle edge of a mesh under the given model
// transform.
func (w *Wireframe) DrawMesh(mesh *models.Mesh, transform math3d.Mat4, color Color) {
	for i := range mesh.Faces {
		a, b, c := mesh.FaceVertices(i)
		wa := transform.MulVec3(a)
		wb := transform.MulVec3(b)
		wc := transform.MulVec3(c)
		w.DrawLine3D(wa, wb, color)
		w.DrawLine3D(wb, wc, color)
		w.DrawLine3D(wc, wa, color)
	}
}

// DrawAABB draws the 12 edges of an axis-aligned box.
func (w *Wireframe) DrawAABB(box AABB, color Color) {
	v := [8]math3d.Vec3{
		{X: box.Min.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Max.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Max.Z},
	}
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		w.DrawLine3D(v[e[0]], v[e[1]], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, color Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}

// DrawPoint draws a point as a small 3D cross, useful for marking
// light positions.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	half := size / 2
	w.DrawLine3D(math3d.V3(pos.X-half, pos.Y, pos.Z), math3d.V3(pos.X+half, pos.Y, pos.Z), color)
	w.DrawLine3D(math3d.V3(pos.X, pos.Y-half, pos.Z), math3d.V3(pos.X, pos.Y+half, pos.Z), color)
	w.DrawLine3D(math3d.V3(pos.X, pos.Y, pos.Z-half), math3d.V3(pos.X, pos.Y, pos.Z+half), color)
}
