package render

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Vertex carries the world-space attributes interpolated across a
// triangle.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Triangle is one world-space triangle submitted for rasterization.
type Triangle struct {
	V        [3]Vertex
	Material models.Material
}

// screenVertex is a vertex after projection to screen space.
type screenVertex struct {
	X, Y, Z float64 // screen x, y and NDC depth
	W       float64 // clip-space w (camera distance)
}

// FrameStats counts per-frame pipeline work for debugging and
// benchmarking. Reset once per frame with ResetStats.
type FrameStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int

	TrianglesSubmitted  int
	TrianglesNearCulled int
	TrianglesBackCulled int
	TrianglesFilled     int
	FragmentsShaded     int
}

// Rasterizer fills triangles into a framebuffer with depth testing and
// per-fragment Blinn-Phong shading. It is single-threaded; one
// rasterizer drives one framebuffer.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // row-major, same layout as fb.Pixels

	frustum      Frustum
	frustumDirty bool

	Lights []Light

	// DisableBackfaceCulling renders both sides of every triangle.
	DisableBackfaceCulling bool

	Stats FrameStats
}

// NewRasterizer creates a rasterizer for the given camera and
// framebuffer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer dimensions.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth resets the depth buffer to far (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Copy-doubling clears faster than an element loop.
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ResetStats zeroes the per-frame counters.
func (r *Rasterizer) ResetStats() {
	r.Stats = FrameStats{}
}

// InvalidateFrustum marks the cached frustum stale. Call after the
// camera moves or its projection changes.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

func (r *Rasterizer) updateFrustum() {
	if r.frustumDirty {
		r.frustum = ExtractFrustum(r.camera.ViewProjectionMatrix())
		r.frustumDirty = false
	}
}

// IsVisible tests a world-space AABB against the view frustum.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	r.updateFrustum()
	return r.frustum.Intersects(worldBounds)
}

// DepthAt returns the depth buffer value at (x, y), or +Inf-like far
// when out of bounds. Exposed for tests and picking.
func (r *Rasterizer) DepthAt(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// edgeCoeffs returns A, B, C for the edge function
// edge(x,y) = A*x + B*y + C of the directed edge (x0,y0)->(x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// degenerateArea is the screen-space area (times two) below which a
// triangle is too thin to produce stable barycentric weights.
const degenerateArea = 1e-9

// DrawTriangle rasterizes one world-space triangle with depth testing
// and per-fragment shading under r.Lights.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	r.Stats.TrianglesSubmitted++

	viewProj := r.camera.ViewProjectionMatrix()
	width := float64(r.Width())
	height := float64(r.Height())

	// Project to screen space. Triangles touching or crossing the near
	// plane are rejected whole rather than clipped; the geometric loss
	// is a sliver at the screen edge.
	var sv [3]screenVertex
	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if clip.W <= r.camera.Near {
			r.Stats.TrianglesNearCulled++
			return
		}
		invW := 1.0 / clip.W
		sv[i].X = (clip.X*invW + 1) * 0.5 * width
		sv[i].Y = (1 - clip.Y*invW) * 0.5 * height // Y is flipped
		sv[i].Z = clip.Z * invW
		sv[i].W = clip.W
	}

	// Signed area in screen space. The viewport Y flip mirrors the
	// winding, so triangles that are counter-clockwise in world space
	// come out negative here. Positive or near-zero means backfacing
	// or edge-on.
	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 >= -degenerateArea {
		if !r.DisableBackfaceCulling {
			r.Stats.TrianglesBackCulled++
			return
		}
		if math.Abs(area2) < degenerateArea {
			return
		}
	}

	// Bounding box clamped to the screen.
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(width-1, math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(height-1, math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	// Each edge function shares area2's sign inside the triangle.
	// Normalize so inside is always w >= 0 and the barycentric divisor
	// is positive.
	if area2 < 0 {
		A0, B0, C0 = -A0, -B0, -C0
		A1, B1, C1 = -A1, -B1, -C1
		A2, B2, C2 = -A2, -B2, -C2
		area2 = -area2
	}
	invArea := 1.0 / area2

	var invW [3]float64
	for i := range 3 {
		invW[i] = 1.0 / sv[i].W
	}

	camPos := r.camera.Position

	// Sample at pixel centers; incremental edge stepping across the
	// bounding box.
	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	fbWidth := r.Width()
	zbuffer := r.zbuffer
	fb := r.fb
	filled := false

	for y := minY; y <= maxY; y++ {
		w0 := w0Row
		w1 := w1Row
		w2 := w2Row
		rowOffset := y * fbWidth

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0 := w0 * invArea
				bc1 := w1 * invArea
				bc2 := w2 * invArea

				// NDC depth is affine in screen space, so plain
				// barycentric interpolation is exact for it.
				z := bc0*sv[0].Z + bc1*sv[1].Z + bc2*sv[2].Z

				idx := rowOffset + x
				if z < zbuffer[idx] {
					// World-space attributes need perspective-correct
					// weights.
					pw0 := bc0 * invW[0]
					pw1 := bc1 * invW[1]
					pw2 := bc2 * invW[2]
					oneOverW := pw0 + pw1 + pw2
					if oneOverW != 0 {
						k := 1.0 / oneOverW
						pw0 *= k
						pw1 *= k
						pw2 *= k

						pos := tri.V[0].Position.Scale(pw0).
							Add(tri.V[1].Position.Scale(pw1)).
							Add(tri.V[2].Position.Scale(pw2))
						normal := tri.V[0].Normal.Scale(pw0).
							Add(tri.V[1].Normal.Scale(pw1)).
							Add(tri.V[2].Normal.Scale(pw2)).
							Normalize()
						viewDir := camPos.Sub(pos).Normalize()

						c := Shade(pos, normal, viewDir, tri.Material, r.Lights)

						zbuffer[idx] = z
						fb.SetPixel(x, y, PackColor(c))
						r.Stats.FragmentsShaded++
						filled = true
					}
				}
			}

			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}

	if filled {
		r.Stats.TrianglesFilled++
	}
}

// DrawMesh renders a mesh under the given model transform. Smooth
// vertex normals are used when the mesh carries them, otherwise each
// face is shaded flat with its face normal.
func (r *Rasterizer) DrawMesh(mesh *models.Mesh, transform math3d.Mat4) {
	r.DrawMeshOverride(mesh, transform, nil)
}

// DrawMeshOverride is DrawMesh with an optional material replacing
// every face material of the mesh.
func (r *Rasterizer) DrawMeshOverride(mesh *models.Mesh, transform math3d.Mat4, override *models.Material) {
	r.Stats.MeshesTested++
	if len(mesh.Vertices) > 0 {
		bounds := TransformAABB(AABB{Min: mesh.BoundsMin, Max: mesh.BoundsMax}, transform)
		if !r.IsVisible(bounds) {
			r.Stats.MeshesCulled++
			return
		}
	}
	r.Stats.MeshesDrawn++

	smooth := len(mesh.VertexNormals) == len(mesh.Vertices) && len(mesh.VertexNormals) > 0

	for i := range mesh.Faces {
		face := mesh.Faces[i]
		a, b, c := mesh.FaceVertices(i)

		var n0, n1, n2 math3d.Vec3
		if smooth {
			n0 = mesh.VertexNormals[face.V[0]]
			n1 = mesh.VertexNormals[face.V[1]]
			n2 = mesh.VertexNormals[face.V[2]]
		} else {
			n := models.FaceNormal(a, b, c)
			n0, n1, n2 = n, n, n
		}

		mat := mesh.FaceMaterial(i)
		if override != nil {
			mat = *override
		}

		tri := Triangle{
			V: [3]Vertex{
				{Position: transform.MulVec3(a), Normal: transform.MulVec3Dir(n0).Normalize()},
				{Position: transform.MulVec3(b), Normal: transform.MulVec3Dir(n1).Normalize()},
				{Position: transform.MulVec3(c), Normal: transform.MulVec3Dir(n2).Normalize()},
			},
			Material: mat,
		}
		r.DrawTriangle(tri)
	}
}
