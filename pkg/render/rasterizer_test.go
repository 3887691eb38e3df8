package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// testRig bundles a camera at (0,0,5) looking down -Z at the origin
// with a square framebuffer, the setup most tests project into.
func testRig(size int) (*Camera, *Framebuffer, *Rasterizer) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.SetAspectRatio(1)
	cam.SetClipPlanes(0.1, 100)

	fb := NewFramebuffer(size, size)
	fb.Clear(ColorBlack)

	r := NewRasterizer(cam, fb)
	r.ClearDepth()
	return cam, fb, r
}

// frontTriangle is counter-clockwise as seen from +Z, so it faces the
// test rig camera.
func frontTriangle(mat models.Material) Triangle {
	return Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-1, -1, 0), Normal: math3d.V3(0, 0, 1)},
			{Position: math3d.V3(1, -1, 0), Normal: math3d.V3(0, 0, 1)},
			{Position: math3d.V3(0, 1, 0), Normal: math3d.V3(0, 0, 1)},
		},
		Material: mat,
	}
}

func reverseWinding(t Triangle) Triangle {
	t.V[1], t.V[2] = t.V[2], t.V[1]
	return t
}

func countLit(fb *Framebuffer) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != ColorBlack {
			n++
		}
	}
	return n
}

func TestBackfaceClassification(t *testing.T) {
	mat := models.DefaultMaterial()

	_, fb, r := testRig(64)
	r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}
	r.DrawTriangle(frontTriangle(mat))
	if countLit(fb) == 0 {
		t.Fatal("front-facing triangle produced no pixels")
	}
	if r.Stats.TrianglesFilled != 1 || r.Stats.TrianglesBackCulled != 0 {
		t.Errorf("stats = %+v, want 1 filled, 0 culled", r.Stats)
	}

	_, fb, r = testRig(64)
	r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}
	r.DrawTriangle(reverseWinding(frontTriangle(mat)))
	if n := countLit(fb); n != 0 {
		t.Errorf("back-facing triangle produced %d pixels, want 0", n)
	}
	if r.Stats.TrianglesBackCulled != 1 {
		t.Errorf("stats = %+v, want 1 back-culled", r.Stats)
	}

	// With culling disabled the reversed triangle renders.
	_, fb, r = testRig(64)
	r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}
	r.DisableBackfaceCulling = true
	r.DrawTriangle(reverseWinding(frontTriangle(mat)))
	if countLit(fb) == 0 {
		t.Error("culling disabled but back-facing triangle produced no pixels")
	}
}

func TestBarycentricInsideOutside(t *testing.T) {
	_, fb, r := testRig(100)
	r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}
	r.DrawTriangle(frontTriangle(models.DefaultMaterial()))

	// The triangle spans [-1,1]^2 at z=0 viewed from z=5, so its
	// centroid projects near the middle of the screen.
	if fb.GetPixel(50, 53) == ColorBlack {
		t.Error("pixel near projected centroid not filled")
	}

	// Screen corners are well outside the projected triangle.
	for _, p := range [][2]int{{2, 2}, {97, 2}, {2, 97}, {97, 97}} {
		if fb.GetPixel(p[0], p[1]) != ColorBlack {
			t.Errorf("pixel (%d,%d) outside the triangle was filled", p[0], p[1])
		}
	}
}

func TestDegenerateTriangleRejected(t *testing.T) {
	_, fb, r := testRig(64)
	tri := Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-1, 0, 0), Normal: math3d.V3(0, 0, 1)},
			{Position: math3d.V3(0, 0, 0), Normal: math3d.V3(0, 0, 1)},
			{Position: math3d.V3(1, 0, 0), Normal: math3d.V3(0, 0, 1)},
		},
		Material: models.DefaultMaterial(),
	}
	r.DisableBackfaceCulling = true
	r.DrawTriangle(tri)
	if n := countLit(fb); n != 0 {
		t.Errorf("collinear triangle produced %d pixels", n)
	}
}

func TestNearPlaneReject(t *testing.T) {
	_, fb, r := testRig(64)
	// Entirely behind the camera.
	tri := frontTriangle(models.DefaultMaterial())
	for i := range tri.V {
		tri.V[i].Position.Z += 20
	}
	r.DrawTriangle(tri)
	if n := countLit(fb); n != 0 {
		t.Errorf("behind-camera triangle produced %d pixels", n)
	}
	if r.Stats.TrianglesNearCulled != 1 {
		t.Errorf("stats = %+v, want 1 near-culled", r.Stats)
	}
}

func TestDepthOrderIndependence(t *testing.T) {
	red := models.NewMaterial("red", math3d.V3(1, 0, 0))
	blue := models.NewMaterial("blue", math3d.V3(0, 0, 1))

	near := frontTriangle(red) // z=0
	far := frontTriangle(blue) // z=-2, farther from the camera at z=5
	for i := range far.V {
		far.V[i].Position.Z = -2
	}

	render := func(first, second Triangle) (*Framebuffer, *Rasterizer) {
		_, fb, r := testRig(64)
		r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}
		r.DrawTriangle(first)
		r.DrawTriangle(second)
		return fb, r
	}

	fbA, rA := render(near, far)
	fbB, rB := render(far, near)

	for i := range fbA.Pixels {
		if fbA.Pixels[i] != fbB.Pixels[i] {
			t.Fatalf("pixel %d differs across draw orders: %v vs %v", i, fbA.Pixels[i], fbB.Pixels[i])
		}
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if da, db := rA.DepthAt(x, y), rB.DepthAt(x, y); da != db {
				t.Fatalf("depth at (%d,%d) differs across draw orders: %v vs %v", x, y, da, db)
			}
		}
	}

	// Where the triangles overlap the nearer red one must win.
	center := fbA.GetPixel(32, 34)
	if center.R <= center.B {
		t.Errorf("overlap pixel = %v, want the nearer red triangle on top", center)
	}
}

func TestFullyLitTriangleIsWhite(t *testing.T) {
	_, fb, r := testRig(64)
	// Light shining straight at the surface, camera straight on: the
	// diffuse term saturates and clamps to pure white.
	r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}
	mat := models.DefaultMaterial()
	r.DrawTriangle(frontTriangle(mat))

	got := fb.GetPixel(32, 34)
	if got != ColorWhite {
		t.Errorf("center pixel = %v, want white", got)
	}
}

func TestUnlitSceneShowsAmbientOnly(t *testing.T) {
	_, fb, r := testRig(64)
	mat := models.DefaultMaterial() // ambient 0.1
	r.DrawTriangle(frontTriangle(mat))

	got := fb.GetPixel(32, 34)
	want := PackColor(mat.Diffuse.Scale(mat.Ambient))
	if got != want {
		t.Errorf("center pixel = %v, want ambient-only %v", got, want)
	}
}

func TestDrawMeshCullsCubeBackfaces(t *testing.T) {
	_, _, r := testRig(64)
	r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}

	cube := models.NewCube(2, models.DefaultMaterial())
	// Flat shading so each face keeps its own normal.
	cube.VertexNormals = nil
	r.DrawMesh(cube, math3d.Identity())

	// Viewed straight on only the +Z face's two triangles are front
	// facing; the other ten are back-culled.
	if r.Stats.TrianglesSubmitted != 12 {
		t.Fatalf("TrianglesSubmitted = %d, want 12", r.Stats.TrianglesSubmitted)
	}
	if r.Stats.TrianglesBackCulled != 10 {
		t.Errorf("TrianglesBackCulled = %d, want 10", r.Stats.TrianglesBackCulled)
	}
	if r.Stats.TrianglesFilled != 2 {
		t.Errorf("TrianglesFilled = %d, want 2", r.Stats.TrianglesFilled)
	}
}

func TestDrawMeshFrustumCullsOffscreen(t *testing.T) {
	_, _, r := testRig(64)
	cube := models.NewCube(2, models.DefaultMaterial())

	// Far off to the side, outside the frustum entirely.
	r.DrawMesh(cube, math3d.Translate(math3d.V3(500, 0, 0)))
	if r.Stats.MeshesCulled != 1 {
		t.Errorf("MeshesCulled = %d, want 1", r.Stats.MeshesCulled)
	}
	if r.Stats.TrianglesSubmitted != 0 {
		t.Errorf("TrianglesSubmitted = %d, want 0 for a culled mesh", r.Stats.TrianglesSubmitted)
	}
}

func TestSceneRenderOrderIndependent(t *testing.T) {
	red := models.NewCube(2, models.NewMaterial("red", math3d.V3(1, 0, 0)))
	blue := models.NewCube(2, models.NewMaterial("blue", math3d.V3(0, 0, 1)))

	build := func(reversed bool) *Framebuffer {
		scene := NewScene()
		scene.Camera.SetPosition(math3d.V3(0, 0, 6))
		scene.Camera.SetAspectRatio(1)
		if err := scene.AddLight(NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 0.8)); err != nil {
			t.Fatal(err)
		}

		a := NewObject("red", red)
		b := NewObject("blue", blue)
		b.Position = math3d.V3(0.5, 0, -3)
		objs := []*Object{a, b}
		if reversed {
			objs = []*Object{b, a}
		}
		for _, o := range objs {
			if err := scene.AddObject(o); err != nil {
				t.Fatal(err)
			}
		}

		fb := NewFramebuffer(64, 64)
		fb.Clear(ColorBlack)
		r := NewRasterizer(scene.Camera, fb)
		r.ClearDepth()
		scene.Render(r)
		return fb
	}

	fbA := build(false)
	fbB := build(true)
	for i := range fbA.Pixels {
		if fbA.Pixels[i] != fbB.Pixels[i] {
			t.Fatalf("pixel %d differs with object order: %v vs %v", i, fbA.Pixels[i], fbB.Pixels[i])
		}
	}
}

func TestObjectMaterialOverride(t *testing.T) {
	cube := models.NewCube(2, models.NewMaterial("white", math3d.V3(1, 1, 1)))

	scene := NewScene()
	scene.Camera.SetPosition(math3d.V3(0, 0, 6))
	scene.Camera.SetAspectRatio(1)
	if err := scene.AddLight(NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)); err != nil {
		t.Fatal(err)
	}

	obj := NewObject("tinted", cube)
	red := models.NewMaterial("red", math3d.V3(1, 0, 0))
	red.Specular = math3d.Zero3() // keep the highlight from tinting G and B
	obj.Material = &red
	if err := scene.AddObject(obj); err != nil {
		t.Fatal(err)
	}

	fb := NewFramebuffer(64, 64)
	fb.Clear(ColorBlack)
	r := NewRasterizer(scene.Camera, fb)
	scene.Render(r)

	center := fb.GetPixel(32, 32)
	if center.R == 0 || center.G != 0 || center.B != 0 {
		t.Errorf("override pixel = %v, want pure red despite a white mesh", center)
	}

	// An invalid override is rejected at scene build.
	bad := models.NewMaterial("bad", math3d.V3(2, 0, 0))
	obj2 := NewObject("broken", cube)
	obj2.Material = &bad
	if err := scene.AddObject(obj2); err == nil {
		t.Error("invalid material override accepted")
	}
}

func TestClearDepthResetsToFar(t *testing.T) {
	_, _, r := testRig(32)
	r.Lights = []Light{NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1)}
	r.DrawTriangle(frontTriangle(models.DefaultMaterial()))
	if r.DepthAt(16, 17) == math.MaxFloat64 {
		t.Fatal("depth untouched after draw")
	}
	r.ClearDepth()
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if r.DepthAt(x, y) != math.MaxFloat64 {
				t.Fatalf("depth at (%d,%d) not reset", x, y)
			}
		}
	}
}

func BenchmarkDrawCube(b *testing.B) {
	_, fb, r := testRig(128)
	r.Lights = []Light{
		NewDirectionalLight(math3d.V3(-0.5, -1, -0.5), math3d.V3(1, 0.9, 0.8), 0.8),
		NewPointLight(math3d.V3(0, 4, 2), math3d.V3(1, 0.5, 0.2), 2, 10),
	}
	cube := models.NewCube(2, models.DefaultMaterial())
	transform := math3d.RotateY(0.7)

	for b.Loop() {
		fb.Clear(ColorBlack)
		r.ClearDepth()
		r.DrawMesh(cube, transform)
	}
}
