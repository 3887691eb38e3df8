// Package models provides the immutable triangle geometry and
// materials consumed by the facet renderer.
package models

import (
	"fmt"

	"github.com/taigrr/facet/pkg/math3d"
)

// Face represents a triangle with vertex indices and a material
// reference. Vertices are ordered counter-clockwise when viewed from
// the outward-facing side; backface culling and normal computation
// both rely on this winding.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for none)
}

// Mesh represents indexed triangle geometry. Vertices and faces are
// built once at scene-construction time and treated as immutable for
// the rest of the run; normals and bounds are derived.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	Materials []Material

	// Derived data, filled in by ComputeNormals / ComputeSmoothNormals
	// and CalculateBounds.
	FaceNormals   []math3d.Vec3
	VertexNormals []math3d.Vec3
	BoundsMin     math3d.Vec3
	BoundsMax     math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(v math3d.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends a triangle. The indices must refer to existing
// vertices and the material index must be -1 or refer to an existing
// material; a violation is a construction error, there is no
// per-frame recovery from malformed geometry.
func (m *Mesh) AddFace(i0, i1, i2, material int) error {
	for _, idx := range [3]int{i0, i1, i2} {
		if idx < 0 || idx >= len(m.Vertices) {
			return fmt.Errorf("mesh %q: face index %d out of range [0, %d)", m.Name, idx, len(m.Vertices))
		}
	}
	if material != -1 && (material < 0 || material >= len(m.Materials)) {
		return fmt.Errorf("mesh %q: material index %d out of range [0, %d)", m.Name, material, len(m.Materials))
	}
	m.Faces = append(m.Faces, Face{V: [3]int{i0, i1, i2}, Material: material})
	return nil
}

// Validate checks every face index, every material reference, and
// every material's parameters. A mesh that fails validation must not
// be added to a scene.
func (m *Mesh) Validate() error {
	for fi, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("mesh %q: face %d index %d out of range [0, %d)", m.Name, fi, idx, len(m.Vertices))
			}
		}
		if f.Material != -1 && (f.Material < 0 || f.Material >= len(m.Materials)) {
			return fmt.Errorf("mesh %q: face %d material %d out of range [0, %d)", m.Name, fi, f.Material, len(m.Materials))
		}
	}
	for mi, mat := range m.Materials {
		if err := mat.Validate(); err != nil {
			return fmt.Errorf("mesh %q: material %d: %w", m.Name, mi, err)
		}
	}
	return nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceVertices returns the three corner positions of face i.
func (m *Mesh) FaceVertices(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i]
	return m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
}

// FaceMaterial returns the material for face i, falling back to the
// default material when the face carries none.
func (m *Mesh) FaceMaterial(i int) Material {
	mi := m.Faces[i].Material
	if mi < 0 || mi >= len(m.Materials) {
		return DefaultMaterial()
	}
	return m.Materials[mi]
}

// FaceNormal computes the outward normal of the triangle a,b,c under
// the counter-clockwise winding convention. Degenerate triangles
// yield the zero vector.
func FaceNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// ComputeNormals derives per-face normals from the winding.
func (m *Mesh) ComputeNormals() {
	m.FaceNormals = make([]math3d.Vec3, len(m.Faces))
	for i := range m.Faces {
		a, b, c := m.FaceVertices(i)
		m.FaceNormals[i] = FaceNormal(a, b, c)
	}
}

// ComputeSmoothNormals derives per-vertex normals as the area-weighted
// average of adjacent face normals. The unnormalized edge cross
// product carries the area weighting; zero-area faces contribute
// nothing instead of poisoning the average.
func (m *Mesh) ComputeSmoothNormals() {
	m.VertexNormals = make([]math3d.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		a := m.Vertices[f.V[0]]
		b := m.Vertices[f.V[1]]
		c := m.Vertices[f.V[2]]

		weighted := b.Sub(a).Cross(c.Sub(a))
		if weighted.IsZero() {
			continue
		}
		for _, vi := range f.V {
			m.VertexNormals[vi] = m.VertexNormals[vi].Add(weighted)
		}
	}
	for i := range m.VertexNormals {
		m.VertexNormals[i] = m.VertexNormals[i].Normalize()
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}
	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  append([]math3d.Vec3(nil), m.Vertices...),
		Faces:     append([]Face(nil), m.Faces...),
		Materials: append([]Material(nil), m.Materials...),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	clone.FaceNormals = append([]math3d.Vec3(nil), m.FaceNormals...)
	clone.VertexNormals = append([]math3d.Vec3(nil), m.VertexNormals...)
	return clone
}

// finish derives normals and bounds for a generator-built mesh.
func (m *Mesh) finish() *Mesh {
	m.ComputeNormals()
	m.ComputeSmoothNormals()
	m.CalculateBounds()
	return m
}

// NewTriangle creates a single-triangle mesh from three corners wound
// counter-clockwise; the face normal points toward the viewer that
// sees the corners in counter-clockwise order.
func NewTriangle(a, b, c math3d.Vec3, mat Material) *Mesh {
	m := NewMesh("triangle")
	m.Materials = []Material{mat}
	m.Vertices = []math3d.Vec3{a, b, c}
	m.Faces = []Face{{V: [3]int{0, 1, 2}, Material: 0}}
	return m.finish()
}

// NewCube creates an axis-aligned cube of the given edge length
// centered at the origin. All 12 triangles are wound counter-clockwise
// as viewed from outside, so exactly half of them face any outside
// viewer.
func NewCube(size float64, mat Material) *Mesh {
	h := size / 2
	m := NewMesh("cube")
	m.Materials = []Material{mat}
	m.Vertices = []math3d.Vec3{
		{X: -h, Y: -h, Z: h},  // 0: bottom-left-front
		{X: h, Y: -h, Z: h},   // 1: bottom-right-front
		{X: h, Y: h, Z: h},    // 2: top-right-front
		{X: -h, Y: h, Z: h},   // 3: top-left-front
		{X: -h, Y: -h, Z: -h}, // 4: bottom-left-back
		{X: h, Y: -h, Z: -h},  // 5: bottom-right-back
		{X: h, Y: h, Z: -h},   // 6: top-right-back
		{X: -h, Y: h, Z: -h},  // 7: top-left-back
	}
	faces := [][3]int{
		{0, 1, 2}, {2, 3, 0}, // front  (+Z)
		{5, 4, 7}, {7, 6, 5}, // back   (-Z)
		{4, 0, 3}, {3, 7, 4}, // left   (-X)
		{1, 5, 6}, {6, 2, 1}, // right  (+X)
		{3, 2, 6}, {6, 7, 3}, // top    (+Y)
		{4, 5, 1}, {1, 0, 4}, // bottom (-Y)
	}
	for _, f := range faces {
		m.Faces = append(m.Faces, Face{V: f, Material: 0})
	}
	return m.finish()
}

// NewPlane creates a square plane of the given edge length on the XZ
// plane at y=0, facing +Y.
func NewPlane(size float64, mat Material) *Mesh {
	h := size / 2
	m := NewMesh("plane")
	m.Materials = []Material{mat}
	m.Vertices = []math3d.Vec3{
		{X: -h, Y: 0, Z: -h},
		{X: -h, Y: 0, Z: h},
		{X: h, Y: 0, Z: h},
		{X: h, Y: 0, Z: -h},
	}
	m.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{2, 3, 0}, Material: 0},
	}
	return m.finish()
}
