package render

import (
	"fmt"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Object places a mesh in the world with translation, Euler rotation
// and per-axis scale.
type Object struct {
	Name     string
	Mesh     *models.Mesh
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles in radians, applied Z then Y then X
	Scale    math3d.Vec3

	// Spin is an angular velocity in radians per second, applied by
	// Update for self-animating objects.
	Spin math3d.Vec3

	// Material, when non-nil, overrides every face material of the
	// mesh for this object.
	Material *models.Material
}

// NewObject creates an object at the origin with unit scale.
func NewObject(name string, mesh *models.Mesh) *Object {
	return &Object{
		Name:  name,
		Mesh:  mesh,
		Scale: math3d.V3(1, 1, 1),
	}
}

// ModelMatrix composes the local-to-world transform: scale, then
// rotation, then translation.
func (o *Object) ModelMatrix() math3d.Mat4 {
	return math3d.Translate(o.Position).
		Mul(math3d.RotateZ(o.Rotation.Z)).
		Mul(math3d.RotateY(o.Rotation.Y)).
		Mul(math3d.RotateX(o.Rotation.X)).
		Mul(math3d.Scale(o.Scale))
}

// Update advances the object's spin animation.
func (o *Object) Update(dt float64) {
	o.Rotation = o.Rotation.Add(o.Spin.Scale(dt))
}

// Scene owns the objects, lights and camera for one rendered world.
type Scene struct {
	Objects []*Object
	Lights  []Light
	Camera  *Camera
}

// NewScene creates an empty scene with a default camera.
func NewScene() *Scene {
	return &Scene{
		Camera: NewCamera(),
	}
}

// AddObject validates the object's mesh and adds it to the scene.
func (s *Scene) AddObject(o *Object) error {
	if o.Mesh == nil {
		return fmt.Errorf("object %q: nil mesh", o.Name)
	}
	if err := o.Mesh.Validate(); err != nil {
		return fmt.Errorf("object %q: %w", o.Name, err)
	}
	if o.Material != nil {
		if err := o.Material.Validate(); err != nil {
			return fmt.Errorf("object %q: %w", o.Name, err)
		}
	}
	s.Objects = append(s.Objects, o)
	return nil
}

// AddLight validates and adds a light.
func (s *Scene) AddLight(l Light) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.Lights = append(s.Lights, l)
	return nil
}

// Update advances all object animations by dt seconds.
func (s *Scene) Update(dt float64) {
	for _, o := range s.Objects {
		o.Update(dt)
	}
}

// Render draws the scene into the rasterizer's framebuffer. The depth
// buffer is cleared here; the caller clears the framebuffer to its
// background color. Objects may be drawn in any order, the depth test
// makes the result order-independent.
func (s *Scene) Render(r *Rasterizer) {
	r.ClearDepth()
	r.ResetStats()
	r.InvalidateFrustum()
	r.Lights = s.Lights

	for _, o := range s.Objects {
		r.DrawMeshOverride(o.Mesh, o.ModelMatrix(), o.Material)
	}
}
