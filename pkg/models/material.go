package models

import (
	"fmt"

	"github.com/taigrr/facet/pkg/math3d"
)

// Material describes the Blinn-Phong surface response. Color channels
// live in [0,1] linear space; they are packed to 8 bits only at
// framebuffer write time.
type Material struct {
	Name      string
	Diffuse   math3d.Vec3 // Base color, per-channel [0,1]
	Specular  math3d.Vec3 // Highlight color, per-channel [0,1]
	Shininess float64     // Specular exponent, [1,128]
	Ambient   float64     // Ambient coefficient, [0,1]
}

// DefaultMaterial returns a matte white surface with a soft highlight.
func DefaultMaterial() Material {
	return Material{
		Name:      "default",
		Diffuse:   math3d.V3(1, 1, 1),
		Specular:  math3d.V3(0.3, 0.3, 0.3),
		Shininess: 32,
		Ambient:   0.1,
	}
}

// NewMaterial returns a material with the given diffuse color and the
// default highlight parameters.
func NewMaterial(name string, diffuse math3d.Vec3) Material {
	m := DefaultMaterial()
	m.Name = name
	m.Diffuse = diffuse
	return m
}

// Validate rejects out-of-range shading parameters at construction
// time; the shading loop assumes validated inputs.
func (m Material) Validate() error {
	for _, ch := range [6]float64{m.Diffuse.X, m.Diffuse.Y, m.Diffuse.Z, m.Specular.X, m.Specular.Y, m.Specular.Z} {
		if ch < 0 || ch > 1 {
			return fmt.Errorf("material %q: color channel %g outside [0,1]", m.Name, ch)
		}
	}
	if m.Shininess < 1 || m.Shininess > 128 {
		return fmt.Errorf("material %q: shininess %g outside [1,128]", m.Name, m.Shininess)
	}
	if m.Ambient < 0 || m.Ambient > 1 {
		return fmt.Errorf("material %q: ambient %g outside [0,1]", m.Name, m.Ambient)
	}
	return nil
}
