package render

import (
	"image/color"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Shade evaluates the Blinn-Phong model at a surface point. normal and
// viewDir must be unit length; viewDir points from the surface toward
// the camera. The result is linear [0,1] color, clamped.
//
// Each light adds a diffuse term max(0, n·l) and a specular term
// max(0, n·h)^shininess where h is the half vector between the light
// and view directions. The ambient term is material.Ambient times the
// diffuse color, added once regardless of light count.
func Shade(point, normal, viewDir math3d.Vec3, mat models.Material, lights []Light) math3d.Vec3 {
	out := mat.Diffuse.Scale(mat.Ambient)

	for _, l := range lights {
		toLight, atten := l.contribution(point)
		if atten == 0 {
			continue
		}

		ndotl := normal.Dot(toLight)
		if ndotl <= 0 {
			// Surface faces away; no diffuse and no specular.
			continue
		}

		lit := l.Color.Scale(l.Intensity * atten)
		out = out.Add(mat.Diffuse.Mul(lit).Scale(ndotl))

		half := toLight.Add(viewDir).Normalize()
		if half.IsZero() {
			continue
		}
		ndoth := normal.Dot(half)
		if ndoth > 0 {
			spec := math.Pow(ndoth, mat.Shininess)
			out = out.Add(mat.Specular.Mul(lit).Scale(spec))
		}
	}

	return out.Clamp01()
}

// PackColor converts a linear [0,1] color to 8-bit RGBA with rounding.
// Out-of-range channels are clamped, so an overbright shading result
// saturates instead of wrapping.
func PackColor(c math3d.Vec3) color.RGBA {
	c = c.Clamp01()
	return color.RGBA{
		R: uint8(c.X*255 + 0.5),
		G: uint8(c.Y*255 + 0.5),
		B: uint8(c.Z*255 + 0.5),
		A: 255,
	}
}
