package render

import (
	"fmt"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// LightKind discriminates the light variants. Fields that a variant
// does not use are ignored by the shading loop.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	}
	return fmt.Sprintf("LightKind(%d)", int(k))
}

// Light is a single light source. Use the constructors; they normalize
// directions and fill in only the fields the variant reads.
type Light struct {
	Kind      LightKind
	Position  math3d.Vec3 // point, spot
	Direction math3d.Vec3 // directional, spot; unit length, points away from the source
	Color     math3d.Vec3 // per-channel [0,1]
	Intensity float64

	// Range is the cutoff distance for point and spot lights. Zero
	// means unlimited reach with distance attenuation only.
	Range float64

	// Spot cone half-angles in radians. Full intensity inside Inner,
	// falloff between Inner and Outer, dark outside Outer.
	InnerAngle float64
	OuterAngle float64
}

// NewDirectionalLight creates a light with parallel rays traveling
// along dir.
func NewDirectionalLight(dir, color math3d.Vec3, intensity float64) Light {
	return Light{
		Kind:      LightDirectional,
		Direction: dir.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

// NewPointLight creates an omnidirectional light at pos.
func NewPointLight(pos, color math3d.Vec3, intensity, lightRange float64) Light {
	return Light{
		Kind:      LightPoint,
		Position:  pos,
		Color:     color,
		Intensity: intensity,
		Range:     lightRange,
	}
}

// NewSpotLight creates a cone light at pos shining along dir.
func NewSpotLight(pos, dir, color math3d.Vec3, intensity, lightRange, inner, outer float64) Light {
	return Light{
		Kind:       LightSpot,
		Position:   pos,
		Direction:  dir.Normalize(),
		Color:      color,
		Intensity:  intensity,
		Range:      lightRange,
		InnerAngle: inner,
		OuterAngle: outer,
	}
}

// Validate rejects malformed light parameters.
func (l Light) Validate() error {
	if l.Intensity < 0 {
		return fmt.Errorf("%s light: negative intensity %g", l.Kind, l.Intensity)
	}
	for _, ch := range [3]float64{l.Color.X, l.Color.Y, l.Color.Z} {
		if ch < 0 || ch > 1 {
			return fmt.Errorf("%s light: color channel %g outside [0,1]", l.Kind, ch)
		}
	}
	switch l.Kind {
	case LightDirectional, LightSpot:
		if l.Direction.IsZero() {
			return fmt.Errorf("%s light: zero direction", l.Kind)
		}
	}
	if l.Kind == LightSpot {
		if l.InnerAngle < 0 || l.OuterAngle <= l.InnerAngle || l.OuterAngle > math.Pi {
			return fmt.Errorf("spot light: cone angles inner=%g outer=%g invalid", l.InnerAngle, l.OuterAngle)
		}
	}
	if l.Range < 0 {
		return fmt.Errorf("%s light: negative range %g", l.Kind, l.Range)
	}
	return nil
}

// contribution returns the unit direction from the surface point
// toward the light and the combined attenuation factor. A zero factor
// means the light cannot reach the point.
func (l Light) contribution(point math3d.Vec3) (toLight math3d.Vec3, atten float64) {
	switch l.Kind {
	case LightDirectional:
		return l.Direction.Negate(), 1

	case LightPoint:
		offset := l.Position.Sub(point)
		dist := offset.Len()
		return offset.Normalize(), l.falloff(dist)

	case LightSpot:
		offset := l.Position.Sub(point)
		dist := offset.Len()
		toLight = offset.Normalize()
		atten = l.falloff(dist)
		if atten == 0 {
			return toLight, 0
		}

		// Angle between the cone axis and the ray to the point.
		cosAngle := l.Direction.Dot(toLight.Negate())
		angle := math.Acos(math3d.Clamp(cosAngle, -1, 1))
		switch {
		case angle > l.OuterAngle:
			return toLight, 0
		case angle > l.InnerAngle:
			t := (l.OuterAngle - angle) / (l.OuterAngle - l.InnerAngle)
			atten *= t * t
		}
		return toLight, atten
	}
	return math3d.Zero3(), 0
}

// Distance attenuation constants. Linear and quadratic terms are tuned
// so a light at intensity 1 remains visible out to roughly 10 units.
const (
	attenLinear    = 0.1
	attenQuadratic = 0.01
)

// falloff combines inverse-quadratic distance attenuation with the
// linear range cutoff.
func (l Light) falloff(dist float64) float64 {
	atten := 1.0 / (1.0 + attenLinear*dist + attenQuadratic*dist*dist)
	if l.Range > 0 {
		if dist >= l.Range {
			return 0
		}
		atten *= (l.Range - dist) / l.Range
	}
	return atten
}
