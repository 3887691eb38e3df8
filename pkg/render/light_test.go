package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

func luminance(c math3d.Vec3) float64 {
	return c.X + c.Y + c.Z
}

func TestDirectionalDiffuseLaw(t *testing.T) {
	mat := models.Material{
		Name:      "matte",
		Diffuse:   math3d.V3(0.5, 0.5, 0.5),
		Specular:  math3d.Zero3(),
		Shininess: 32,
		Ambient:   0,
	}
	point := math3d.Zero3()
	viewDir := math3d.V3(0, 0, 1)
	light := func(dir math3d.Vec3) []Light {
		return []Light{NewDirectionalLight(dir, math3d.V3(1, 1, 1), 1)}
	}
	normal := math3d.V3(0, 0, 1)

	headOn := Shade(point, normal, viewDir, mat, light(math3d.V3(0, 0, -1)))
	angled := Shade(point, normal, viewDir, mat, light(math3d.V3(0, -1, -1)))
	grazing := Shade(point, normal, viewDir, mat, light(math3d.V3(0, -1, 0)))
	behind := Shade(point, normal, viewDir, mat, light(math3d.V3(0, 0, 1)))

	// Head-on incidence: diffuse = max(0, n.l) = 1, so exactly the
	// diffuse color.
	if math.Abs(headOn.X-0.5) > 1e-9 {
		t.Errorf("head-on = %v, want diffuse 0.5", headOn)
	}
	// Light at 45 degrees scales by cos = 1/sqrt(2).
	if math.Abs(angled.X-0.5/math.Sqrt2) > 1e-9 {
		t.Errorf("angled = %v, want %v", angled.X, 0.5/math.Sqrt2)
	}
	if luminance(grazing) != 0 {
		t.Errorf("grazing light contributed %v, want dark", grazing)
	}
	if luminance(behind) != 0 {
		t.Errorf("light behind the surface contributed %v, want dark", behind)
	}
}

func TestAmbientAddedOnce(t *testing.T) {
	mat := models.DefaultMaterial()
	mat.Specular = math3d.Zero3()
	point := math3d.Zero3()
	normal := math3d.V3(0, 0, 1)
	viewDir := math3d.V3(0, 0, 1)

	// All lights come from behind the surface, so only ambient is
	// visible regardless of light count.
	behind := NewDirectionalLight(math3d.V3(0, 0, 1), math3d.V3(1, 1, 1), 1)
	one := Shade(point, normal, viewDir, mat, []Light{behind})
	three := Shade(point, normal, viewDir, mat, []Light{behind, behind, behind})
	want := mat.Diffuse.Scale(mat.Ambient)

	if one != want || three != want {
		t.Errorf("ambient = %v / %v, want %v for any light count", one, three, want)
	}
}

func TestPointLightAttenuation(t *testing.T) {
	l := NewPointLight(math3d.Zero3(), math3d.V3(1, 1, 1), 1, 0)

	if got := l.falloff(0); got != 1 {
		t.Errorf("falloff(0) = %v, want 1", got)
	}

	// Strictly decreasing with distance.
	prev := math.Inf(1)
	for _, d := range []float64{0, 1, 2, 5, 10, 50} {
		got := l.falloff(d)
		if got >= prev {
			t.Errorf("falloff(%v) = %v, not decreasing (prev %v)", d, got, prev)
		}
		if got <= 0 {
			t.Errorf("falloff(%v) = %v, want positive without a range", d, got)
		}
		prev = got
	}
}

func TestPointLightRangeCutoff(t *testing.T) {
	l := NewPointLight(math3d.Zero3(), math3d.V3(1, 1, 1), 1, 10)

	if got := l.falloff(10); got != 0 {
		t.Errorf("falloff at range = %v, want 0", got)
	}
	if got := l.falloff(15); got != 0 {
		t.Errorf("falloff beyond range = %v, want 0", got)
	}
	if got := l.falloff(5); got <= 0 {
		t.Errorf("falloff inside range = %v, want positive", got)
	}

	// Ranged falloff stays below the unlimited curve.
	unlimited := NewPointLight(math3d.Zero3(), math3d.V3(1, 1, 1), 1, 0)
	if l.falloff(5) >= unlimited.falloff(5) {
		t.Error("range factor did not reduce attenuation")
	}
}

func TestSpotConeFalloff(t *testing.T) {
	// Spot at (0,0,5) shining down -Z with a 30/45 degree cone.
	l := NewSpotLight(
		math3d.V3(0, 0, 5), math3d.V3(0, 0, -1),
		math3d.V3(1, 1, 1), 1, 0,
		math.Pi/6, math.Pi/4,
	)

	onAxis := math3d.Zero3()
	_, axisAtten := l.contribution(onAxis)
	if axisAtten <= 0 {
		t.Fatalf("on-axis attenuation = %v, want positive", axisAtten)
	}

	// A point at the same distance but 40 degrees off axis sits in
	// the falloff band.
	angle := 40 * math.Pi / 180
	offAxis := math3d.V3(5*math.Sin(angle), 0, 5-5*math.Cos(angle))
	_, bandAtten := l.contribution(offAxis)
	if bandAtten <= 0 || bandAtten >= axisAtten {
		t.Errorf("falloff band attenuation = %v, want between 0 and %v", bandAtten, axisAtten)
	}

	// Outside the outer cone: dark.
	angle = 60 * math.Pi / 180
	outside := math3d.V3(5*math.Sin(angle), 0, 5-5*math.Cos(angle))
	if _, got := l.contribution(outside); got != 0 {
		t.Errorf("outside cone attenuation = %v, want 0", got)
	}

	// Quadratic falloff: the band factor at angle a is
	// ((outer-a)/(outer-inner))^2 on top of distance attenuation.
	wantT := (math.Pi/4 - 40*math.Pi/180) / (math.Pi/4 - math.Pi/6)
	wantAtten := axisAtten * wantT * wantT
	if math.Abs(bandAtten-wantAtten) > 1e-9 {
		t.Errorf("band attenuation = %v, want %v", bandAtten, wantAtten)
	}
}

func TestSpecularHighlightPeaksAtMirrorAngle(t *testing.T) {
	mat := models.Material{
		Name:      "shiny",
		Diffuse:   math3d.Zero3(),
		Specular:  math3d.V3(1, 1, 1),
		Shininess: 32,
		Ambient:   0,
	}
	point := math3d.Zero3()
	normal := math3d.V3(0, 0, 1)
	lights := []Light{NewDirectionalLight(math3d.V3(0, -1, -1), math3d.V3(1, 1, 1), 1)}

	// The half vector aligns with the normal when the viewer mirrors
	// the light direction.
	mirror := Shade(point, normal, math3d.V3(0, -1, 1).Normalize(), mat, lights)
	offMirror := Shade(point, normal, math3d.V3(0, 0.5, 1).Normalize(), mat, lights)

	if luminance(mirror) <= luminance(offMirror) {
		t.Errorf("mirror view %v not brighter than off-mirror %v", mirror, offMirror)
	}
}

func TestShadeClampsOverbright(t *testing.T) {
	mat := models.DefaultMaterial()
	lights := []Light{
		NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 10),
		NewDirectionalLight(math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 10),
	}
	got := Shade(math3d.Zero3(), math3d.V3(0, 0, 1), math3d.V3(0, 0, 1), mat, lights)
	if got != math3d.V3(1, 1, 1) {
		t.Errorf("overbright result = %v, want clamped to 1", got)
	}
}

func TestLightValidate(t *testing.T) {
	tests := []struct {
		name    string
		light   Light
		wantErr bool
	}{
		{"directional", NewDirectionalLight(math3d.V3(0, -1, 0), math3d.V3(1, 1, 1), 1), false},
		{"point", NewPointLight(math3d.Zero3(), math3d.V3(1, 0.5, 0.2), 2, 10), false},
		{"spot", NewSpotLight(math3d.Zero3(), math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1, 15, math.Pi/6, math.Pi/4), false},
		{"negative intensity", NewDirectionalLight(math3d.V3(0, -1, 0), math3d.V3(1, 1, 1), -1), true},
		{"oversaturated color", NewPointLight(math3d.Zero3(), math3d.V3(2, 0, 0), 1, 0), true},
		{"zero direction", NewDirectionalLight(math3d.Zero3(), math3d.V3(1, 1, 1), 1), true},
		{"inverted cone", NewSpotLight(math3d.Zero3(), math3d.V3(0, 0, -1), math3d.V3(1, 1, 1), 1, 0, math.Pi/4, math.Pi/6), true},
		{"negative range", Light{Kind: LightPoint, Color: math3d.V3(1, 1, 1), Intensity: 1, Range: -5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.light.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestPackColor(t *testing.T) {
	tests := []struct {
		name string
		in   math3d.Vec3
		want Color
	}{
		{"black", math3d.Zero3(), RGB(0, 0, 0)},
		{"white", math3d.V3(1, 1, 1), RGB(255, 255, 255)},
		{"mid gray", math3d.V3(0.5, 0.5, 0.5), RGB(128, 128, 128)},
		{"overbright clamps", math3d.V3(2, -1, 0.5), RGB(255, 0, 128)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackColor(tt.in); got != tt.want {
				t.Errorf("PackColor(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
