package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/render"
)

// SceneConfig is the YAML scene description.
type SceneConfig struct {
	Camera     CameraConfig   `yaml:"camera"`
	Objects    []ObjectConfig `yaml:"objects"`
	Lights     []LightConfig  `yaml:"lights"`
	Background []float64      `yaml:"background"` // RGB, [0,1]
}

type CameraConfig struct {
	Position   []float64 `yaml:"position"`
	LookAt     []float64 `yaml:"look_at"`
	FOVDegrees float64   `yaml:"fov_degrees"`
}

type ObjectConfig struct {
	Name        string    `yaml:"name"`
	Shape       string    `yaml:"shape"` // cube, plane
	Size        float64   `yaml:"size"`
	Position    []float64 `yaml:"position"`
	RotationDeg []float64 `yaml:"rotation_degrees"`
	SpinDeg     []float64 `yaml:"spin_degrees"` // degrees per second
	Color       []float64 `yaml:"color"`        // RGB, [0,1]
	Shininess   float64   `yaml:"shininess"`
	Ambient     float64   `yaml:"ambient"`
}

type LightConfig struct {
	Type      string    `yaml:"type"` // directional, point, spot
	Position  []float64 `yaml:"position"`
	Direction []float64 `yaml:"direction"`
	Color     []float64 `yaml:"color"`
	Intensity float64   `yaml:"intensity"`
	Range     float64   `yaml:"range"`
	InnerDeg  float64   `yaml:"inner_degrees"`
	OuterDeg  float64   `yaml:"outer_degrees"`
}

// LoadSceneConfig reads and parses a YAML scene file.
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse scene file: %w", err)
	}
	return &cfg, nil
}

func vec3From(v []float64, fallback math3d.Vec3) math3d.Vec3 {
	if len(v) != 3 {
		return fallback
	}
	return math3d.V3(v[0], v[1], v[2])
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BuildScene turns a parsed config into a renderable scene.
func (cfg *SceneConfig) BuildScene() (*render.Scene, error) {
	scene := render.NewScene()

	scene.Camera.SetPosition(vec3From(cfg.Camera.Position, math3d.V3(0, 2, 8)))
	scene.Camera.LookAt(vec3From(cfg.Camera.LookAt, math3d.Zero3()))
	if cfg.Camera.FOVDegrees > 0 {
		scene.Camera.SetFOV(radians(cfg.Camera.FOVDegrees))
	}

	for i, oc := range cfg.Objects {
		mat := models.NewMaterial(oc.Name, vec3From(oc.Color, math3d.V3(1, 1, 1)))
		if oc.Shininess > 0 {
			mat.Shininess = oc.Shininess
		}
		if oc.Ambient > 0 {
			mat.Ambient = oc.Ambient
		}
		if err := mat.Validate(); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}

		size := oc.Size
		if size <= 0 {
			size = 1
		}

		var mesh *models.Mesh
		switch strings.ToLower(oc.Shape) {
		case "cube", "":
			mesh = models.NewCube(size, mat)
		case "plane":
			mesh = models.NewPlane(size, mat)
		default:
			return nil, fmt.Errorf("object %d: unknown shape %q", i, oc.Shape)
		}

		obj := render.NewObject(oc.Name, mesh)
		obj.Position = vec3From(oc.Position, math3d.Zero3())
		rot := vec3From(oc.RotationDeg, math3d.Zero3())
		obj.Rotation = math3d.V3(radians(rot.X), radians(rot.Y), radians(rot.Z))
		spin := vec3From(oc.SpinDeg, math3d.Zero3())
		obj.Spin = math3d.V3(radians(spin.X), radians(spin.Y), radians(spin.Z))

		if err := scene.AddObject(obj); err != nil {
			return nil, err
		}
	}

	for i, lc := range cfg.Lights {
		var light render.Light
		color := vec3From(lc.Color, math3d.V3(1, 1, 1))
		switch strings.ToLower(lc.Type) {
		case "directional":
			light = render.NewDirectionalLight(vec3From(lc.Direction, math3d.V3(0, -1, 0)), color, lc.Intensity)
		case "point":
			light = render.NewPointLight(vec3From(lc.Position, math3d.Zero3()), color, lc.Intensity, lc.Range)
		case "spot":
			light = render.NewSpotLight(
				vec3From(lc.Position, math3d.Zero3()),
				vec3From(lc.Direction, math3d.V3(0, -1, 0)),
				color, lc.Intensity, lc.Range,
				radians(lc.InnerDeg), radians(lc.OuterDeg),
			)
		default:
			return nil, fmt.Errorf("light %d: unknown type %q", i, lc.Type)
		}
		if err := scene.AddLight(light); err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
	}

	return scene, nil
}

// BackgroundColor returns the configured clear color, defaulting to a
// dark blue-gray.
func (cfg *SceneConfig) BackgroundColor() render.Color {
	if len(cfg.Background) == 3 {
		return render.PackColor(vec3From(cfg.Background, math3d.Zero3()))
	}
	return render.RGB(30, 30, 40)
}

// DefaultScene builds the demo world: three cubes over a ground plane
// under a warm key light, cool fill, orange point glow and a magenta
// spot.
func DefaultScene() *render.Scene {
	scene := render.NewScene()
	scene.Camera.SetPosition(math3d.V3(0, 2, 8))
	scene.Camera.LookAt(math3d.Zero3())

	center := render.NewObject("center-cube", models.NewCube(2, models.NewMaterial("silver", math3d.V3(0.8, 0.8, 0.85))))
	center.Spin = math3d.V3(0, radians(30), 0)
	red := render.NewObject("red-cube", models.NewCube(1.5, models.NewMaterial("red", math3d.V3(0.9, 0.2, 0.2))))
	red.Position = math3d.V3(-3, 0, -1)
	red.Spin = math3d.V3(radians(20), radians(45), 0)
	blue := render.NewObject("blue-cube", models.NewCube(1.5, models.NewMaterial("blue", math3d.V3(0.2, 0.3, 0.9))))
	blue.Position = math3d.V3(3, 0.5, -2)
	blue.Spin = math3d.V3(0, radians(-40), radians(15))

	groundMat := models.NewMaterial("ground", math3d.V3(0.4, 0.45, 0.4))
	groundMat.Specular = math3d.V3(0.1, 0.1, 0.1)
	ground := render.NewObject("ground", models.NewPlane(20, groundMat))
	ground.Position = math3d.V3(0, -1.5, 0)

	for _, o := range []*render.Object{center, red, blue, ground} {
		if err := scene.AddObject(o); err != nil {
			panic(err) // generated meshes always validate
		}
	}

	lights := []render.Light{
		render.NewDirectionalLight(math3d.V3(-0.5, -1, -0.5), math3d.V3(1, 0.9, 0.8), 0.8),
		render.NewDirectionalLight(math3d.V3(0.5, 0, -1), math3d.V3(0.6, 0.7, 1), 0.4),
		render.NewPointLight(math3d.V3(0, 4, 2), math3d.V3(1, 0.5, 0.2), 2.0, 10),
		render.NewSpotLight(
			math3d.V3(-4, 3, 4), math3d.V3(1, -0.5, -1),
			math3d.V3(0.9, 0.2, 0.9), 3.0, 15,
			math.Pi/6, math.Pi/4,
		),
	}
	for _, l := range lights {
		if err := scene.AddLight(l); err != nil {
			panic(err)
		}
	}

	return scene
}
