// facet - Terminal 3D scene renderer
// Renders lit 3D scenes in your terminal with a CPU rasterizer.
//
// Controls:
//
//	W/S         - Move forward/backward
//	A/D         - Strafe left/right
//	Space/C     - Move up/down
//	Mouse drag  - Look around
//	Arrow keys  - Look around
//	X           - Toggle wireframe overlay
//	P           - Save a screenshot
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/facet/pkg/render"
)

var (
	scenePath  = flag.String("scene", "", "Path to a YAML scene file (default: built-in demo scene)")
	targetFPS  = flag.Int("fps", 30, "Target FPS")
	bgColor    = flag.String("bg", "", "Background color as R,G,B (0-255), overrides the scene file")
	screenshot = flag.String("screenshot", "", "Render a single frame to this PNG file and exit")
	shotWidth  = flag.Int("width", 800, "Screenshot width in pixels")
	shotHeight = flag.Int("height", 600, "Screenshot height in pixels")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "facet - Terminal 3D scene renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: facet [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move\n")
		fmt.Fprintf(os.Stderr, "  Space/C     - Up/down\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Look around\n")
		fmt.Fprintf(os.Stderr, "  Arrow keys  - Look around\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe overlay\n")
		fmt.Fprintf(os.Stderr, "  P           - Save screenshot\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func loadScene() (*render.Scene, render.Color, error) {
	bg := render.RGB(30, 30, 40)
	var scene *render.Scene

	if *scenePath != "" {
		cfg, err := LoadSceneConfig(*scenePath)
		if err != nil {
			return nil, bg, err
		}
		scene, err = cfg.BuildScene()
		if err != nil {
			return nil, bg, fmt.Errorf("build scene: %w", err)
		}
		bg = cfg.BackgroundColor()
		slog.Info("loaded scene", "path", *scenePath, "objects", len(scene.Objects), "lights", len(scene.Lights))
	} else {
		scene = DefaultScene()
	}

	var r, g, b uint8
	if *bgColor != "" {
		if _, err := fmt.Sscanf(*bgColor, "%d,%d,%d", &r, &g, &b); err != nil {
			return nil, bg, fmt.Errorf("parse -bg %q: %w", *bgColor, err)
		}
		bg = render.RGB(r, g, b)
	}
	return scene, bg, nil
}

func run() error {
	scene, bg, err := loadScene()
	if err != nil {
		return err
	}

	if *screenshot != "" {
		return renderScreenshot(scene, bg, *screenshot)
	}
	return runInteractive(scene, bg)
}

// renderScreenshot renders one frame offscreen and writes a PNG.
func renderScreenshot(scene *render.Scene, bg render.Color, path string) error {
	fb := render.NewFramebuffer(*shotWidth, *shotHeight)
	scene.Camera.SetAspectRatio(float64(*shotWidth) / float64(*shotHeight))
	r := render.NewRasterizer(scene.Camera, fb)

	fb.Clear(bg)
	scene.Render(r)

	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("save screenshot: %w", err)
	}
	slog.Info("screenshot saved", "path", path,
		"triangles", r.Stats.TrianglesFilled,
		"fragments", r.Stats.FragmentsShaded)
	return nil
}

// lookAxis smooths look velocity toward zero with a critically damped
// spring, so mouse flicks glide instead of stopping dead.
type lookAxis struct {
	velocity float64
	spring   harmonica.Spring
	accel    float64
}

func newLookAxis(fps int) lookAxis {
	return lookAxis{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *lookAxis) impulse(v float64) {
	a.velocity += v
}

// step returns this frame's angular delta and decays the velocity.
func (a *lookAxis) step() float64 {
	delta := a.velocity
	a.velocity, a.accel = a.spring.Update(a.velocity, a.accel, 0)
	return delta
}

func runInteractive(scene *render.Scene, bg render.Color) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse tracking for drag-look.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	camera := scene.Camera
	camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))

	rasterizer := render.NewRasterizer(camera, fb)
	wire := render.NewWireframe(camera, fb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	yawLook := newLookAxis(*targetFPS)
	pitchLook := newLookAxis(*targetFPS)

	var input render.InputState
	var wireframeOn bool
	var mouseDown bool
	var lastMouseX, lastMouseY int
	shotIndex := 0

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				rasterizer = render.NewRasterizer(camera, fb)
				wire = render.NewWireframe(camera, fb)
				camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w"):
					input.Forward = true
				case ev.MatchString("s"):
					input.Backward = true
				case ev.MatchString("a"):
					input.Left = true
				case ev.MatchString("d"):
					input.Right = true
				case ev.MatchString("space"):
					input.Up = true
				case ev.MatchString("c"):
					input.Down = true
				case ev.MatchString("left"):
					yawLook.impulse(0.08)
				case ev.MatchString("right"):
					yawLook.impulse(-0.08)
				case ev.MatchString("up"):
					pitchLook.impulse(0.08)
				case ev.MatchString("down"):
					pitchLook.impulse(-0.08)
				case ev.MatchString("x"):
					wireframeOn = !wireframeOn
				case ev.MatchString("p"):
					shotIndex++
					path := fmt.Sprintf("facet-%d.png", shotIndex)
					_ = fb.SavePNG(path)
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"):
					input.Forward = false
				case ev.MatchString("s"):
					input.Backward = false
				case ev.MatchString("a"):
					input.Left = false
				case ev.MatchString("d"):
					input.Right = false
				case ev.MatchString("space"):
					input.Up = false
				case ev.MatchString("c"):
					input.Down = false
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					yawLook.impulse(float64(-dx) * 0.01)
					pitchLook.impulse(float64(-dy) * 0.02)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		camera.ApplyInput(input, dt)
		if dYaw, dPitch := yawLook.step(), pitchLook.step(); dYaw != 0 || dPitch != 0 {
			camera.Rotate(dPitch, dYaw, 0)
		}

		scene.Update(dt)

		fb.Clear(bg)
		scene.Render(rasterizer)

		if wireframeOn {
			for _, o := range scene.Objects {
				wire.DrawMesh(o.Mesh, o.ModelMatrix(), render.RGB(0, 255, 128))
			}
			for _, l := range scene.Lights {
				if l.Kind != render.LightDirectional {
					wire.DrawPoint(l.Position, 0.3, render.ColorYellow)
				}
			}
		}

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
