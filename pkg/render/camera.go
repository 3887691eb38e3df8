package render

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// MoveSpeed is the camera translation speed in world units per second.
const MoveSpeed = 3.5

// maxPitch keeps the camera off the poles to avoid gimbal lock.
const maxPitch = math.Pi/2 - 0.01

// Camera represents the viewpoint: a world-space position with Euler
// orientation, plus perspective projection parameters.
type Camera struct {
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a camera at the origin looking down -Z with a
// 60 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.Zero3(),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
		viewMatrix:  math3d.Identity(),
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets the camera rotation (pitch, yaw, roll in radians).
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = roll
	c.viewDirty = true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the direction the camera is looking.
func (c *Camera) Forward() math3d.Vec3 {
	// Forward is -Z in camera space, rotated by yaw and pitch.
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the camera's right direction, always level with the
// horizon.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(
		math.Cos(c.Yaw),
		0,
		-math.Sin(c.Yaw),
	)
}

// Up returns the camera's up direction.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// PlacementMatrix returns the matrix that places the camera in the
// world: translate to Position, then apply yaw, pitch, roll.
func (c *Camera) PlacementMatrix() math3d.Mat4 {
	return math3d.Translate(c.Position).
		Mul(math3d.RotateY(c.Yaw)).
		Mul(math3d.RotateX(c.Pitch)).
		Mul(math3d.RotateZ(c.Roll))
}

// ViewMatrix returns the world-to-camera transform, the inverse of the
// placement matrix. If the inverse does not exist the previous valid
// view matrix is kept, so a transient degenerate state never corrupts
// the frame.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		if inv, ok := c.PlacementMatrix().Inverse(); ok {
			c.viewMatrix = inv
		}
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		_ = c.ViewMatrix()
		_ = c.ProjectionMatrix()
		c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
	}
	return c.viewProjMatrix
}

// MoveForward moves the camera along its look direction.
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
	c.viewDirty = true
}

// MoveRight strafes the camera.
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
	c.viewDirty = true
}

// MoveUp moves the camera along the world up axis.
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.Up().Scale(distance))
	c.viewDirty = true
}

// Rotate turns the camera by delta angles in radians. Pitch is clamped
// short of straight up and down.
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll float64) {
	c.Pitch = math3d.Clamp(c.Pitch+deltaPitch, -maxPitch, maxPitch)
	c.Yaw += deltaYaw
	c.Roll += deltaRoll
	c.viewDirty = true
}

// LookAt points the camera at a target and levels the roll.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.IsZero() {
		return
	}

	c.Pitch = math.Asin(math3d.Clamp(dir.Y, -1, 1))
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0
	c.viewDirty = true
}

// OrbitAround rotates the camera around a target point by the given
// yaw and pitch deltas, keeping the distance and facing the target.
func (c *Camera) OrbitAround(target math3d.Vec3, deltaYaw, deltaPitch float64) {
	offset := c.Position.Sub(target)
	radius := offset.Len()
	if radius < math3d.Epsilon {
		return
	}

	yaw := math.Atan2(offset.X, offset.Z) + deltaYaw
	pitch := math3d.Clamp(math.Asin(math3d.Clamp(offset.Y/radius, -1, 1))+deltaPitch, -maxPitch, maxPitch)

	c.Position = target.Add(math3d.V3(
		radius*math.Cos(pitch)*math.Sin(yaw),
		radius*math.Sin(pitch),
		radius*math.Cos(pitch)*math.Cos(yaw),
	))
	c.LookAt(target)
}

// InputState holds one frame of movement and look input.
type InputState struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool

	YawDelta   float64 // radians
	PitchDelta float64 // radians
}

// ApplyInput advances the camera by one frame of input. Movement is
// scaled by MoveSpeed and the elapsed time in seconds.
func (c *Camera) ApplyInput(in InputState, dt float64) {
	step := MoveSpeed * dt
	if in.Forward {
		c.MoveForward(step)
	}
	if in.Backward {
		c.MoveForward(-step)
	}
	if in.Right {
		c.MoveRight(step)
	}
	if in.Left {
		c.MoveRight(-step)
	}
	if in.Up {
		c.MoveUp(step)
	}
	if in.Down {
		c.MoveUp(-step)
	}
	if in.YawDelta != 0 || in.PitchDelta != 0 {
		c.Rotate(in.PitchDelta, in.YawDelta, 0)
	}
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Behind the camera.
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}
