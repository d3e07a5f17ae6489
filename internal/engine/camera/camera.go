// Package camera provides the view and projection for the walkthrough.
package camera

import (
	gomath "math"

	"github.com/Faultbox/officewalk/internal/world/player"
	"github.com/Faultbox/officewalk/pkg/math"
)

const degToRad = gomath.Pi / 180

// FirstPerson renders from the controller's eye.
type FirstPerson struct {
	Position math.Vec3
	Yaw      float32 // Radians, 0 faces +Z
	Pitch    float32 // Radians, positive looks up
	FOV      float32 // Vertical, degrees

	Near, Far float32
}

// NewFirstPerson creates a camera with office-scale clip planes.
func NewFirstPerson() *FirstPerson {
	return &FirstPerson{
		FOV:  75,
		Near: 0.05,
		Far:  200,
	}
}

// Apply copies the eye pose out of a controller frame.
func (c *FirstPerson) Apply(f player.Frame) {
	c.Position = f.CameraPosition
	c.Yaw = f.Yaw
	c.Pitch = f.Pitch
	if f.FOV > 0 {
		c.FOV = f.FOV
	}
}

// Direction returns the unit look vector.
func (c *FirstPerson) Direction() math.Vec3 {
	sy, cy := gomath.Sincos(float64(c.Yaw))
	sp, cp := gomath.Sincos(float64(c.Pitch))
	return math.Vec3{
		X: float32(sy * cp),
		Y: float32(sp),
		Z: float32(cy * cp),
	}
}

// ViewMatrix returns the view matrix for the current pose.
func (c *FirstPerson) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Direction()), math.Up)
}

// ProjectionMatrix returns the perspective projection for the given aspect.
func (c *FirstPerson) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FOV*degToRad, aspect, c.Near, c.Far)
}

// Overview orbits above the floor plan for inspecting generated geometry.
type Overview struct {
	Center math.Vec3

	Distance float32
	Pitch    float32 // Elevation above the floor, radians
	Yaw      float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOverview creates an overview camera with default settings.
func NewOverview() *Overview {
	return &Overview{
		Distance:        30,
		Pitch:           1.0,
		MinDistance:     5,
		MaxDistance:     300,
		MinPitch:        0.2,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *Overview) Position() math.Vec3 {
	sp, cp := gomath.Sincos(float64(c.Pitch))
	sy, cy := gomath.Sincos(float64(c.Yaw))
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cp*sy),
		Y: c.Distance * float32(sp),
		Z: c.Distance * float32(cp*cy),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *Overview) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *Overview) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Overview) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centres the camera over a floor-plan rectangle.
func (c *Overview) FitToBounds(min, max math.Vec2) {
	c.Center = math.Vec3{X: (min.X + max.X) / 2, Z: (min.Y + max.Y) / 2}

	size := max.X - min.X
	if d := max.Y - min.Y; d > size {
		size = d
	}
	c.Distance = math.Clamp(size*1.2, c.MinDistance, c.MaxDistance)
	c.Pitch = 1.0
	c.Yaw = 0
}
