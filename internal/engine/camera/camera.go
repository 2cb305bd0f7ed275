// Package camera provides the fly-over camera for viewing the city.
// It is the pipeline's viewer-position provider; the LOD core reads the
// position once per frame and owns no camera logic.
package camera

import (
	gomath "math"

	"github.com/Faultbox/skyline/pkg/math"
)

// OrbitCamera orbits around a center point on the city ground plane.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
	PanSpeed        float32
}

// NewOrbitCamera creates an orbit camera with city-viewing defaults.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        500.0,
		RotationX:       0.6,
		RotationY:       0.0,
		MinDistance:     20.0,
		MaxDistance:     4000.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSpeed:        1.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the center point on the ground plane based on
// keyboard input. Speed scales with distance so panning feels consistent
// at any zoom.
func (c *OrbitCamera) HandleMovement(forward, right float32, dt float32) {
	speed := c.Distance * 0.5 * c.PanSpeed * dt

	// The camera sits along the heading, so forward pans away from it.
	away := math.Heading(c.RotationY)
	pan := away.Scale(-forward).Add(away.Perp().Scale(right)).Scale(speed)

	c.Center.X += pan.X
	c.Center.Z += pan.Y
}
