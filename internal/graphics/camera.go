package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the view and projection matrices. The map is viewed from a
// fixed eye above and behind the z=0 plane.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Eye    mgl32.Vec3
	Center mgl32.Vec3
	Up     mgl32.Vec3
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  100.0,
		Eye:       mgl32.Vec3{0, -1, 1},
		Center:    mgl32.Vec3{0, 0, 0},
		Up:        mgl32.Vec3{0, 1, 0},
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. Non-positive sizes are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Center, c.Up)
}

// GetModelMatrix is the identity; markers are already in render space.
func (c *Camera) GetModelMatrix() mgl32.Mat4 {
	return mgl32.Ident4()
}
