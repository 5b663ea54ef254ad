package scene

import (
	"github.com/glowtrace/livetracer/pkg/core"
	"github.com/glowtrace/livetracer/pkg/geometry"
	"github.com/glowtrace/livetracer/pkg/material"
	"github.com/glowtrace/livetracer/pkg/renderer"
)

// NewDefaultScene creates the standard test scene: a large ground sphere,
// a diffuse sphere in the center, a hollow glass sphere on the left and a
// metal sphere on the right, lit by a blue sky gradient.
func NewDefaultScene() *Scene {
	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	metal := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	shapes := []core.Shape{
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		// Negative radius flips the normal inward, which turns the glass
		// sphere into a hollow shell.
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, glass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, metal),
	}

	return &Scene{
		Shapes: shapes,
		CameraConfig: renderer.CameraConfig{
			Center:      core.NewVec3(-2, 2, 1),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        20,
			AspectRatio: 2.0,
			Aperture:    0,
		},
		BackgroundTop:    core.NewVec3(0.5, 0.7, 1.0),
		BackgroundBottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}
