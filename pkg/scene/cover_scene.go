package scene

import (
	"math/rand"

	"github.com/glowtrace/livetracer/pkg/core"
	"github.com/glowtrace/livetracer/pkg/geometry"
	"github.com/glowtrace/livetracer/pkg/material"
	"github.com/glowtrace/livetracer/pkg/renderer"
)

// NewCoverScene creates the classic cover scene: three large feature
// spheres surrounded by a field of small random ones. The field is built
// from a seeded generator so the same seed always yields the same scene.
func NewCoverScene(seed int64) *Scene {
	random := rand.New(rand.NewSource(seed))

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	shapes := []core.Shape{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
	}

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			var mat core.Material
			switch choose := random.Float64(); {
			case choose < 0.8:
				albedo := randomVec(random).MultiplyVec(randomVec(random))
				mat = material.NewLambertian(albedo)
			case choose < 0.95:
				albedo := randomVecRange(random, 0.5, 1)
				mat = material.NewMetal(albedo, 0.5*random.Float64())
			default:
				mat = material.NewDielectric(1.5)
			}
			shapes = append(shapes, geometry.NewSphere(center, 0.2, mat))
		}
	}

	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return &Scene{
		Shapes: shapes,
		CameraConfig: renderer.CameraConfig{
			Center:        core.NewVec3(13, 2, 3),
			LookAt:        core.NewVec3(0, 0, 0),
			Up:            core.NewVec3(0, 1, 0),
			VFov:          20,
			AspectRatio:   1.5,
			Aperture:      0.1,
			FocusDistance: 10.0,
		},
		BackgroundTop:    core.NewVec3(0.5, 0.7, 1.0),
		BackgroundBottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

func randomVec(random *rand.Rand) core.Vec3 {
	return core.NewVec3(random.Float64(), random.Float64(), random.Float64())
}

func randomVecRange(random *rand.Rand, min, max float64) core.Vec3 {
	span := max - min
	return core.NewVec3(
		min+span*random.Float64(),
		min+span*random.Float64(),
		min+span*random.Float64(),
	)
}
