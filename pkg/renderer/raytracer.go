package renderer

import (
	"math"
	"math/rand"

	"github.com/glowtrace/livetracer/pkg/core"
)

// tMinEpsilon is the minimum ray parameter for intersection tests. Scattered
// rays originate on a surface; a zero lower bound would make them immediately
// re-hit that surface (shadow acne).
const tMinEpsilon = 1e-4

// Scene interface to avoid circular imports
type Scene interface {
	GetCameraConfig() CameraConfig
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetShapes() []core.Shape
}

// Raytracer evaluates the light transport for single rays. It holds no
// mutable state besides the scene reference, so one instance per worker
// with a worker-local random generator keeps the kernel contention-free.
type Raytracer struct {
	scene    Scene
	camera   *Camera
	width    int
	height   int
	maxDepth int
}

// NewRaytracer creates a raytracer for the given scene and image size
func NewRaytracer(scene Scene, width, height, maxDepth int) *Raytracer {
	config := scene.GetCameraConfig()
	config.AspectRatio = float64(width) / float64(height)

	return &Raytracer{
		scene:    scene,
		camera:   NewCamera(config),
		width:    width,
		height:   height,
		maxDepth: maxDepth,
	}
}

// hitWorld finds the nearest intersection along the ray. Nearest is decided
// strictly by t: the upper bound shrinks to each accepted hit, so iteration
// order of the shapes cannot change the result.
func (rt *Raytracer) hitWorld(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, shape := range rt.scene.GetShapes() {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// backgroundGradient returns the sky color for a ray that escapes the scene
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	topColor, bottomColor := rt.scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Map direction Y from [-1,1] to [0,1] and interpolate
	t := 0.5 * (unitDirection.Y + 1.0)
	return bottomColor.Lerp(topColor, t)
}

// rayColor returns the radiance arriving along a ray, following scattering
// bounces recursively until the ray escapes, is absorbed, or the bounce
// budget runs out (energy cutoff to black).
func (rt *Raytracer) rayColor(r core.Ray, depth int, random *rand.Rand) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.hitWorld(r, tMinEpsilon, math.Inf(1))
	if !isHit {
		return rt.backgroundGradient(r)
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, random)
	if !didScatter {
		return core.Vec3{} // Absorbed
	}

	return scatter.Attenuation.MultiplyVec(rt.rayColor(scatter.Scattered, depth-1, random))
}

// SamplePixel takes one jittered sample for pixel (x, y) and returns the
// linear-space color estimate. Row y=0 is the top of the image.
func (rt *Raytracer) SamplePixel(x, y int, random *rand.Rand) core.Vec3 {
	s := (float64(x) + random.Float64()) / float64(rt.width)
	t := 1.0 - (float64(y)+random.Float64())/float64(rt.height)

	ray := rt.camera.GetRay(s, t, random)
	return rt.rayColor(ray, rt.maxDepth, random)
}
