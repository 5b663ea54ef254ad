package material

import (
	"math"
	"math/rand"

	"github.com/glowtrace/livetracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both
// reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// scatterEvent enumerates the outcome of the dielectric's probabilistic
// reflect-vs-refract choice so the state machine can be tested in isolation.
type scatterEvent int

const (
	eventReflect scatterEvent = iota
	eventRefract
)

// chooseEvent decides between reflection and refraction for a dielectric
// interface. Total internal reflection (no real refraction root) always
// reflects; otherwise a uniform draw u against the Schlick reflectance
// picks the branch.
func chooseEvent(cosTheta, refractionRatio, u float64) scatterEvent {
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	cannotRefract := refractionRatio*sinTheta > 1.0

	if cannotRefract || Reflectance(cosTheta, refractionRatio) > u {
		return eventReflect
	}
	return eventRefract
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, random *rand.Rand) (core.ScatterResult, bool) {
	// Clear glass absorbs no color
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	// Entering or exiting the material determines the refraction ratio
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	} else {
		refractionRatio = d.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)

	var direction core.Vec3
	switch chooseEvent(cosTheta, refractionRatio, random.Float64()) {
	case eventReflect:
		direction = unitDirection.Reflect(hit.Normal)
	case eventRefract:
		direction = refract(unitDirection, hit.Normal, refractionRatio)
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}, true
}

// refract calculates the refraction of a unit vector using Snell's law
func refract(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(uv.Negate().Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
