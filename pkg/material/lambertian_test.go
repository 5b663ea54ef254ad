package material

import (
	"math/rand"
	"testing"

	"github.com/glowtrace/livetracer/pkg/core"
)

func testHit(normal core.Vec3) core.HitRecord {
	return core.HitRecord{
		Point:     core.NewVec3(0, 0, -1),
		Normal:    normal,
		T:         1.0,
		FrontFace: true,
	}
}

func TestLambertian_AlwaysScatters(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	lambertian := NewLambertian(core.NewVec3(0.8, 0.3, 0.3))
	hit := testHit(core.NewVec3(0, 0, 1))
	rayIn := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for i := 0; i < 1000; i++ {
		scatter, didScatter := lambertian.Scatter(rayIn, hit, random)
		if !didScatter {
			t.Fatal("Lambertian must never absorb")
		}
		if scatter.Attenuation != lambertian.Albedo {
			t.Fatalf("Expected attenuation %v, got %v", lambertian.Albedo, scatter.Attenuation)
		}
		if scatter.Scattered.Origin != hit.Point {
			t.Fatalf("Scattered ray must originate at the hit point, got %v", scatter.Scattered.Origin)
		}
	}
}

// Averaged over many samples, diffuse bounce directions point away from
// the surface. Statistical property, checked with a loose tolerance.
func TestLambertian_ScatterDistribution(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	normal := core.NewVec3(0, 0, 1)
	hit := testHit(normal)
	rayIn := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	const samples = 20000
	sumCosine := 0.0
	for i := 0; i < samples; i++ {
		scatter, _ := lambertian.Scatter(rayIn, hit, random)
		sumCosine += scatter.Scattered.Direction.Normalize().Dot(normal)
	}

	meanCosine := sumCosine / samples
	if meanCosine < 0.4 {
		t.Errorf("Expected mean cosine well above zero, got %f", meanCosine)
	}
}
