package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/glowtrace/livetracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 2.0,
	}
}

func TestCamera_CenterRayPointsAtLookAt(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	camera := NewCamera(testCameraConfig())

	ray := camera.GetRay(0.5, 0.5, random)
	direction := ray.Direction.Normalize()
	expected := core.NewVec3(0, 0, -1)

	const tolerance = 1e-9
	if direction.Subtract(expected).Length() > tolerance {
		t.Errorf("Expected center ray direction %v, got %v", expected, direction)
	}
}

func TestCamera_PinholeOriginsFixed(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	config := testCameraConfig()
	config.Center = core.NewVec3(1, 2, 3)
	config.LookAt = core.NewVec3(1, 2, 0)
	camera := NewCamera(config)

	// Zero aperture: every ray originates exactly at the camera center
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(random.Float64(), random.Float64(), random)
		if ray.Origin != config.Center {
			t.Fatalf("Pinhole ray origin %v differs from camera center %v",
				ray.Origin, config.Center)
		}
	}
}

func TestCamera_ViewportCorners(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	camera := NewCamera(testCameraConfig())

	// VFov 90 with focus distance 1: half height = 1, half width = 2
	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{name: "lower left", s: 0, t: 0, expected: core.NewVec3(-2, -1, -1)},
		{name: "upper right", s: 1, t: 1, expected: core.NewVec3(2, 1, -1)},
		{name: "lower right", s: 1, t: 0, expected: core.NewVec3(2, -1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, random)
			const tolerance = 1e-9
			if ray.Direction.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCamera_LensRaysConvergeOnFocusPlane(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	config := testCameraConfig()
	config.Aperture = 0.5
	config.FocusDistance = 3.0
	camera := NewCamera(config)

	// All rays for the same (s, t) must pass through the same point on the
	// focus plane regardless of the lens jitter.
	var reference core.Vec3
	for i := 0; i < 200; i++ {
		ray := camera.GetRay(0.25, 0.75, random)

		// Intersect with the plane z = -FocusDistance
		tHit := (-config.FocusDistance - ray.Origin.Z) / ray.Direction.Z
		point := ray.At(tHit)

		if i == 0 {
			reference = point
			continue
		}
		if point.Subtract(reference).Length() > 1e-9 {
			t.Fatalf("Focus point drifted: %v vs %v", point, reference)
		}
	}
}

func TestCamera_LensOriginsStayOnAperture(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	config := testCameraConfig()
	config.Aperture = 0.8
	camera := NewCamera(config)

	maxRadius := config.Aperture / 2
	for i := 0; i < 500; i++ {
		ray := camera.GetRay(0.5, 0.5, random)
		offset := ray.Origin.Subtract(config.Center).Length()
		if offset > maxRadius+1e-9 {
			t.Fatalf("Lens origin offset %f exceeds lens radius %f", offset, maxRadius)
		}
	}
}

func TestCamera_AutoFocusDistance(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	config := testCameraConfig()
	config.Center = core.NewVec3(0, 0, 5)
	config.LookAt = core.NewVec3(0, 0, -1)
	config.FocusDistance = 0 // auto: distance to LookAt = 6
	camera := NewCamera(config)

	ray := camera.GetRay(0.5, 0.5, random)
	point := ray.At(1.0)
	expected := config.LookAt

	const tolerance = 1e-9
	if point.Subtract(expected).Length() > tolerance {
		t.Errorf("Expected center ray to reach %v at t=1, got %v", expected, point)
	}

	if math.Abs(ray.Direction.Length()-6.0) > 1e-9 {
		t.Errorf("Expected focus distance 6, got %f", ray.Direction.Length())
	}
}
