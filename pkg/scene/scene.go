package scene

import (
	"github.com/glowtrace/livetracer/pkg/core"
	"github.com/glowtrace/livetracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering. Scenes are built
// once and never mutated afterwards, so the renderer and any number of
// workers can share one without synchronization.
type Scene struct {
	Shapes           []core.Shape
	CameraConfig     renderer.CameraConfig
	BackgroundTop    core.Vec3
	BackgroundBottom core.Vec3
}

// GetCameraConfig implements renderer.Scene
func (s *Scene) GetCameraConfig() renderer.CameraConfig {
	return s.CameraConfig
}

// GetBackgroundColors implements renderer.Scene
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.BackgroundTop, s.BackgroundBottom
}

// GetShapes implements renderer.Scene
func (s *Scene) GetShapes() []core.Shape {
	return s.Shapes
}
