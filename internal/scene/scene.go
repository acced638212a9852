package scene

import (
	"fmt"

	"shockwave/internal/core"
)

// Vec2 is a point on the ground plane.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a world-space position with Y pointing up.
type Vec3 struct {
	X, Y, Z float32
}

// Transform is a placed instance of a template.
type Transform struct {
	Name     string
	Position Vec3
}

// Template describes the object stamped out at every grid point.
type Template struct {
	Name    string
	Spacing float32
	Origin  Vec3
}

// DefaultSpacing is the distance between neighbouring instances when a
// template does not specify one.
const DefaultSpacing float32 = 1

// Marker returns the template used by the bundled front ends.
func Marker() *Template {
	return &Template{Name: "marker", Spacing: DefaultSpacing}
}

// PlaneFromTemplate lays out one instance of tmpl per cell of a size.W by
// size.H grid in row-major order. The returned transforms and positions share
// indices: positions[i] is the (X, Z) ground coordinate of transforms[i].
func PlaneFromTemplate(tmpl *Template, size core.Size) ([]*Transform, []Vec2) {
	if tmpl == nil || size.W <= 0 || size.H <= 0 {
		return nil, nil
	}
	spacing := tmpl.Spacing
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	transforms := make([]*Transform, 0, size.W*size.H)
	positions := make([]Vec2, 0, size.W*size.H)
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			pos := Vec3{
				X: tmpl.Origin.X + float32(col)*spacing,
				Y: tmpl.Origin.Y,
				Z: tmpl.Origin.Z + float32(row)*spacing,
			}
			transforms = append(transforms, &Transform{
				Name:     fmt.Sprintf("%s[%d,%d]", tmpl.Name, col, row),
				Position: pos,
			})
			positions = append(positions, Vec2{X: pos.X, Y: pos.Z})
		}
	}
	return transforms, positions
}

// GridPositions returns the ground positions of a grid without instancing
// anything.
func GridPositions(size core.Size, spacing float32) []Vec2 {
	if size.W <= 0 || size.H <= 0 {
		return nil
	}
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	positions := make([]Vec2, 0, size.W*size.H)
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			positions = append(positions, Vec2{X: float32(col) * spacing, Y: float32(row) * spacing})
		}
	}
	return positions
}
