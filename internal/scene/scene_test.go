package scene

import (
	"slices"
	"testing"

	"shockwave/internal/core"
)

func TestPlaneFromTemplateRowMajor(t *testing.T) {
	tmpl := &Template{Name: "post", Spacing: 2, Origin: Vec3{X: 10, Y: 1, Z: -4}}
	transforms, positions := PlaneFromTemplate(tmpl, core.Size{W: 3, H: 2})
	if len(transforms) != 6 || len(positions) != 6 {
		t.Fatalf("expected 6 instances, got %d transforms and %d positions", len(transforms), len(positions))
	}

	// index 4 is column 1, row 1
	got := transforms[4].Position
	want := Vec3{X: 12, Y: 1, Z: -2}
	if got != want {
		t.Fatalf("transform 4 at %+v, expected %+v", got, want)
	}
	if positions[4] != (Vec2{X: 12, Y: -2}) {
		t.Fatalf("position 4 = %+v, expected ground coordinate of transform", positions[4])
	}
	if transforms[4].Name != "post[1,1]" {
		t.Fatalf("unexpected instance name %q", transforms[4].Name)
	}
	for i := range transforms {
		if positions[i].X != transforms[i].Position.X || positions[i].Y != transforms[i].Position.Z {
			t.Fatalf("index %d: position %+v does not match transform %+v", i, positions[i], transforms[i].Position)
		}
	}
}

func TestPlaneFromTemplateWithoutTemplate(t *testing.T) {
	transforms, positions := PlaneFromTemplate(nil, core.Size{W: 4, H: 4})
	if transforms != nil || positions != nil {
		t.Fatal("missing template must not produce instances")
	}
}

func TestGridPositionsDefaultSpacing(t *testing.T) {
	got := GridPositions(core.Size{W: 2, H: 2}, 0)
	want := []Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("positions = %v, want %v", got, want)
	}
}
