// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tessellate_test

import (
	"math"
	"testing"

	"github.com/davsar89/GDML-Studio/expr"
	"github.com/davsar89/GDML-Studio/gdml"
	"github.com/davsar89/GDML-Studio/tessellate"
)

func TestBoxVertexAndTriangleCounts(t *testing.T) {
	m := tessellate.Box(10, 20, 30)
	if m.VertexCount() != 24 {
		t.Errorf("VertexCount = %d, want 24", m.VertexCount())
	}
	if m.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", m.TriangleCount())
	}
}

func TestTubeFullCircleHasNoWedgeFaces(t *testing.T) {
	full := tessellate.Tube(0, 10, 20, 0, 2*math.Pi, 16)
	partial := tessellate.Tube(0, 10, 20, 0, math.Pi, 16)
	if partial.TriangleCount() <= full.TriangleCount() {
		t.Errorf("partial-sweep tube should have more triangles than a full circle (wedge faces): got %d <= %d", partial.TriangleCount(), full.TriangleCount())
	}
}

func TestTubeHollowAddsInnerSurface(t *testing.T) {
	solid := tessellate.Tube(0, 10, 20, 0, 2*math.Pi, 16)
	hollow := tessellate.Tube(5, 10, 20, 0, 2*math.Pi, 16)
	if hollow.VertexCount() <= solid.VertexCount() {
		t.Errorf("hollow tube should have more vertices than solid: got %d <= %d", hollow.VertexCount(), solid.VertexCount())
	}
}

func TestConeDegenerateTipHasNoCap(t *testing.T) {
	// rmax2 == 0 at the tip: top cap should be omitted entirely.
	cone := tessellate.Cone(0, 10, 0, 0, 20, 0, 2*math.Pi, 16)
	if cone.VertexCount() == 0 {
		t.Fatal("Cone produced an empty mesh")
	}
	for i := 2; i < len(cone.Normals); i += 3 {
		if cone.Normals[i] == 1 {
			t.Fatalf("vertex %d has a +z cap normal, want no top cap", i/3)
		}
	}
}

func TestSphereFullShellHasNoWedgeOrCaps(t *testing.T) {
	full := tessellate.Sphere(0, 10, 0, 2*math.Pi, 0, math.Pi, 16)
	wedge := tessellate.Sphere(0, 10, 0, math.Pi, 0, math.Pi, 16)
	// 16 phi x 8 theta quads, two triangles each, and nothing else.
	if full.TriangleCount() != 256 {
		t.Errorf("full shell TriangleCount = %d, want 256 (surface only)", full.TriangleCount())
	}
	if wedge.TriangleCount() <= full.TriangleCount() {
		t.Errorf("phi-wedged sphere should have more triangles than a full shell: got %d <= %d", wedge.TriangleCount(), full.TriangleCount())
	}
}

func TestSphereThetaCutAddsCaps(t *testing.T) {
	full := tessellate.Sphere(0, 10, 0, 2*math.Pi, 0, math.Pi, 16)
	capped := tessellate.Sphere(0, 10, 0, 2*math.Pi, 0.2, math.Pi-0.4, 16)
	if capped.TriangleCount() <= full.TriangleCount() {
		t.Errorf("theta-cut sphere should have more triangles (polar caps) than a full shell: got %d <= %d", capped.TriangleCount(), full.TriangleCount())
	}
}

func TestTessellateAllMeshesEverySupportedSolid(t *testing.T) {
	solids := gdml.SolidSection{
		Solids: []gdml.Solid{
			&gdml.BoxSolid{Name: "good", X: "10", Y: "10", Z: "10"},
			&gdml.TubeSolid{Name: "also_good", Rmax: "5", Z: "10"},
		},
	}
	vt := expr.NewValueTable()
	meshes, warnings := tessellate.TessellateAll(solids, vt, 16)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if _, ok := meshes["good"]; !ok {
		t.Error("expected mesh for 'good'")
	}
	if _, ok := meshes["also_good"]; !ok {
		t.Error("expected mesh for 'also_good'")
	}
}

func TestResolveWithLunitSkipsDoubleConversionForNamedVariable(t *testing.T) {
	vt := expr.NewValueTable()
	vt.Scalars["world_x"] = 500 // pretend this was already converted to mm by expr.Evaluate
	solids := gdml.SolidSection{
		Solids: []gdml.Solid{
			&gdml.BoxSolid{Name: "b", X: "world_x", Y: "1", Z: "1", Lunit: "cm"},
		},
	}
	meshes, warnings := tessellate.TessellateAll(solids, vt, 16)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	m := meshes["b"]
	// The box's +X face sits at x=hx=world_x/2=250; if the named variable
	// were wrongly re-converted via cm->mm (x10), hx would be 2500 instead.
	var maxX float32
	for i := 0; i < len(m.Positions); i += 3 {
		if m.Positions[i] > maxX {
			maxX = m.Positions[i]
		}
	}
	if maxX != 250 {
		t.Errorf("max X = %v, want 250 (no double lunit conversion for named variable)", maxX)
	}
}
