// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene_test

import (
	"testing"

	"github.com/davsar89/GDML-Studio/expr"
	"github.com/davsar89/GDML-Studio/gdml"
	"github.com/davsar89/GDML-Studio/scene"
)

func TestBuildGraphMissingWorldReturnsStub(t *testing.T) {
	doc := &gdml.Document{Setup: gdml.SetupSection{WorldRef: "NoSuchVolume"}}
	node := scene.BuildGraph(doc, expr.NewValueTable())
	if node.Name != "World" || !node.IsWorld {
		t.Fatalf("stub node = %+v, want World/IsWorld", node)
	}
	if node.VolumeName != "NoSuchVolume" {
		t.Errorf("VolumeName = %q, want %q", node.VolumeName, "NoSuchVolume")
	}
	if len(node.Children) != 0 {
		t.Errorf("stub node should have no children, got %d", len(node.Children))
	}
}

func TestBuildGraphDepthFirstPlacement(t *testing.T) {
	doc := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "World"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{
					Name:        "World",
					MaterialRef: "Air",
					PhysVols: []gdml.PhysVol{
						{
							Name:      "det1",
							VolumeRef: "Detector",
							Position: &gdml.PlacementPos{Inline: &gdml.Position{
								X: "10", Y: "0", Z: "0", Unit: "cm",
							}},
						},
					},
				},
				{Name: "Detector", MaterialRef: "Silicon", SolidRef: "box1"},
			},
		},
	}
	vt := expr.NewValueTable()

	root := scene.BuildGraph(doc, vt)
	if root.Name != "World" || !root.IsWorld {
		t.Fatalf("root = %+v, want World", root)
	}
	if len(root.Children) != 1 {
		t.Fatalf("len(root.Children) = %d, want 1", len(root.Children))
	}
	child := root.Children[0]
	if child.Name != "Detector" {
		t.Errorf("child.Name = %q, want %q (volume name, not instance name)", child.Name, "Detector")
	}
	if child.Position.X != 100 {
		t.Errorf("child.Position.X = %v, want 100 (10cm in mm)", child.Position.X)
	}
	if child.IsWorld {
		t.Error("child should not be IsWorld")
	}
}

func TestBuildGraphCycleGuardSkipsSubtree(t *testing.T) {
	doc := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "A"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{Name: "A", PhysVols: []gdml.PhysVol{{VolumeRef: "B"}}},
				{Name: "B", PhysVols: []gdml.PhysVol{{VolumeRef: "A"}}},
			},
		},
	}
	root := scene.BuildGraph(doc, expr.NewValueTable())
	if len(root.Children) != 1 {
		t.Fatalf("len(root.Children) = %d, want 1", len(root.Children))
	}
	b := root.Children[0]
	if len(b.Children) != 0 {
		t.Errorf("cyclic child should be omitted, got %d children under B", len(b.Children))
	}
}

func TestBuildGraphColorFromFirstColorAuxiliary(t *testing.T) {
	doc := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "World"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{
					Name: "World",
					Auxiliaries: []gdml.Auxiliary{
						{AuxType: "other", AuxValue: "ignored"},
						{AuxType: "color", AuxValue: "#ff0000"},
					},
				},
			},
		},
	}
	root := scene.BuildGraph(doc, expr.NewValueTable())
	if root.Color != "#ff0000" {
		t.Errorf("Color = %q, want %q", root.Color, "#ff0000")
	}
}

func TestBuildGraphDensityConversion(t *testing.T) {
	doc := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "World"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{{Name: "World", MaterialRef: "Steel"}},
		},
		Materials: gdml.MaterialSection{
			Materials: []gdml.Material{
				{Name: "Steel", Density: &gdml.Density{Value: "7850", Unit: "kg/m3"}},
			},
		},
	}
	root := scene.BuildGraph(doc, expr.NewValueTable())
	if root.Density == nil {
		t.Fatal("Density is nil, want resolved value")
	}
	if *root.Density != 7.85 {
		t.Errorf("Density = %v, want 7.85 (7850 kg/m3 -> g/cm3)", *root.Density)
	}
}

func TestBuildGraphDensityAssumedGramsPerCC(t *testing.T) {
	doc := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "World"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{{Name: "World", MaterialRef: "Lead"}},
		},
		Materials: gdml.MaterialSection{
			Materials: []gdml.Material{
				{Name: "Lead", Density: &gdml.Density{Value: "11.35", Unit: "g/cm3"}},
			},
		},
	}
	root := scene.BuildGraph(doc, expr.NewValueTable())
	if root.Density == nil || *root.Density != 11.35 {
		t.Errorf("Density = %v, want 11.35 unconverted", root.Density)
	}
}

func TestBuildGraphTransformsNotComposed(t *testing.T) {
	doc := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "World"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{
					Name: "World",
					PhysVols: []gdml.PhysVol{{
						VolumeRef: "Mid",
						Position:  &gdml.PlacementPos{Inline: &gdml.Position{X: "100", Unit: "mm"}},
					}},
				},
				{
					Name: "Mid",
					PhysVols: []gdml.PhysVol{{
						VolumeRef: "Leaf",
						Position:  &gdml.PlacementPos{Inline: &gdml.Position{X: "50", Unit: "mm"}},
					}},
				},
				{Name: "Leaf"},
			},
		},
	}
	root := scene.BuildGraph(doc, expr.NewValueTable())
	leaf := root.Children[0].Children[0]
	if leaf.Position.X != 50 {
		t.Errorf("leaf.Position.X = %v, want 50 (raw placement, not composed with ancestor's 100)", leaf.Position.X)
	}
}
