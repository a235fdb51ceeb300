// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene_test

import (
	"testing"

	"github.com/davsar89/GDML-Studio/gdml"
	"github.com/davsar89/GDML-Studio/scene"
)

func TestMergeResolvesFileRefByWorldRef(t *testing.T) {
	main := &gdml.Document{
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{
					Name: "World",
					PhysVols: []gdml.PhysVol{
						{Name: "child1", FileRef: "sub.gdml"},
					},
				},
			},
		},
	}
	sub := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "SubWorld"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{{Name: "SubWorld", SolidRef: "box1"}},
		},
		Solids: gdml.SolidSection{
			Solids: []gdml.Solid{&gdml.BoxSolid{Name: "box1", X: "1", Y: "1", Z: "1"}},
		},
	}

	warnings := scene.Merge(main, map[string]*gdml.Document{"sub.gdml": sub})
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}

	pv := main.Structure.Volumes[0].PhysVols[0]
	if pv.VolumeRef != "SubWorld" {
		t.Errorf("VolumeRef = %q, want %q", pv.VolumeRef, "SubWorld")
	}
	if pv.FileRef != "" {
		t.Errorf("FileRef = %q, want empty after resolution", pv.FileRef)
	}
	if len(main.Structure.Volumes) != 2 {
		t.Errorf("len(Volumes) = %d, want 2 (World + merged SubWorld)", len(main.Structure.Volumes))
	}
	if len(main.Solids.Solids) != 1 {
		t.Errorf("len(Solids) = %d, want 1 (merged box1)", len(main.Solids.Solids))
	}
}

func TestMergeVolnameOverridesWorldRef(t *testing.T) {
	main := &gdml.Document{
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{
					Name: "World",
					PhysVols: []gdml.PhysVol{
						{Name: "child1", FileRef: "sub.gdml", FileRefVolName: "Other"},
					},
				},
			},
		},
	}
	sub := &gdml.Document{
		Setup: gdml.SetupSection{WorldRef: "SubWorld"},
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{Name: "SubWorld"},
				{Name: "Other"},
			},
		},
	}

	scene.Merge(main, map[string]*gdml.Document{"sub.gdml": sub})
	if main.Structure.Volumes[0].PhysVols[0].VolumeRef != "Other" {
		t.Errorf("VolumeRef = %q, want %q (volname override)", main.Structure.Volumes[0].PhysVols[0].VolumeRef, "Other")
	}
}

func TestMergeMissingFileWarnsAndLeavesFileRefIntact(t *testing.T) {
	main := &gdml.Document{
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{
					Name: "World",
					PhysVols: []gdml.PhysVol{
						{Name: "child1", FileRef: "missing.gdml"},
					},
				},
			},
		},
	}

	warnings := scene.Merge(main, map[string]*gdml.Document{})
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if main.Structure.Volumes[0].PhysVols[0].FileRef != "missing.gdml" {
		t.Error("FileRef should be left intact when the sibling file is missing")
	}
}

func TestMergeNoTargetVolumeWarns(t *testing.T) {
	main := &gdml.Document{
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{
					Name: "World",
					PhysVols: []gdml.PhysVol{
						{Name: "child1", FileRef: "sub.gdml"},
					},
				},
			},
		},
	}
	sub := &gdml.Document{} // no world_ref, no volname override

	warnings := scene.Merge(main, map[string]*gdml.Document{"sub.gdml": sub})
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
}

func TestMergeDoesNotDuplicateExistingNames(t *testing.T) {
	main := &gdml.Document{
		Structure: gdml.StructureSection{
			Volumes: []gdml.Volume{
				{Name: "World", PhysVols: []gdml.PhysVol{{FileRef: "sub.gdml"}}},
				{Name: "Shared"},
			},
		},
	}
	sub := &gdml.Document{
		Setup:     gdml.SetupSection{WorldRef: "Shared"},
		Structure: gdml.StructureSection{Volumes: []gdml.Volume{{Name: "Shared"}}},
	}

	scene.Merge(main, map[string]*gdml.Document{"sub.gdml": sub})
	if len(main.Structure.Volumes) != 2 {
		t.Errorf("len(Volumes) = %d, want 2 (no duplicate of 'Shared')", len(main.Structure.Volumes))
	}
}
