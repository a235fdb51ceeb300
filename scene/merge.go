// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene merges multi-file GDML documents and builds the placed
// scene graph that a renderer walks.
package scene

import (
	"fmt"

	"github.com/davsar89/GDML-Studio/gdml"
)

// Merge resolves every physvol in main that carries a file_ref into a
// sibling document (keyed by filename in siblings), folding the sibling's
// defines/elements/materials/solids/volumes into main and rewriting the
// physvol to reference the resolved volume directly. main is mutated in
// place. Warnings are returned for any physvol that could not be resolved;
// they never abort the merge.
func Merge(main *gdml.Document, siblings map[string]*gdml.Document) []string {
	var warnings []string

	for vi := range main.Structure.Volumes {
		vol := &main.Structure.Volumes[vi]
		for pi := range vol.PhysVols {
			pv := &vol.PhysVols[pi]
			if pv.FileRef == "" {
				continue
			}

			child, ok := siblings[pv.FileRef]
			if !ok {
				warnings = append(warnings, fmt.Sprintf(
					"physvol %q in volume %q references unknown file %q", pv.Name, vol.Name, pv.FileRef))
				continue
			}

			target := pv.FileRefVolName
			if target == "" {
				target = child.Setup.WorldRef
			}
			if target == "" {
				warnings = append(warnings, fmt.Sprintf(
					"physvol %q in volume %q: file %q has no target volume (no volname override and no world_ref)",
					pv.Name, vol.Name, pv.FileRef))
				continue
			}

			mergeDefines(main, child)
			mergeElements(main, child)
			mergeMaterials(main, child)
			mergeSolids(main, child)
			mergeVolumes(main, child)

			pv.VolumeRef = target
			pv.FileRef = ""
		}
	}

	return warnings
}

func mergeDefines(main, child *gdml.Document) {
	main.Defines.Constants = append(main.Defines.Constants, child.Defines.Constants...)
	main.Defines.Quantities = append(main.Defines.Quantities, child.Defines.Quantities...)
	main.Defines.Variables = append(main.Defines.Variables, child.Defines.Variables...)
	main.Defines.Expressions = append(main.Defines.Expressions, child.Defines.Expressions...)
	main.Defines.Positions = append(main.Defines.Positions, child.Defines.Positions...)
	main.Defines.Rotations = append(main.Defines.Rotations, child.Defines.Rotations...)
}

func mergeElements(main, child *gdml.Document) {
	have := make(map[string]bool, len(main.Materials.Elements))
	for _, e := range main.Materials.Elements {
		have[e.Name] = true
	}
	for _, e := range child.Materials.Elements {
		if !have[e.Name] {
			main.Materials.Elements = append(main.Materials.Elements, e)
			have[e.Name] = true
		}
	}
}

func mergeMaterials(main, child *gdml.Document) {
	have := make(map[string]bool, len(main.Materials.Materials))
	for _, m := range main.Materials.Materials {
		have[m.Name] = true
	}
	for _, m := range child.Materials.Materials {
		if !have[m.Name] {
			main.Materials.Materials = append(main.Materials.Materials, m)
			have[m.Name] = true
		}
	}
}

func mergeSolids(main, child *gdml.Document) {
	have := make(map[string]bool, len(main.Solids.Solids))
	for _, s := range main.Solids.Solids {
		have[s.SolidName()] = true
	}
	for _, s := range child.Solids.Solids {
		if !have[s.SolidName()] {
			main.Solids.Solids = append(main.Solids.Solids, s)
			have[s.SolidName()] = true
		}
	}
}

func mergeVolumes(main, child *gdml.Document) {
	have := make(map[string]bool, len(main.Structure.Volumes))
	for _, v := range main.Structure.Volumes {
		have[v.Name] = true
	}
	for _, v := range child.Structure.Volumes {
		if !have[v.Name] {
			main.Structure.Volumes = append(main.Structure.Volumes, v)
			have[v.Name] = true
		}
	}
}
