package scene

import (
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/davsar89/GDML-Studio/expr"
	"github.com/davsar89/GDML-Studio/gdml"
)

// SceneNode is one placed volume instance in the scene tree. Transforms
// are not composed: Position/Rotation are exactly the placement of the
// physvol that introduced this node, in world-space millimeters/radians;
// composing ancestor transforms is left to the consumer.
type SceneNode struct {
	Name         string
	VolumeName   string
	SolidName    string
	MaterialName string
	Color        string
	Density      *float64 // g/cm^3, nil if the material has no resolvable density
	Position     r3.Vector
	Rotation     r3.Vector
	IsWorld      bool
	Children     []*SceneNode
}

// BuildGraph walks d's structure depth-first from d.Setup.WorldRef,
// resolving every placement via vt, and returns the root node. If the
// world volume cannot be found, it returns a childless stub node named
// "World" recording the unresolved reference.
func BuildGraph(d *gdml.Document, vt *expr.ValueTable) *SceneNode {
	volByName := make(map[string]*gdml.Volume, len(d.Structure.Volumes))
	for i := range d.Structure.Volumes {
		volByName[d.Structure.Volumes[i].Name] = &d.Structure.Volumes[i]
	}

	densityByMaterial := buildDensityMap(d.Materials.Materials)

	world, ok := volByName[d.Setup.WorldRef]
	if !ok {
		return &SceneNode{
			Name:       "World",
			VolumeName: d.Setup.WorldRef,
			IsWorld:    true,
		}
	}

	visited := map[string]bool{}
	return buildVolumeNode(world, volByName, densityByMaterial, vt,
		r3.Vector{}, r3.Vector{}, true, visited)
}

func buildDensityMap(materials []gdml.Material) map[string]float64 {
	m := make(map[string]float64, len(materials))
	for _, mat := range materials {
		if mat.Density == nil {
			continue
		}
		raw, err := strconv.ParseFloat(strings.TrimSpace(mat.Density.Value), 64)
		if err != nil {
			golog.Global.Errorf("material %q: bad density value %q: %v", mat.Name, mat.Density.Value, err)
			continue
		}
		switch mat.Density.Unit {
		case "kg/m3", "kg/m³", "mg/cm3", "mg/cm³":
			m[mat.Name] = raw / 1000.0
		default:
			m[mat.Name] = raw
		}
	}
	return m
}

func buildVolumeNode(
	vol *gdml.Volume,
	volByName map[string]*gdml.Volume,
	densityByMaterial map[string]float64,
	vt *expr.ValueTable,
	position, rotation r3.Vector,
	isWorld bool,
	visited map[string]bool,
) *SceneNode {
	node := &SceneNode{
		Name:         vol.Name,
		VolumeName:   vol.Name,
		SolidName:    vol.SolidRef,
		MaterialName: vol.MaterialRef,
		Position:     position,
		Rotation:     rotation,
		IsWorld:      isWorld,
	}

	for _, aux := range vol.Auxiliaries {
		if aux.AuxType == "color" {
			node.Color = aux.AuxValue
			break
		}
	}

	if d, ok := densityByMaterial[vol.MaterialRef]; ok {
		density := d
		node.Density = &density
	}

	visited[vol.Name] = true
	for _, pv := range vol.PhysVols {
		if visited[pv.VolumeRef] {
			golog.Global.Errorf("cycle detected: volume %q places already-visited volume %q, skipping subtree", vol.Name, pv.VolumeRef)
			continue
		}
		child, ok := volByName[pv.VolumeRef]
		if !ok {
			golog.Global.Errorf("volume %q places unknown volume %q, skipping", vol.Name, pv.VolumeRef)
			continue
		}

		pos := vt.ResolvePosition(pv.Position)
		rot := vt.ResolveRotation(pv.Rotation)

		node.Children = append(node.Children, buildVolumeNode(
			child, volByName, densityByMaterial, vt,
			r3.Vector{X: pos[0], Y: pos[1], Z: pos[2]},
			r3.Vector{X: rot[0], Y: rot[1], Z: rot[2]},
			false, visited,
		))
	}
	delete(visited, vol.Name)

	return node
}
