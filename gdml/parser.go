package gdml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// section tracks which GDML block the parser is currently inside. GDML
// nests a <define> inside <materials> as well as at the top level, so the
// two need distinct states to route <quantity> correctly.
type section int

const (
	sectionNone section = iota
	sectionDefine
	sectionMaterials
	sectionMaterialsDefine
	sectionSolids
	sectionStructure
)

// Parse reads a complete GDML document from data. The parser is a single
// forward pass over encoding/xml's token stream; it does not build a DOM.
// Element names are matched on their local part only, so a document using
// namespace prefixes (e.g. <gdml:box .../>) parses identically to one that
// doesn't.
func Parse(data []byte, filename string) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	doc := &Document{Filename: filename}
	sect := sectionNone
	haveSetup := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Filename: filename, Offset: dec.InputOffset(), Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch name {
			case "gdml":
				// document root: descend into its children
			case "define":
				if sect == sectionMaterials {
					sect = sectionMaterialsDefine
				} else {
					sect = sectionDefine
				}
			case "materials":
				sect = sectionMaterials
			case "solids":
				sect = sectionSolids
			case "structure":
				sect = sectionStructure

			case "constant":
				if sect == sectionDefine {
					doc.Defines.Constants = append(doc.Defines.Constants, Constant{
						Name:  attr(t, "name"),
						Value: attr(t, "value"),
					})
				}
				skip(dec)
			case "quantity":
				if sect == sectionDefine || sect == sectionMaterialsDefine {
					doc.Defines.Quantities = append(doc.Defines.Quantities, Quantity{
						Name:  attr(t, "name"),
						Type:  attr(t, "type"),
						Value: attr(t, "value"),
						Unit:  attr(t, "unit"),
					})
				}
				skip(dec)
			case "variable":
				if sect == sectionDefine {
					doc.Defines.Variables = append(doc.Defines.Variables, Variable{
						Name:  attr(t, "name"),
						Value: attr(t, "value"),
					})
				}
				skip(dec)
			case "expression":
				text, _ := readCharData(dec, t.Name)
				if sect == sectionDefine {
					doc.Defines.Expressions = append(doc.Defines.Expressions, Expression{
						Name:  attr(t, "name"),
						Value: collapseSpaces(text),
					})
				}
			case "position":
				if sect == sectionDefine {
					doc.Defines.Positions = append(doc.Defines.Positions, Position{
						Name: attr(t, "name"),
						X:    attr(t, "x"),
						Y:    attr(t, "y"),
						Z:    attr(t, "z"),
						Unit: attr(t, "unit"),
					})
				}
				skip(dec)
			case "rotation":
				if sect == sectionDefine {
					doc.Defines.Rotations = append(doc.Defines.Rotations, Rotation{
						Name: attr(t, "name"),
						X:    attr(t, "x"),
						Y:    attr(t, "y"),
						Z:    attr(t, "z"),
						Unit: attr(t, "unit"),
					})
				}
				skip(dec)

			case "element":
				if sect == sectionMaterials {
					el, err := parseElementBody(dec, t)
					if err != nil {
						return nil, &ParseError{Filename: filename, Offset: dec.InputOffset(), Err: err}
					}
					doc.Materials.Elements = append(doc.Materials.Elements, el)
				} else {
					skip(dec)
				}
			case "material":
				if sect == sectionMaterials {
					mat, err := parseMaterialBody(dec, t)
					if err != nil {
						return nil, &ParseError{Filename: filename, Offset: dec.InputOffset(), Err: err}
					}
					doc.Materials.Materials = append(doc.Materials.Materials, mat)
				} else {
					skip(dec)
				}

			case "box":
				if sect == sectionSolids {
					doc.Solids.Solids = append(doc.Solids.Solids, &BoxSolid{
						Name:  attr(t, "name"),
						X:     attrOr(t, "x", "0"),
						Y:     attrOr(t, "y", "0"),
						Z:     attrOr(t, "z", "0"),
						Lunit: attr(t, "lunit"),
					})
				}
				skip(dec)
			case "tube":
				if sect == sectionSolids {
					doc.Solids.Solids = append(doc.Solids.Solids, &TubeSolid{
						Name:     attr(t, "name"),
						Rmin:     attr(t, "rmin"),
						Rmax:     attrOr(t, "rmax", "0"),
						Z:        attrOr(t, "z", "0"),
						Startphi: attr(t, "startphi"),
						Deltaphi: attr(t, "deltaphi"),
						Aunit:    attr(t, "aunit"),
						Lunit:    attr(t, "lunit"),
					})
				}
				skip(dec)
			case "cone":
				if sect == sectionSolids {
					doc.Solids.Solids = append(doc.Solids.Solids, &ConeSolid{
						Name:     attr(t, "name"),
						Rmin1:    attr(t, "rmin1"),
						Rmax1:    attrOr(t, "rmax1", "0"),
						Rmin2:    attr(t, "rmin2"),
						Rmax2:    attrOr(t, "rmax2", "0"),
						Z:        attrOr(t, "z", "0"),
						Startphi: attr(t, "startphi"),
						Deltaphi: attr(t, "deltaphi"),
						Aunit:    attr(t, "aunit"),
						Lunit:    attr(t, "lunit"),
					})
				}
				skip(dec)
			case "sphere":
				if sect == sectionSolids {
					doc.Solids.Solids = append(doc.Solids.Solids, &SphereSolid{
						Name:       attr(t, "name"),
						Rmin:       attr(t, "rmin"),
						Rmax:       attrOr(t, "rmax", "0"),
						Startphi:   attr(t, "startphi"),
						Deltaphi:   attr(t, "deltaphi"),
						Starttheta: attr(t, "starttheta"),
						Deltatheta: attr(t, "deltatheta"),
						Aunit:      attr(t, "aunit"),
						Lunit:      attr(t, "lunit"),
					})
				}
				skip(dec)

			case "volume":
				if sect == sectionStructure {
					vol, err := parseVolumeBody(dec, attr(t, "name"))
					if err != nil {
						return nil, &ParseError{Filename: filename, Offset: dec.InputOffset(), Err: err}
					}
					doc.Structure.Volumes = append(doc.Structure.Volumes, vol)
				} else {
					skip(dec)
				}

			case "setup":
				name := attr(t, "name")
				version := attrOr(t, "version", "1.0")
				worldRef, err := parseSetupBody(dec)
				if err != nil {
					return nil, &ParseError{Filename: filename, Offset: dec.InputOffset(), Err: err}
				}
				doc.Setup = SetupSection{Name: name, Version: version, WorldRef: worldRef}
				haveSetup = true

			default:
				// unrecognized element: skip its subtree and move on
				skip(dec)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "define":
				if sect == sectionMaterialsDefine {
					sect = sectionMaterials
				} else if sect == sectionDefine {
					sect = sectionNone
				}
			case "materials":
				sect = sectionNone
			case "solids":
				sect = sectionNone
			case "structure":
				sect = sectionNone
			}
		}
	}

	if !haveSetup {
		doc.Setup = SetupSection{Name: "default", Version: "1.0"}
	}
	return doc, nil
}

// skip discards tokens up to and including the matching end element for the
// most recently returned start element. It is a no-op, safely, for elements
// with no body.
func skip(dec *xml.Decoder) {
	_ = dec.Skip()
}

// readCharData accumulates character data until the end element matching
// name, returning the concatenated text.
func readCharData(dec *xml.Decoder, name xml.Name) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return sb.String(), err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == name.Local {
				return sb.String(), nil
			}
		}
	}
}

// collapseSpaces mirrors GDML's habit of wrapping expression bodies across
// lines: runs of whitespace become a single space, and the result is
// trimmed.
func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrOr(t xml.StartElement, name, def string) string {
	if v := attr(t, name); v != "" {
		return v
	}
	return def
}

func parseElementBody(dec *xml.Decoder, start xml.StartElement) (Element, error) {
	el := Element{
		Name:    attr(start, "name"),
		Formula: attr(start, "formula"),
		Z:       attr(start, "Z"),
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return el, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "atom" {
				el.AtomValue = attr(t, "value")
			}
			skip(dec)
		case xml.EndElement:
			if t.Name.Local == "element" {
				return el, nil
			}
		}
	}
}

func parseMaterialBody(dec *xml.Decoder, start xml.StartElement) (Material, error) {
	mat := Material{
		Name:    attr(start, "name"),
		Formula: attr(start, "formula"),
		Z:       attr(start, "Z"),
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return mat, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "D":
				mat.Density = &Density{Value: attr(t, "value"), Unit: attr(t, "unit")}
			case "Dref":
				mat.DensityRef = attr(t, "ref")
			case "T":
				mat.Temperature = &PropertyValue{Value: attr(t, "value"), Unit: attr(t, "unit")}
			case "P":
				mat.Pressure = &PropertyValue{Value: attr(t, "value"), Unit: attr(t, "unit")}
			case "atom":
				mat.AtomValue = attr(t, "value")
			case "fraction":
				mat.Components = append(mat.Components, MaterialComponent{
					Kind: ComponentFraction,
					N:    attr(t, "n"),
					Ref:  attr(t, "ref"),
				})
			case "composite":
				mat.Components = append(mat.Components, MaterialComponent{
					Kind: ComponentComposite,
					N:    attr(t, "n"),
					Ref:  attr(t, "ref"),
				})
			}
			skip(dec)
		case xml.EndElement:
			if t.Name.Local == "material" {
				return mat, nil
			}
		}
	}
}

func parseVolumeBody(dec *xml.Decoder, name string) (Volume, error) {
	vol := Volume{Name: name}
	for {
		tok, err := dec.Token()
		if err != nil {
			return vol, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "materialref":
				vol.MaterialRef = attr(t, "ref")
				skip(dec)
			case "solidref":
				vol.SolidRef = attr(t, "ref")
				skip(dec)
			case "auxiliary":
				vol.Auxiliaries = append(vol.Auxiliaries, Auxiliary{
					AuxType:  attr(t, "auxtype"),
					AuxValue: attr(t, "auxvalue"),
				})
				skip(dec)
			case "physvol":
				pv, err := parsePhysVolBody(dec, t)
				if err != nil {
					return vol, err
				}
				vol.PhysVols = append(vol.PhysVols, pv)
			default:
				skip(dec)
			}
		case xml.EndElement:
			if t.Name.Local == "volume" {
				return vol, nil
			}
		}
	}
}

func parsePhysVolBody(dec *xml.Decoder, start xml.StartElement) (PhysVol, error) {
	pv := PhysVol{
		Name:           attr(start, "name"),
		FileRef:        attr(start, "file_ref"),
		FileRefVolName: attr(start, "volname"),
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return pv, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "volumeref":
				pv.VolumeRef = attr(t, "ref")
				skip(dec)
			case "position":
				pv.Position = &PlacementPos{Inline: &Position{
					Name: attr(t, "name"),
					X:    attr(t, "x"),
					Y:    attr(t, "y"),
					Z:    attr(t, "z"),
					Unit: attr(t, "unit"),
				}}
				skip(dec)
			case "positionref":
				pv.Position = &PlacementPos{Ref: attr(t, "ref")}
				skip(dec)
			case "rotation":
				pv.Rotation = &PlacementRot{Inline: &Rotation{
					Name: attr(t, "name"),
					X:    attr(t, "x"),
					Y:    attr(t, "y"),
					Z:    attr(t, "z"),
					Unit: attr(t, "unit"),
				}}
				skip(dec)
			case "rotationref":
				pv.Rotation = &PlacementRot{Ref: attr(t, "ref")}
				skip(dec)
			default:
				skip(dec)
			}
		case xml.EndElement:
			if t.Name.Local == "physvol" {
				return pv, nil
			}
		}
	}
}

func parseSetupBody(dec *xml.Decoder) (string, error) {
	worldRef := ""
	for {
		tok, err := dec.Token()
		if err != nil {
			return worldRef, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "world" {
				worldRef = attr(t, "ref")
			}
			skip(dec)
		case xml.EndElement:
			if t.Name.Local == "setup" {
				return worldRef, nil
			}
		}
	}
}
