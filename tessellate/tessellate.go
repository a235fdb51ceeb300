package tessellate

import (
	"fmt"
	"math"
	"strings"

	"github.com/edaniels/golog"

	"github.com/davsar89/GDML-Studio/expr"
	"github.com/davsar89/GDML-Studio/gdml"
)

// TessellateAll builds a mesh for every solid in solids, using vt to
// resolve dimension expressions. A solid that fails to tessellate is
// skipped, and a one-line message describing the failure is appended to
// the returned warnings, so that one malformed solid never blocks the
// rest of a document's meshes.
func TessellateAll(solids gdml.SolidSection, vt *expr.ValueTable, segments uint32) (map[string]TriangleMesh, []string) {
	meshes := make(map[string]TriangleMesh, len(solids.Solids))
	var warnings []string

	for _, solid := range solids.Solids {
		name := solid.SolidName()
		mesh, err := tessellateSolid(solid, vt, segments)
		if err != nil {
			msg := (&TessellationError{SolidName: name, Err: err}).Error()
			golog.Global.Error(msg)
			warnings = append(warnings, msg)
			continue
		}
		meshes[name] = mesh
	}

	return meshes, warnings
}

func tessellateSolid(solid gdml.Solid, vt *expr.ValueTable, segments uint32) (TriangleMesh, error) {
	switch s := solid.(type) {
	case *gdml.BoxSolid:
		return tessellateBoxSolid(s, vt), nil
	case *gdml.TubeSolid:
		return tessellateTubeSolid(s, vt, segments), nil
	case *gdml.ConeSolid:
		return tessellateConeSolid(s, vt, segments), nil
	case *gdml.SphereSolid:
		return tessellateSphereSolid(s, vt, segments), nil
	default:
		return TriangleMesh{}, fmt.Errorf("unsupported solid type %T", solid)
	}
}

// resolveWithLunit resolves a length expression, applying lunit conversion
// only to literal values. When the expression is itself the bare name of
// an already-evaluated scalar, that scalar was converted to millimeters
// once already by expr.Evaluate, so re-applying the conversion here would
// double it.
func resolveWithLunit(vt *expr.ValueTable, e, lunit string) float64 {
	val := vt.ResolveScalar(e)
	if _, ok := vt.Scalars[strings.TrimSpace(e)]; ok {
		return val
	}
	return expr.LengthToMM(val, lunit)
}

func resolveOptWithLunit(vt *expr.ValueTable, e, lunit string) float64 {
	if e == "" {
		return 0
	}
	return resolveWithLunit(vt, e, lunit)
}

func resolveOpt(vt *expr.ValueTable, e string) float64 {
	if e == "" {
		return 0
	}
	return vt.ResolveScalar(e)
}

func unitOr(u, def string) string {
	if u == "" {
		return def
	}
	return u
}

func tessellateBoxSolid(s *gdml.BoxSolid, vt *expr.ValueTable) TriangleMesh {
	lunit := unitOr(s.Lunit, expr.DefaultLengthUnit)
	x := resolveWithLunit(vt, s.X, lunit)
	y := resolveWithLunit(vt, s.Y, lunit)
	z := resolveWithLunit(vt, s.Z, lunit)
	return Box(x, y, z)
}

func tessellateTubeSolid(s *gdml.TubeSolid, vt *expr.ValueTable, segments uint32) TriangleMesh {
	lunit := unitOr(s.Lunit, expr.DefaultLengthUnit)
	aunit := unitOr(s.Aunit, expr.DefaultAngleUnit)
	rmin := resolveOptWithLunit(vt, s.Rmin, lunit)
	rmax := resolveWithLunit(vt, s.Rmax, lunit)
	z := resolveWithLunit(vt, s.Z, lunit)
	startphi := expr.AngleToRad(resolveOpt(vt, s.Startphi), aunit)
	deltaphi := 2.0 * math.Pi
	if s.Deltaphi != "" {
		deltaphi = expr.AngleToRad(vt.ResolveScalar(s.Deltaphi), aunit)
	}
	return Tube(rmin, rmax, z, startphi, deltaphi, segments)
}

func tessellateConeSolid(s *gdml.ConeSolid, vt *expr.ValueTable, segments uint32) TriangleMesh {
	lunit := unitOr(s.Lunit, expr.DefaultLengthUnit)
	aunit := unitOr(s.Aunit, expr.DefaultAngleUnit)
	rmin1 := resolveOptWithLunit(vt, s.Rmin1, lunit)
	rmax1 := resolveWithLunit(vt, s.Rmax1, lunit)
	rmin2 := resolveOptWithLunit(vt, s.Rmin2, lunit)
	rmax2 := resolveWithLunit(vt, s.Rmax2, lunit)
	z := resolveWithLunit(vt, s.Z, lunit)
	startphi := expr.AngleToRad(resolveOpt(vt, s.Startphi), aunit)
	deltaphi := 2.0 * math.Pi
	if s.Deltaphi != "" {
		deltaphi = expr.AngleToRad(vt.ResolveScalar(s.Deltaphi), aunit)
	}
	return Cone(rmin1, rmax1, rmin2, rmax2, z, startphi, deltaphi, segments)
}

func tessellateSphereSolid(s *gdml.SphereSolid, vt *expr.ValueTable, segments uint32) TriangleMesh {
	lunit := unitOr(s.Lunit, expr.DefaultLengthUnit)
	aunit := unitOr(s.Aunit, expr.DefaultAngleUnit)
	rmin := resolveOptWithLunit(vt, s.Rmin, lunit)
	rmax := resolveWithLunit(vt, s.Rmax, lunit)
	startphi := expr.AngleToRad(resolveOpt(vt, s.Startphi), aunit)
	deltaphi := 2.0 * math.Pi
	if s.Deltaphi != "" {
		deltaphi = expr.AngleToRad(vt.ResolveScalar(s.Deltaphi), aunit)
	}
	starttheta := expr.AngleToRad(resolveOpt(vt, s.Starttheta), aunit)
	deltatheta := math.Pi
	if s.Deltatheta != "" {
		deltatheta = expr.AngleToRad(vt.ResolveScalar(s.Deltatheta), aunit)
	}
	return Sphere(rmin, rmax, startphi, deltaphi, starttheta, deltatheta, segments)
}
