package tessellate

import "math"

// Sphere tessellates a GDML <sphere>: a spherical shell with an optional
// inner bore (rmin) and optional phi/theta wedges.
func Sphere(rmin, rmax, startphi, deltaphi, starttheta, deltatheta float64, segments uint32) TriangleMesh {
	seg := segments
	if seg < 4 {
		seg = 4
	}
	phiSeg := seg
	thetaSeg := seg / 2
	hasHole := rmin > 1e-10
	fullPhi := math.Abs(deltaphi-2.0*math.Pi) < 1e-6
	fullTheta := math.Abs(starttheta) < 1e-6 && math.Abs(deltatheta-math.Pi) < 1e-6

	var positions []float32
	var normals []float32
	var indices []uint32

	addSphereSurface(&positions, &normals, &indices, rmax, startphi, deltaphi, starttheta, deltatheta, phiSeg, thetaSeg, false)

	if hasHole {
		addSphereSurface(&positions, &normals, &indices, rmin, startphi, deltaphi, starttheta, deltatheta, phiSeg, thetaSeg, true)
	}

	if !fullPhi {
		addPhiWedgeFace(&positions, &normals, &indices, startphi, rmin, rmax, starttheta, deltatheta, thetaSeg, hasHole, true)
		addPhiWedgeFace(&positions, &normals, &indices, startphi+deltaphi, rmin, rmax, starttheta, deltatheta, thetaSeg, hasHole, false)
	}

	if !fullTheta {
		thetaStartCut := math.Abs(starttheta) > 1e-6
		thetaEndCut := math.Abs((starttheta+deltatheta)-math.Pi) > 1e-6

		if thetaStartCut {
			addThetaCap(&positions, &normals, &indices, starttheta, startphi, deltaphi, rmin, rmax, phiSeg, hasHole, true)
		}
		if thetaEndCut {
			addThetaCap(&positions, &normals, &indices, starttheta+deltatheta, startphi, deltaphi, rmin, rmax, phiSeg, hasHole, false)
		}
	}

	return TriangleMesh{Positions: positions, Normals: normals, Indices: indices}
}

func addSphereSurface(positions, normals *[]float32, indices *[]uint32, r, startphi, deltaphi, starttheta, deltatheta float64, phiSeg, thetaSeg uint32, invert bool) {
	base := uint32(len(*positions) / 3)
	rf := float32(r)

	phiStep := deltaphi / float64(phiSeg)
	thetaStep := deltatheta / float64(thetaSeg)

	for j := uint32(0); j <= thetaSeg; j++ {
		theta := starttheta + thetaStep*float64(j)
		st, ct := float32(math.Sin(theta)), float32(math.Cos(theta))

		for i := uint32(0); i <= phiSeg; i++ {
			phi := startphi + phiStep*float64(i)
			sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))

			nx, ny, nz := st*cp, st*sp, ct

			*positions = append(*positions, rf*nx, rf*ny, rf*nz)
			if invert {
				*normals = append(*normals, -nx, -ny, -nz)
			} else {
				*normals = append(*normals, nx, ny, nz)
			}
		}
	}

	cols := phiSeg + 1
	for j := uint32(0); j < thetaSeg; j++ {
		for i := uint32(0); i < phiSeg; i++ {
			a := base + j*cols + i
			b := a + cols
			c := a + 1
			d := b + 1

			if invert {
				*indices = append(*indices, a, b, c)
				*indices = append(*indices, c, b, d)
			} else {
				*indices = append(*indices, a, c, b)
				*indices = append(*indices, c, d, b)
			}
		}
	}
}

// addPhiWedgeFace adds a radial wedge face at a given phi angle, connecting
// outer to inner (or outer to the polar axis if solid), sweeping theta.
func addPhiWedgeFace(positions, normals *[]float32, indices *[]uint32, phi, rmin, rmax, starttheta, deltatheta float64, thetaSeg uint32, hasHole, isStart bool) {
	sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))
	var nx, ny float32
	if isStart {
		nx, ny = -sp, cp
	} else {
		nx, ny = sp, -cp
	}

	base := uint32(len(*positions) / 3)
	thetaStep := deltatheta / float64(thetaSeg)

	for j := uint32(0); j <= thetaSeg; j++ {
		theta := starttheta + thetaStep*float64(j)
		st, ct := float32(math.Sin(theta)), float32(math.Cos(theta))

		if hasHole {
			ri := float32(rmin)
			*positions = append(*positions, ri*st*cp, ri*st*sp, ri*ct)
			*normals = append(*normals, nx, ny, 0)
		} else {
			ro := float32(rmax)
			*positions = append(*positions, 0, 0, ro*ct)
			*normals = append(*normals, nx, ny, 0)
		}

		ro := float32(rmax)
		*positions = append(*positions, ro*st*cp, ro*st*sp, ro*ct)
		*normals = append(*normals, nx, ny, 0)
	}

	for j := uint32(0); j < thetaSeg; j++ {
		b := base + j*2
		if isStart {
			*indices = append(*indices, b, b+1, b+3)
			*indices = append(*indices, b, b+3, b+2)
		} else {
			*indices = append(*indices, b, b+3, b+1)
			*indices = append(*indices, b, b+2, b+3)
		}
	}
}

// addThetaCap adds an annular or disk cap at a given theta angle, sweeping
// phi from startphi to startphi+deltaphi.
func addThetaCap(positions, normals *[]float32, indices *[]uint32, theta, startphi, deltaphi, rmin, rmax float64, phiSeg uint32, hasHole, isStart bool) {
	st, ct := math.Sin(theta), math.Cos(theta)

	sign := float32(1.0)
	if isStart {
		sign = -1.0
	}

	base := uint32(len(*positions) / 3)
	phiStep := deltaphi / float64(phiSeg)

	if hasHole {
		for i := uint32(0); i <= phiSeg; i++ {
			phi := startphi + phiStep*float64(i)
			sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))

			nx := sign * float32(ct) * cp
			ny := sign * float32(ct) * sp
			nz := sign * -float32(st)

			ri := float32(rmin)
			*positions = append(*positions, ri*float32(st)*cp, ri*float32(st)*sp, ri*float32(ct))
			*normals = append(*normals, nx, ny, nz)

			ro := float32(rmax)
			*positions = append(*positions, ro*float32(st)*cp, ro*float32(st)*sp, ro*float32(ct))
			*normals = append(*normals, nx, ny, nz)
		}

		for i := uint32(0); i < phiSeg; i++ {
			b := base + i*2
			if isStart {
				*indices = append(*indices, b, b+3, b+1)
				*indices = append(*indices, b, b+2, b+3)
			} else {
				*indices = append(*indices, b, b+1, b+3)
				*indices = append(*indices, b, b+3, b+2)
			}
		}
	} else {
		ro := float32(rmax)
		centerNz := sign * -float32(st)

		*positions = append(*positions, 0, 0, ro*float32(ct))
		*normals = append(*normals, 0, 0, centerNz)

		for i := uint32(0); i <= phiSeg; i++ {
			phi := startphi + phiStep*float64(i)
			sp, cp := float32(math.Sin(phi)), float32(math.Cos(phi))

			nx := sign * float32(ct) * cp
			ny := sign * float32(ct) * sp
			nz := sign * -float32(st)

			*positions = append(*positions, ro*float32(st)*cp, ro*float32(st)*sp, ro*float32(ct))
			*normals = append(*normals, nx, ny, nz)
		}

		for i := uint32(0); i < phiSeg; i++ {
			if isStart {
				*indices = append(*indices, base, base+2+i, base+1+i)
			} else {
				*indices = append(*indices, base, base+1+i, base+2+i)
			}
		}
	}
}
