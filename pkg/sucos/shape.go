package sucos

import "github.com/chemkit/sucos/pkg/chem"

// van der Waals radii in angstroms, CRC values
var vdwRadius = map[string]float64{
	"H":  1.20,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"P":  1.80,
	"S":  1.80,
	"Cl": 1.75,
	"Br": 1.85,
	"I":  1.98,
}

const vdwRadiusDefault = 1.50

// ProtrudeDist computes the fraction of the reference molecule's
// voxelized volume that lies outside the query molecule. 0 means the
// query fully covers the reference, 1 means no overlap at all.
// Hydrogens are ignored, matching the usual shape comparison setup.
func ProtrudeDist(ref, query *chem.Mol, p Params) float64 {
	refAtoms := heavySpheres(ref, p.VdwScale)
	queryAtoms := heavySpheres(query, p.VdwScale)
	if len(refAtoms) == 0 {
		return 1.0
	}

	minX, minY, minZ := refAtoms[0].x, refAtoms[0].y, refAtoms[0].z
	maxX, maxY, maxZ := minX, minY, minZ
	for _, s := range refAtoms {
		minX, maxX = minMax(minX, maxX, s.x)
		minY, maxY = minMax(minY, maxY, s.y)
		minZ, maxZ = minMax(minZ, maxZ, s.z)
	}
	minX -= p.GridMargin
	minY -= p.GridMargin
	minZ -= p.GridMargin
	maxX += p.GridMargin
	maxY += p.GridMargin
	maxZ += p.GridMargin

	refVoxels := 0
	protruding := 0
	for x := minX; x <= maxX; x += p.GridSpacing {
		for y := minY; y <= maxY; y += p.GridSpacing {
			for z := minZ; z <= maxZ; z += p.GridSpacing {
				if !occupied(refAtoms, x, y, z) {
					continue
				}
				refVoxels++
				if !occupied(queryAtoms, x, y, z) {
					protruding++
				}
			}
		}
	}
	if refVoxels == 0 {
		return 1.0
	}
	return float64(protruding) / float64(refVoxels)
}

type sphere struct {
	x, y, z float64
	r2      float64
}

func heavySpheres(mol *chem.Mol, scale float64) []sphere {
	if mol == nil {
		return nil
	}
	out := make([]sphere, 0, len(mol.Atoms))
	for _, a := range mol.Atoms {
		if a.Symbol == "H" {
			continue
		}
		r, ok := vdwRadius[a.Symbol]
		if !ok {
			r = vdwRadiusDefault
		}
		r *= scale
		out = append(out, sphere{x: a.X, y: a.Y, z: a.Z, r2: r * r})
	}
	return out
}

func occupied(atoms []sphere, x, y, z float64) bool {
	for _, s := range atoms {
		dx := x - s.x
		dy := y - s.y
		dz := z - s.z
		if dx*dx+dy*dy+dz*dz <= s.r2 {
			return true
		}
	}
	return false
}

func minMax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}
