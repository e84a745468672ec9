package sucos

import (
	"github.com/chemkit/sucos/pkg/chem"
	"github.com/pkg/errors"
)

// Family is a pharmacophore feature family.
type Family string

const (
	Donor            Family = "Donor"
	Acceptor         Family = "Acceptor"
	PosIonizable     Family = "PosIonizable"
	NegIonizable     Family = "NegIonizable"
	ZnBinder         Family = "ZnBinder"
	Aromatic         Family = "Aromatic"
	Hydrophobe       Family = "Hydrophobe"
	LumpedHydrophobe Family = "LumpedHydrophobe"
)

// Feature is a typed pharmacophore point in 3D space.
type Feature struct {
	Family  Family
	X, Y, Z float64
}

// ErrNoFeatures is returned when a molecule yields no pharmacophore
// features at all, which makes it unscorable.
var ErrNoFeatures = errors.New("no pharmacophore features")

// Prepared pairs a molecule with its extracted features so a molecule
// scored many times is only typed once.
type Prepared struct {
	Mol      *chem.Mol
	Features []Feature
}

// Prepare extracts features for a molecule and bundles the two.
func Prepare(mol *chem.Mol) (*Prepared, error) {
	feats, err := Features(mol)
	if err != nil {
		return nil, err
	}
	return &Prepared{Mol: mol, Features: feats}, nil
}

// Features extracts the pharmacophore features of a molecule using
// graph and element rules over the eight SuCOS feature families.
func Features(mol *chem.Mol) ([]Feature, error) {
	if mol == nil || len(mol.Atoms) == 0 {
		return nil, errors.Wrap(ErrNoFeatures, "empty molecule")
	}

	var feats []Feature
	add := func(f Family, x, y, z float64) {
		feats = append(feats, Feature{Family: f, X: x, Y: y, Z: z})
	}

	aromaticAtoms := make(map[int]bool)
	for _, ring := range mol.AromaticRings() {
		cx, cy, cz := centroid(mol, ring)
		add(Aromatic, cx, cy, cz)
		for _, a := range ring {
			aromaticAtoms[a] = true
		}
	}

	for i, a := range mol.Atoms {
		switch {
		case a.Charge > 0:
			add(PosIonizable, a.X, a.Y, a.Z)
		case a.Charge < 0:
			add(NegIonizable, a.X, a.Y, a.Z)
		}

		switch a.Symbol {
		case "N", "O":
			if mol.TotalHydrogens(i) > 0 && a.Charge >= 0 {
				add(Donor, a.X, a.Y, a.Z)
			}
			if isAcceptor(mol, i, aromaticAtoms[i]) {
				add(Acceptor, a.X, a.Y, a.Z)
			}
			if a.Symbol == "O" && a.Charge == 0 && isAcidicHydroxyl(mol, i) {
				add(NegIonizable, a.X, a.Y, a.Z)
			}
		case "S":
			if mol.TotalHydrogens(i) > 0 || a.Charge < 0 {
				add(ZnBinder, a.X, a.Y, a.Z)
			}
		}
	}

	hydro := hydrophobicAtoms(mol)
	for _, i := range hydro {
		a := mol.Atoms[i]
		add(Hydrophobe, a.X, a.Y, a.Z)
	}
	for _, group := range hydrophobicGroups(mol, hydro) {
		if len(group) < 3 {
			continue
		}
		cx, cy, cz := centroid(mol, group)
		add(LumpedHydrophobe, cx, cy, cz)
	}

	if len(feats) == 0 {
		return nil, errors.Wrapf(ErrNoFeatures, "molecule %s", mol.Name)
	}
	return feats, nil
}

// isAcceptor applies the lone-pair rules: any neutral oxygen outside a
// nitro group, and trivalent nitrogen that is neither protonated
// aromatic (pyrrole-like) nor quaternized.
func isAcceptor(mol *chem.Mol, i int, aromatic bool) bool {
	a := mol.Atoms[i]
	if a.Charge > 0 {
		return false
	}
	switch a.Symbol {
	case "O":
		for _, j := range mol.Neighbors(i) {
			if mol.Atoms[j].Symbol == "N" && mol.Atoms[j].Charge > 0 {
				return false
			}
		}
		return true
	case "N":
		if aromatic && mol.TotalHydrogens(i) > 0 {
			return false
		}
		return mol.Degree(i)+mol.Atoms[i].HCount < 4
	}
	return false
}

// isAcidicHydroxyl detects the hydroxyl of a carboxylic, sulfonic or
// phosphonic acid group: an O-H whose C/S/P neighbor carries a second,
// double-bonded oxygen.
func isAcidicHydroxyl(mol *chem.Mol, i int) bool {
	if mol.TotalHydrogens(i) == 0 {
		return false
	}
	for _, c := range mol.Neighbors(i) {
		switch mol.Atoms[c].Symbol {
		case "C", "S", "P":
		default:
			continue
		}
		for _, o := range mol.Neighbors(c) {
			if o == i || mol.Atoms[o].Symbol != "O" {
				continue
			}
			if b, ok := mol.BondBetween(c, o); ok && b.Order == 2 {
				return true
			}
		}
	}
	return false
}

// hydrophobicAtoms returns carbons bonded only to carbon, hydrogen or
// halogens.
func hydrophobicAtoms(mol *chem.Mol) []int {
	var out []int
	for i, a := range mol.Atoms {
		if a.Symbol != "C" || a.Charge != 0 {
			continue
		}
		ok := true
		for _, j := range mol.Neighbors(i) {
			switch mol.Atoms[j].Symbol {
			case "C", "H", "F", "Cl", "Br", "I":
			default:
				ok = false
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// hydrophobicGroups partitions hydrophobic atoms into bond-connected
// components.
func hydrophobicGroups(mol *chem.Mol, atoms []int) [][]int {
	member := make(map[int]bool, len(atoms))
	for _, i := range atoms {
		member[i] = true
	}

	visited := make(map[int]bool, len(atoms))
	var groups [][]int
	for _, start := range atoms {
		if visited[start] {
			continue
		}
		var group []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			group = append(group, cur)
			for _, next := range mol.Neighbors(cur) {
				if member[next] && !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func centroid(mol *chem.Mol, atoms []int) (float64, float64, float64) {
	var x, y, z float64
	for _, i := range atoms {
		x += mol.Atoms[i].X
		y += mol.Atoms[i].Y
		z += mol.Atoms[i].Z
	}
	n := float64(len(atoms))
	return x / n, y / n, z / n
}
