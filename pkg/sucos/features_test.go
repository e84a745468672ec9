package sucos

import (
	"math"
	"testing"

	"github.com/chemkit/sucos/pkg/chem"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ethanol() *chem.Mol {
	mol := &chem.Mol{
		Name: "ethanol",
		Atoms: []chem.Atom{
			{X: 0.0, Symbol: "C"},
			{X: 1.5, Symbol: "C"},
			{X: 2.1, Y: 1.3, Symbol: "O"},
		},
		Bonds: []chem.Bond{
			{From: 0, To: 1, Order: 1},
			{From: 1, To: 2, Order: 1},
		},
	}
	chem.FillImplicitHydrogens(mol)
	return mol
}

func benzene() *chem.Mol {
	mol := &chem.Mol{Name: "benzene"}
	for i := 0; i < 6; i++ {
		angle := float64(i) * math.Pi / 3
		mol.Atoms = append(mol.Atoms, chem.Atom{
			X:      1.39 * math.Cos(angle),
			Y:      1.39 * math.Sin(angle),
			Symbol: "C",
		})
	}
	orders := []int{1, 2, 1, 2, 1, 2}
	for i := 0; i < 6; i++ {
		mol.Bonds = append(mol.Bonds, chem.Bond{From: i, To: (i + 1) % 6, Order: orders[i]})
	}
	chem.FillImplicitHydrogens(mol)
	return mol
}

func translated(mol *chem.Mol, dx, dy, dz float64) *chem.Mol {
	out := &chem.Mol{Name: mol.Name + "-moved", Bonds: mol.Bonds}
	for _, a := range mol.Atoms {
		a.X += dx
		a.Y += dy
		a.Z += dz
		out.Atoms = append(out.Atoms, a)
	}
	return out
}

func families(feats []Feature) map[Family]int {
	out := make(map[Family]int)
	for _, f := range feats {
		out[f.Family]++
	}
	return out
}

func TestFeatures_Ethanol(t *testing.T) {
	feats, err := Features(ethanol())
	require.NoError(t, err)

	fam := families(feats)
	assert.Equal(t, 1, fam[Donor])    // hydroxyl
	assert.Equal(t, 1, fam[Acceptor]) // hydroxyl oxygen
	assert.Equal(t, 1, fam[Hydrophobe])
	assert.Zero(t, fam[Aromatic])
	assert.Zero(t, fam[LumpedHydrophobe])
}

func TestFeatures_Benzene(t *testing.T) {
	feats, err := Features(benzene())
	require.NoError(t, err)

	fam := families(feats)
	assert.Equal(t, 1, fam[Aromatic])
	assert.Equal(t, 6, fam[Hydrophobe])
	assert.Equal(t, 1, fam[LumpedHydrophobe])
	assert.Zero(t, fam[Donor])
}

func TestFeatures_AromaticCentroid(t *testing.T) {
	feats, err := Features(benzene())
	require.NoError(t, err)
	for _, f := range feats {
		if f.Family == Aromatic {
			assert.InDelta(t, 0, f.X, 0.001)
			assert.InDelta(t, 0, f.Y, 0.001)
		}
	}
}

func TestFeatures_ChargedAtoms(t *testing.T) {
	mol := &chem.Mol{
		Name: "glycine-zwitterion",
		Atoms: []chem.Atom{
			{X: 0, Symbol: "N", Charge: 1},
			{X: 1.5, Symbol: "C"},
			{X: 3.0, Symbol: "C"},
			{X: 3.7, Y: 1.1, Symbol: "O"},
			{X: 3.7, Y: -1.1, Symbol: "O", Charge: -1},
		},
		Bonds: []chem.Bond{
			{From: 0, To: 1, Order: 1},
			{From: 1, To: 2, Order: 1},
			{From: 2, To: 3, Order: 2},
			{From: 2, To: 4, Order: 1},
		},
	}
	chem.FillImplicitHydrogens(mol)

	feats, err := Features(mol)
	require.NoError(t, err)
	fam := families(feats)
	assert.Equal(t, 1, fam[PosIonizable])
	assert.Equal(t, 1, fam[NegIonizable])
	assert.GreaterOrEqual(t, fam[Acceptor], 2)
}

func TestFeatures_SulfonicAcid(t *testing.T) {
	// methanesulfonic acid: C-S(=O)(=O)-OH, all neutral
	mol := &chem.Mol{
		Name: "methanesulfonic-acid",
		Atoms: []chem.Atom{
			{X: 0, Symbol: "C"},
			{X: 1.8, Symbol: "S"},
			{X: 2.5, Y: 1.2, Symbol: "O"},
			{X: 2.5, Y: -1.2, Symbol: "O"},
			{X: 3.2, Symbol: "O"},
		},
		Bonds: []chem.Bond{
			{From: 0, To: 1, Order: 1},
			{From: 1, To: 2, Order: 2},
			{From: 1, To: 3, Order: 2},
			{From: 1, To: 4, Order: 1},
		},
	}
	chem.FillImplicitHydrogens(mol)

	feats, err := Features(mol)
	require.NoError(t, err)
	fam := families(feats)
	assert.Equal(t, 1, fam[NegIonizable]) // ionizable hydroxyl
	assert.Equal(t, 1, fam[Donor])
	assert.Equal(t, 3, fam[Acceptor])
	assert.Zero(t, fam[ZnBinder])
}

func TestFeatures_PhosphonicAcid(t *testing.T) {
	// methylphosphonic acid: C-P(=O)(OH)-OH, all neutral
	mol := &chem.Mol{
		Name: "methylphosphonic-acid",
		Atoms: []chem.Atom{
			{X: 0, Symbol: "C"},
			{X: 1.8, Symbol: "P"},
			{X: 2.5, Y: 1.2, Symbol: "O"},
			{X: 2.5, Y: -1.2, Symbol: "O"},
			{X: 3.2, Symbol: "O"},
		},
		Bonds: []chem.Bond{
			{From: 0, To: 1, Order: 1},
			{From: 1, To: 2, Order: 2},
			{From: 1, To: 3, Order: 1},
			{From: 1, To: 4, Order: 1},
		},
	}
	chem.FillImplicitHydrogens(mol)

	feats, err := Features(mol)
	require.NoError(t, err)
	fam := families(feats)
	assert.Equal(t, 2, fam[NegIonizable]) // both hydroxyls
	assert.Equal(t, 2, fam[Donor])
}

func TestFeatures_Thiol(t *testing.T) {
	mol := &chem.Mol{
		Name: "methanethiol",
		Atoms: []chem.Atom{
			{X: 0, Symbol: "C"},
			{X: 1.8, Symbol: "S"},
		},
		Bonds: []chem.Bond{{From: 0, To: 1, Order: 1}},
	}
	chem.FillImplicitHydrogens(mol)

	feats, err := Features(mol)
	require.NoError(t, err)
	assert.Equal(t, 1, families(feats)[ZnBinder])
}

func TestFeatures_Empty(t *testing.T) {
	_, err := Features(&chem.Mol{Name: "empty"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFeatures))
}

func TestPrepare(t *testing.T) {
	prep, err := Prepare(ethanol())
	require.NoError(t, err)
	assert.NotNil(t, prep.Mol)
	assert.NotEmpty(t, prep.Features)
}
