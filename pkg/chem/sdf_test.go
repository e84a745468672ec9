package chem

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ethanolSDF = `ethanol
  test

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.5000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.1000    1.3000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
  2  3  1  0
M  END
>  <ID>
mol-1

$$$$
`

const badRecordSDF = `broken
  test

  5  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
$$$$
`

func TestReader_SingleMolecule(t *testing.T) {
	r := NewReader(strings.NewReader(ethanolSDF))
	mol, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "ethanol", mol.Name)
	assert.Len(t, mol.Atoms, 3)
	assert.Len(t, mol.Bonds, 2)
	assert.Equal(t, 1, r.Index())

	id, ok := mol.Data("ID")
	assert.True(t, ok)
	assert.Equal(t, "mol-1", id)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_AtomFields(t *testing.T) {
	r := NewReader(strings.NewReader(ethanolSDF))
	mol, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, "C", mol.Atoms[0].Symbol)
	assert.Equal(t, "O", mol.Atoms[2].Symbol)
	assert.InDelta(t, 1.5, mol.Atoms[1].X, 0.0001)
	assert.InDelta(t, 1.3, mol.Atoms[2].Y, 0.0001)
	assert.Equal(t, Bond{From: 1, To: 2, Order: 1}, mol.Bonds[1])
}

func TestReader_ImplicitHydrogens(t *testing.T) {
	r := NewReader(strings.NewReader(ethanolSDF))
	mol, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, 3, mol.Atoms[0].HCount) // CH3
	assert.Equal(t, 2, mol.Atoms[1].HCount) // CH2
	assert.Equal(t, 1, mol.Atoms[2].HCount) // OH
}

func TestReader_BadRecordSkippable(t *testing.T) {
	r := NewReader(strings.NewReader(badRecordSDF + ethanolSDF))
	_, err := r.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRecord))

	// reader recovers at the next record
	mol, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "ethanol", mol.Name)
	assert.Equal(t, 2, r.Index())
}

func TestReader_MultipleRecords(t *testing.T) {
	r := NewReader(strings.NewReader(ethanolSDF + ethanolSDF + ethanolSDF))
	n := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 3, n)
}

func TestWriter_RoundTrip(t *testing.T) {
	r := NewReader(strings.NewReader(ethanolSDF))
	mol, err := r.Next()
	require.NoError(t, err)

	mol.SetDoubleData("Max_SuCOS_Score", 0.75)
	mol.SetIntData("Max_SuCOS_Index", 3)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(mol))
	assert.Equal(t, 1, w.Count())

	r2 := NewReader(&buf)
	mol2, err := r2.Next()
	require.NoError(t, err)
	assert.Equal(t, mol.Name, mol2.Name)
	assert.Len(t, mol2.Atoms, 3)

	score, ok := mol2.Data("Max_SuCOS_Score")
	assert.True(t, ok)
	assert.Equal(t, "0.750000", score)
	idx, ok := mol2.Data("Max_SuCOS_Index")
	assert.True(t, ok)
	assert.Equal(t, "3", idx)
}

func TestWriter_ChargePreserved(t *testing.T) {
	mol := &Mol{
		Name:  "acetate-o",
		Atoms: []Atom{{Symbol: "O", Charge: -1}},
	}
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(mol))
	assert.Contains(t, buf.String(), "M  CHG")

	mol2, err := NewReader(&buf).Next()
	require.NoError(t, err)
	assert.Equal(t, -1, mol2.Atoms[0].Charge)
}

func TestOpenInputOutput_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mols.sdf.gz")

	out, err := OpenOutput(path)
	require.NoError(t, err)
	_, err = io.WriteString(out, ethanolSDF)
	require.NoError(t, err)
	require.NoError(t, out.Close())

	in, err := OpenInput(path)
	require.NoError(t, err)
	defer in.Close()

	mol, err := NewReader(in).Next()
	require.NoError(t, err)
	assert.Equal(t, "ethanol", mol.Name)
}

func TestOpenInput_Missing(t *testing.T) {
	_, err := OpenInput(filepath.Join(t.TempDir(), "nope.sdf"))
	assert.Error(t, err)
}

func TestDataFieldOrder(t *testing.T) {
	mol := &Mol{Name: "m"}
	mol.SetData("b", "2")
	mol.SetData("a", "1")
	mol.SetData("b", "3")
	assert.Equal(t, []string{"b", "a"}, mol.DataKeys())
	v, _ := mol.Data("b")
	assert.Equal(t, "3", v)
}
