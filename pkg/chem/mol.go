package chem

import (
	"fmt"
	"strconv"
)

// Atom is a single atom with 3D coordinates from an SDF atom block.
type Atom struct {
	X, Y, Z float64
	Symbol  string
	Charge  int
	HCount  int
}

// Bond connects two atoms by zero-based index.
type Bond struct {
	From, To int
	Order    int
	Aromatic bool
}

// Mol is a molecule record: structure plus SD data fields.
// Data field order is preserved so records round-trip byte-stable.
type Mol struct {
	Name  string
	Atoms []Atom
	Bonds []Bond

	dataKeys []string
	data     map[string]string
}

// NumHeavyAtoms returns the number of non-hydrogen atoms.
func (m *Mol) NumHeavyAtoms() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Symbol != "H" {
			n++
		}
	}
	return n
}

// Data returns the SD field value for key, if present.
func (m *Mol) Data(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

// DataKeys returns the SD field names in insertion order.
func (m *Mol) DataKeys() []string {
	return m.dataKeys
}

// SetData sets an SD data field, preserving first-insertion order.
func (m *Mol) SetData(key, value string) {
	if m.data == nil {
		m.data = make(map[string]string)
	}
	if _, ok := m.data[key]; !ok {
		m.dataKeys = append(m.dataKeys, key)
	}
	m.data[key] = value
}

// SetDoubleData sets a float SD field the way the scoring fields are written.
func (m *Mol) SetDoubleData(key string, value float64) {
	m.SetData(key, strconv.FormatFloat(value, 'f', 6, 64))
}

// SetIntData sets an integer SD field.
func (m *Mol) SetIntData(key string, value int) {
	m.SetData(key, strconv.Itoa(value))
}

// Neighbors returns the indexes of atoms bonded to atom i.
func (m *Mol) Neighbors(i int) []int {
	var out []int
	for _, b := range m.Bonds {
		switch i {
		case b.From:
			out = append(out, b.To)
		case b.To:
			out = append(out, b.From)
		}
	}
	return out
}

// BondBetween returns the bond joining atoms i and j, if any.
func (m *Mol) BondBetween(i, j int) (Bond, bool) {
	for _, b := range m.Bonds {
		if (b.From == i && b.To == j) || (b.From == j && b.To == i) {
			return b, true
		}
	}
	return Bond{}, false
}

// Degree returns the number of explicit bonds on atom i.
func (m *Mol) Degree(i int) int {
	n := 0
	for _, b := range m.Bonds {
		if b.From == i || b.To == i {
			n++
		}
	}
	return n
}

func (m *Mol) String() string {
	return fmt.Sprintf("%s (atoms: %d, bonds: %d)", m.Name, len(m.Atoms), len(m.Bonds))
}
