package chem

// standard valences used to infer implicit hydrogen counts
var defaultValence = map[string]int{
	"C":  4,
	"N":  3,
	"P":  3,
	"O":  2,
	"S":  2,
	"B":  3,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

// FillImplicitHydrogens sets Atom.HCount for every atom from its
// standard valence, the sum of explicit bond orders and the formal
// charge. Aromatic bonds count as order 1.5, rounded up over the atom.
func FillImplicitHydrogens(mol *Mol) {
	orders := make([]float64, len(mol.Atoms))
	for _, b := range mol.Bonds {
		o := float64(b.Order)
		if b.Order == 4 {
			o = 1.5
		}
		orders[b.From] += o
		orders[b.To] += o
	}

	for i := range mol.Atoms {
		a := &mol.Atoms[i]
		val, ok := defaultValence[a.Symbol]
		if !ok {
			a.HCount = 0
			continue
		}
		// positive N gains a bonding slot, negative O/S/N loses one
		switch a.Symbol {
		case "N", "P":
			val += a.Charge
		case "O", "S":
			val += a.Charge
		case "C":
			if a.Charge != 0 {
				val--
			}
		}
		used := int(orders[i] + 0.5)
		h := val - used
		if h < 0 {
			h = 0
		}
		a.HCount = h
	}
}

// TotalHydrogens returns explicit plus implicit hydrogens on atom i.
func (m *Mol) TotalHydrogens(i int) int {
	n := m.Atoms[i].HCount
	for _, j := range m.Neighbors(i) {
		if m.Atoms[j].Symbol == "H" {
			n++
		}
	}
	return n
}
