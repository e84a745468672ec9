package chem

import "sort"

const maxRingSize = 8

// Ring is a cycle of atom indexes in bond order.
type Ring []int

// Rings returns the small rings of the molecule (size <= 8), one per
// bond-shortest cycle, deduplicated by member set.
func (m *Mol) Rings() []Ring {
	adj := make([][]int, len(m.Atoms))
	for _, b := range m.Bonds {
		adj[b.From] = append(adj[b.From], b.To)
		adj[b.To] = append(adj[b.To], b.From)
	}

	seen := make(map[string]bool)
	var rings []Ring
	for _, b := range m.Bonds {
		path := shortestPathExcluding(adj, b.From, b.To, b)
		if path == nil || len(path) > maxRingSize {
			continue
		}
		key := ringKey(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		rings = append(rings, Ring(path))
	}
	return rings
}

// shortestPathExcluding runs a BFS from src to dst that is not allowed
// to traverse the excluded bond. The returned path closes the ring.
func shortestPathExcluding(adj [][]int, src, dst int, excl Bond) []int {
	prev := make([]int, len(adj))
	for i := range prev {
		prev[i] = -1
	}
	prev[src] = src
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if (cur == excl.From && next == excl.To) || (cur == excl.To && next == excl.From) {
				continue
			}
			if prev[next] != -1 {
				continue
			}
			prev[next] = cur
			if next == dst {
				var path []int
				for at := dst; at != src; at = prev[at] {
					path = append(path, at)
				}
				path = append(path, src)
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func ringKey(atoms []int) string {
	sorted := append([]int(nil), atoms...)
	sort.Ints(sorted)
	key := make([]byte, 0, len(sorted)*3)
	for _, a := range sorted {
		key = append(key, byte(a>>16), byte(a>>8), byte(a))
	}
	return string(key)
}

// PerceiveAromaticity flags ring bonds as aromatic. A ring counts as
// aromatic when the file marks every ring bond with order 4, or when a
// 5- or 6-ring of C/N/O/S atoms carries an alternating Kekule pattern
// (every ring atom participates in a double or aromatic bond).
func PerceiveAromaticity(mol *Mol) {
	for _, ring := range mol.Rings() {
		if !ringIsAromatic(mol, ring) {
			continue
		}
		for i := range ring {
			j := (i + 1) % len(ring)
			for k := range mol.Bonds {
				b := &mol.Bonds[k]
				if (b.From == ring[i] && b.To == ring[j]) || (b.From == ring[j] && b.To == ring[i]) {
					b.Aromatic = true
				}
			}
		}
	}
}

func ringIsAromatic(mol *Mol, ring Ring) bool {
	allFour := true
	for i := range ring {
		j := (i + 1) % len(ring)
		b, ok := mol.BondBetween(ring[i], ring[j])
		if !ok || b.Order != 4 {
			allFour = false
			break
		}
	}
	if allFour {
		return true
	}

	if len(ring) != 5 && len(ring) != 6 {
		return false
	}
	inRing := make(map[int]bool, len(ring))
	for _, a := range ring {
		switch mol.Atoms[a].Symbol {
		case "C", "N", "O", "S":
		default:
			return false
		}
		inRing[a] = true
	}
	// Kekule form: each carbon needs an unsaturated bond; ring
	// heteroatoms may contribute a lone pair instead.
	for _, a := range ring {
		if mol.Atoms[a].Symbol != "C" {
			continue
		}
		unsaturated := false
		for _, b := range mol.Bonds {
			if b.From != a && b.To != a {
				continue
			}
			if b.Order == 2 || b.Order == 4 {
				unsaturated = true
				break
			}
		}
		if !unsaturated {
			return false
		}
	}
	return true
}

// AromaticRings returns the rings PerceiveAromaticity would flag.
func (m *Mol) AromaticRings() []Ring {
	var out []Ring
	for _, ring := range m.Rings() {
		if ringIsAromatic(m, ring) {
			out = append(out, ring)
		}
	}
	return out
}

// InRing reports whether atom i is a member of any small ring.
func (m *Mol) InRing(i int) bool {
	for _, ring := range m.Rings() {
		for _, a := range ring {
			if a == i {
				return true
			}
		}
	}
	return false
}
