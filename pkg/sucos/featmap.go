package sucos

import "math"

// FeatMapScore scores how well the query features reproduce the
// reference feature map. Each reference feature contributes its best
// Gaussian match among same-family query features within the cutoff
// radius, and the sum is normalized by the smaller feature count.
func FeatMapScore(ref, query []Feature, p Params) float64 {
	if len(ref) == 0 || len(query) == 0 {
		return 0
	}

	radius2 := p.FeatRadius * p.FeatRadius
	total := 0.0
	for _, rf := range ref {
		best := 0.0
		for _, qf := range query {
			if qf.Family != rf.Family {
				continue
			}
			d2 := dist2(rf, qf)
			if d2 > radius2 {
				continue
			}
			s := math.Exp(-d2 / p.FeatWidth)
			if s > best {
				best = s
			}
		}
		total += best
	}

	n := len(ref)
	if len(query) < n {
		n = len(query)
	}
	return total / float64(n)
}

func dist2(a, b Feature) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx + dy*dy + dz*dz
}
