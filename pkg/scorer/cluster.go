package scorer

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/chemkit/sucos/pkg/chem"
	"github.com/chemkit/sucos/pkg/sucos"
	"github.com/pkg/errors"
)

// DefaultClusterThreshold is the Butina distance cutoff on 1-SuCOS.
const DefaultClusterThreshold = 0.8

// LoadHits reads a single SDF of fragment hits, skipping and logging
// molecules that cannot be parsed or typed.
func LoadHits(path string) ([]*sucos.Prepared, error) {
	f, err := chem.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hits []*sucos.Prepared
	r := chem.NewReader(f)
	for {
		mol, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, chem.ErrBadRecord) {
				slog.Warn("failed to parse molecule", "index", r.Index(), "file", path, "error", err)
				continue
			}
			return nil, errors.Wrapf(err, "failed to read hits: %s", path)
		}
		prep, err := sucos.Prepare(mol)
		if err != nil {
			slog.Warn("failed to generate features for molecule", "index", r.Index(), "file", path, "error", err)
			continue
		}
		hits = append(hits, prep)
	}
	return hits, nil
}

// ClusterHits groups fragment hits with the Butina algorithm over the
// pairwise 1-SuCOS distance. Hits closer than threshold to a cluster
// centroid join that cluster. Returns clusters as index sets, largest
// first, centroid first within each cluster.
func ClusterHits(hits []*sucos.Prepared, threshold float64, p sucos.Params) [][]int {
	n := len(hits)
	if n == 0 {
		return nil
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := 1.0 - sucos.Score(hits[i], hits[j], p).Score
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && dist[i][j] <= threshold {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}

	assigned := make([]bool, n)
	var clusters [][]int
	for {
		// pick the unassigned hit with most unassigned neighbors
		best, bestCount := -1, -1
		for i := 0; i < n; i++ {
			if assigned[i] {
				continue
			}
			count := 0
			for _, j := range neighbors[i] {
				if !assigned[j] {
					count++
				}
			}
			if count > bestCount {
				best, bestCount = i, count
			}
		}
		if best < 0 {
			break
		}

		cluster := []int{best}
		assigned[best] = true
		for _, j := range neighbors[best] {
			if !assigned[j] {
				assigned[j] = true
				cluster = append(cluster, j)
			}
		}
		clusters = append(clusters, cluster)
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return len(clusters[a]) > len(clusters[b])
	})
	return clusters
}

// WriteClusters writes one SDF per cluster, named <prefix>N.sdf with
// 1-based numbering.
func WriteClusters(prefix string, hits []*sucos.Prepared, clusters [][]int) ([]string, error) {
	var paths []string
	for i, cluster := range clusters {
		path := fmt.Sprintf("%s%d.sdf", prefix, i+1)
		f, err := chem.OpenOutput(path)
		if err != nil {
			return nil, err
		}
		w := chem.NewWriter(f)
		for _, idx := range cluster {
			if err := w.Write(hits[idx].Mol); err != nil {
				f.Close()
				return nil, err
			}
		}
		if err := f.Close(); err != nil {
			return nil, errors.Wrapf(err, "failed to close cluster file: %s", path)
		}
		slog.Info("wrote cluster", "path", path, "size", len(cluster))
		paths = append(paths, path)
	}
	return paths, nil
}
