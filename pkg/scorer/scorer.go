// Package scorer drives batch SuCOS scoring of candidate molecules
// against clustered reference fragment hits.
package scorer

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/chemkit/sucos/pkg/chem"
	"github.com/chemkit/sucos/pkg/sucos"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Mode selects how per-hit scores aggregate into per-molecule scores.
type Mode string

const (
	// ModeMax keeps the single best-scoring hit.
	ModeMax Mode = "max"
	// ModeCum sums the scores over all hits.
	ModeCum Mode = "cum"
)

// ParseMode validates a mode string. Anything but max or cum is fatal.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMax, ModeCum:
		return Mode(s), nil
	}
	return "", errors.Errorf("invalid mode: %s (expected max or cum)", s)
}

// SD field names written in max mode.
const (
	MaxScoreField      = "Max_SuCOS_Score"
	MaxFeatureMapField = "Max_SuCOS_FeatureMap_Score"
	MaxProtrudeField   = "Max_SuCOS_Protrude_Score"
	MaxClusterField    = "Max_SuCOS_Cluster"
	MaxIndexField      = "Max_SuCOS_Index"
)

// SD field names written in cum mode.
const (
	CumScoreField      = "Cum_SuCOS_Score"
	CumFeatureMapField = "Cum_SuCOS_FeatureMap_Score"
	CumProtrudeField   = "Cum_SuCOS_Protrude_Score"
)

// Hit is one reference fragment with its position in the cluster file.
type Hit struct {
	*sucos.Prepared
	Index int
}

// Cluster is a named set of reference fragment hits, typically one
// binding pocket.
type Cluster struct {
	Name string
	Path string
	Hits []Hit
}

// LoadClusters reads each cluster SDF and prepares its hits for
// scoring. Unparseable molecules and feature extraction failures are
// logged and skipped, keeping their file positions intact.
func LoadClusters(paths []string) ([]Cluster, error) {
	clusters := make([]Cluster, 0, len(paths))
	for _, path := range paths {
		f, err := chem.OpenInput(path)
		if err != nil {
			return nil, err
		}
		cluster := Cluster{Name: filepath.Base(path), Path: path}
		r := chem.NewReader(f)
		for {
			mol, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				if errors.Is(err, chem.ErrBadRecord) {
					slog.Warn("failed to parse molecule in cluster", "index", r.Index(), "cluster", path, "error", err)
					continue
				}
				f.Close()
				return nil, errors.Wrapf(err, "failed to read cluster: %s", path)
			}
			prep, err := sucos.Prepare(mol)
			if err != nil {
				slog.Warn("failed to generate features for molecule in cluster", "index", r.Index(), "cluster", path, "error", err)
				continue
			}
			cluster.Hits = append(cluster.Hits, Hit{Prepared: prep, Index: r.Index()})
		}
		f.Close()
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}

// Options configure a scoring run.
type Options struct {
	Mode        Mode
	Params      sucos.Params
	Concurrency int
}

// Result is the aggregate score of one scored molecule.
type Result struct {
	MolName      string  `json:"name" yaml:"name"`
	MolIndex     int     `json:"index" yaml:"index"`
	Score        float64 `json:"score" yaml:"score"`
	FeatureMap   float64 `json:"feature_map_score" yaml:"feature_map_score"`
	Protrude     float64 `json:"protrude_score" yaml:"protrude_score"`
	Cluster      string  `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	ClusterIndex int     `json:"cluster_index,omitempty" yaml:"cluster_index,omitempty"`
}

// Summary reports what a run did.
type Summary struct {
	Read        int `json:"read" yaml:"read"`
	Written     int `json:"written" yaml:"written"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Comparisons int `json:"comparisons" yaml:"comparisons"`
}

// Run scores every molecule in the input stream against every hit in
// every cluster, annotates the survivors and writes them to out in
// input order. Molecules with no overlap at all are dropped.
func Run(ctx context.Context, in io.Reader, out io.Writer, clusters []Cluster, opts Options) ([]Result, Summary, error) {
	if opts.Mode != ModeMax && opts.Mode != ModeCum {
		return nil, Summary{}, errors.Errorf("invalid mode: %s", opts.Mode)
	}
	workers := opts.Concurrency
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var sum Summary

	// parse and type everything up front so scoring can fan out
	type job struct {
		mol   *sucos.Prepared
		index int
	}
	var jobs []job
	r := chem.NewReader(in)
	for {
		mol, err := r.Next()
		if err == io.EOF {
			break
		}
		sum.Read++
		if err != nil {
			if errors.Is(err, chem.ErrBadRecord) {
				slog.Warn("failed to parse molecule in input", "index", r.Index(), "error", err)
				sum.Skipped++
				continue
			}
			return nil, sum, errors.Wrap(err, "failed to read input")
		}
		prep, err := sucos.Prepare(mol)
		if err != nil {
			slog.Warn("failed to generate features for molecule in input", "index", r.Index(), "error", err)
			sum.Skipped++
			continue
		}
		jobs = append(jobs, job{mol: prep, index: r.Index()})
	}

	scored := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range jobs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			j := jobs[i]
			res := scoreOne(j.mol, clusters, opts)
			res.MolIndex = j.index
			res.MolName = j.mol.Mol.Name
			scored[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, sum, err
	}

	for _, c := range clusters {
		sum.Comparisons += len(c.Hits) * len(jobs)
	}

	w := chem.NewWriter(out)
	var results []Result
	for i, res := range scored {
		if res.Score <= 0 {
			slog.Warn("molecule did not overlay, omitting from results", "index", res.MolIndex, "name", res.MolName)
			sum.Skipped++
			continue
		}
		mol := jobs[i].mol.Mol
		annotate(mol, res, opts.Mode)
		if err := w.Write(mol); err != nil {
			return nil, sum, err
		}
		results = append(results, *res)
	}
	sum.Written = w.Count()

	slog.Info("completed comparisons", "comparisons", sum.Comparisons)
	return results, sum, nil
}

func scoreOne(mol *sucos.Prepared, clusters []Cluster, opts Options) *Result {
	res := &Result{}
	for _, cluster := range clusters {
		for _, hit := range cluster.Hits {
			s := sucos.Score(hit.Prepared, mol, opts.Params)
			switch opts.Mode {
			case ModeMax:
				if s.Score > res.Score {
					res.Score = s.Score
					res.FeatureMap = s.FeatureMap
					res.Protrude = s.Protrude
					res.Cluster = cluster.Name
					res.ClusterIndex = hit.Index
				}
			case ModeCum:
				res.Score += s.Score
				res.FeatureMap += s.FeatureMap
				res.Protrude += s.Protrude
			}
		}
	}
	return res
}

func annotate(mol *chem.Mol, res *Result, mode Mode) {
	if mode == ModeMax {
		mol.SetDoubleData(MaxScoreField, res.Score)
		mol.SetDoubleData(MaxFeatureMapField, res.FeatureMap)
		mol.SetDoubleData(MaxProtrudeField, res.Protrude)
		mol.SetData(MaxClusterField, res.Cluster)
		mol.SetIntData(MaxIndexField, res.ClusterIndex)
		return
	}
	mol.SetDoubleData(CumScoreField, res.Score)
	mol.SetDoubleData(CumFeatureMapField, res.FeatureMap)
	mol.SetDoubleData(CumProtrudeField, res.Protrude)
}
