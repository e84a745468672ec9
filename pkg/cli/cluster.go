package cli

import (
	"log/slog"

	"github.com/chemkit/sucos/pkg/scorer"
	"github.com/urfave/cli/v2"
)

var (
	clusterInputFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "SDF file with the fragment hits to cluster. Can be gzipped (*.gz)",
		Required: true,
	}

	clusterThresholdFlag = &cli.Float64Flag{
		Name:  "threshold",
		Usage: "Butina distance threshold on 1-SuCOS (default from config)",
	}

	clusterPrefixFlag = &cli.StringFlag{
		Name:  "out-prefix",
		Usage: "Prefix for the per-cluster output files (<prefix>N.sdf)",
		Value: "cluster",
	}

	clusterCmd = &cli.Command{
		Name:    "cluster",
		Aliases: []string{"c"},
		Usage:   "Cluster fragment hits by pairwise SuCOS overlap into per-pocket SDF files",
		Action:  cmdCluster,
		Flags: []cli.Flag{
			clusterInputFlag,
			clusterThresholdFlag,
			clusterPrefixFlag,
		},
	}
)

func cmdCluster(c *cli.Context) error {
	cfg := getConfig(c)

	hits, err := scorer.LoadHits(c.String(clusterInputFlag.Name))
	if err != nil {
		return err
	}
	slog.Info("loaded hits", "count", len(hits))

	threshold := c.Float64(clusterThresholdFlag.Name)
	if threshold <= 0 {
		threshold = cfg.Conf.ClusterThreshold
	}

	clusters := scorer.ClusterHits(hits, threshold, cfg.Conf.Params)
	paths, err := scorer.WriteClusters(c.String(clusterPrefixFlag.Name), hits, clusters)
	if err != nil {
		return err
	}

	out := struct {
		Hits      int      `json:"hits" yaml:"hits"`
		Clusters  int      `json:"clusters" yaml:"clusters"`
		Threshold float64  `json:"threshold" yaml:"threshold"`
		Files     []string `json:"files" yaml:"files"`
	}{len(hits), len(clusters), threshold, paths}
	return encode(out)
}
