package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chemkit/sucos/pkg/chem"
	"github.com/chemkit/sucos/pkg/data"
	"github.com/chemkit/sucos/pkg/scorer"
	"github.com/urfave/cli/v2"
)

var (
	inputFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Input file to score in SDF format. Can be gzipped (*.gz)",
		Required: true,
	}

	outputFlag = &cli.StringFlag{
		Name:     "output",
		Aliases:  []string{"o"},
		Usage:    "Output file in SDF format. Can be gzipped (*.gz)",
		Required: true,
	}

	modeFlag = &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "Score mode: max = best score, cum = sum of all scores",
		Value:   string(scorer.ModeMax),
	}

	concurrencyFlag = &cli.IntFlag{
		Name:  "concurrency",
		Usage: "Number of scoring workers (default: number of CPUs)",
	}

	noSaveFlag = &cli.BoolFlag{
		Name:  "no-save",
		Usage: "Do not record the run in the local database",
	}

	scoreCmd = &cli.Command{
		Name:      "score",
		Aliases:   []string{"s"},
		Usage:     "Score molecules against one or more cluster SDF files",
		ArgsUsage: "CLUSTER_SDF [CLUSTER_SDF...]",
		UsageText: `sucos score -i candidates.sdf.gz -o scored.sdf cluster1.sdf cluster2.sdf
   sucos score -i candidates.sdf -o scored.sdf -m cum clusters/*.sdf`,
		Action: cmdScore,
		Flags: []cli.Flag{
			inputFlag,
			outputFlag,
			modeFlag,
			concurrencyFlag,
			noSaveFlag,
		},
	}
)

func cmdScore(c *cli.Context) error {
	cfg := getConfig(c)

	mode, err := scorer.ParseMode(c.String(modeFlag.Name))
	if err != nil {
		return err
	}

	clusterPaths := c.Args().Slice()
	if len(clusterPaths) == 0 {
		return fmt.Errorf("at least one cluster SDF file required")
	}

	clusters, err := scorer.LoadClusters(clusterPaths)
	if err != nil {
		return err
	}
	hits := 0
	for _, cl := range clusters {
		hits += len(cl.Hits)
	}
	slog.Info("loaded clusters", "clusters", len(clusters), "hits", hits)

	inPath := c.String(inputFlag.Name)
	in, err := chem.OpenInput(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	outPath := c.String(outputFlag.Name)
	out, err := chem.OpenOutput(outPath)
	if err != nil {
		return err
	}

	opts := scorer.Options{
		Mode:        mode,
		Params:      cfg.Conf.Params,
		Concurrency: c.Int(concurrencyFlag.Name),
	}

	started := time.Now()
	results, sum, err := scorer.Run(c.Context, in, out, clusters, opts)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	slog.Info("scoring done",
		"read", sum.Read,
		"written", sum.Written,
		"skipped", sum.Skipped,
		"duration", time.Since(started).Round(time.Millisecond))

	if !c.Bool(noSaveFlag.Name) {
		run := &data.Run{
			Created:     started,
			Mode:        string(mode),
			Input:       inPath,
			Clusters:    clusterPaths,
			Comparisons: sum.Comparisons,
		}
		runID, err := data.SaveRun(cfg.DB, run, results)
		if err != nil {
			return err
		}
		slog.Info("run saved", "id", runID)
	}

	return encode(sum)
}
