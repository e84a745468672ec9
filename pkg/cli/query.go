package cli

import (
	"github.com/chemkit/sucos/pkg/data"
	"github.com/urfave/cli/v2"
)

var (
	queryLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: data.QueryLimitDefault,
	}

	runIDFlag = &cli.Int64Flag{
		Name:     "run",
		Usage:    "Run ID",
		Required: true,
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "Query saved scoring runs",
		Subcommands: []*cli.Command{
			{
				Name:    "runs",
				Usage:   "List saved runs, newest first",
				Aliases: []string{"r"},
				Action:  cmdQueryRuns,
				Flags: []cli.Flag{
					queryLimitFlag,
				},
			},
			{
				Name:    "results",
				Usage:   "List a run's molecule scores, best first",
				Aliases: []string{"res"},
				Action:  cmdQueryResults,
				Flags: []cli.Flag{
					runIDFlag,
					queryLimitFlag,
				},
			},
		},
	}
)

func cmdQueryRuns(c *cli.Context) error {
	cfg := getConfig(c)
	runs, err := data.ListRuns(cfg.DB, c.Int(queryLimitFlag.Name))
	if err != nil {
		return err
	}
	return encode(runs)
}

func cmdQueryResults(c *cli.Context) error {
	cfg := getConfig(c)
	results, err := data.GetRunResults(cfg.DB, c.Int64(runIDFlag.Name), c.Int(queryLimitFlag.Name))
	if err != nil {
		return err
	}
	return encode(results)
}
