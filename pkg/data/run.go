package data

import (
	"database/sql"
	"strings"
	"time"

	"github.com/chemkit/sucos/pkg/scorer"
	"github.com/pkg/errors"
)

const (
	insertRunSQL = `INSERT INTO run (created, mode, input, clusters, comparisons)
		VALUES (?, ?, ?, ?, ?)`

	insertResultSQL = `INSERT INTO result
		(run_id, mol_name, mol_index, score, fm_score, protrude_score, cluster, cluster_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// Run is one persisted scoring run.
type Run struct {
	ID          int64     `json:"id" yaml:"id"`
	Created     time.Time `json:"created" yaml:"created"`
	Mode        string    `json:"mode" yaml:"mode"`
	Input       string    `json:"input" yaml:"input"`
	Clusters    []string  `json:"clusters" yaml:"clusters"`
	Comparisons int       `json:"comparisons" yaml:"comparisons"`
}

// SaveRun stores a run and all its molecule results in one transaction.
func SaveRun(db *sql.DB, run *Run, results []scorer.Result) (int64, error) {
	if db == nil {
		return 0, errors.New("database not initialized")
	}
	if run == nil {
		return 0, errors.New("run required")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}

	res, err := tx.Exec(insertRunSQL,
		run.Created.UTC().Format(time.RFC3339),
		run.Mode,
		run.Input,
		strings.Join(run.Clusters, ","),
		run.Comparisons,
	)
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrap(err, "failed to insert run")
	}
	runID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrap(err, "failed to get run id")
	}

	stmt, err := tx.Prepare(insertResultSQL)
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrap(err, "failed to prepare batch statement")
	}
	defer stmt.Close()

	for i := range results {
		r := &results[i]
		_, err = stmt.Exec(runID, r.MolName, r.MolIndex, r.Score, r.FeatureMap, r.Protrude, r.Cluster, r.ClusterIndex)
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				return 0, errors.Wrap(rerr, "failed to rollback transaction")
			}
			return 0, errors.Wrapf(err, "failed to insert result for molecule: %s", r.MolName)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}
	return runID, nil
}
