package data

import (
	"database/sql"
	"strings"
	"time"

	"github.com/chemkit/sucos/pkg/scorer"
	"github.com/pkg/errors"
)

const (
	selectRunsSQL = `SELECT id, created, mode, input, clusters, comparisons
		FROM run
		ORDER BY id DESC
		LIMIT ?`

	selectResultsSQL = `SELECT mol_name, mol_index, score, fm_score, protrude_score, cluster, cluster_index
		FROM result
		WHERE run_id = ?
		ORDER BY score DESC, mol_index
		LIMIT ?`
)

// QueryLimitDefault caps result listings unless the caller asks for more.
const QueryLimitDefault = 100

// ListRuns returns the most recent runs, newest first.
func ListRuns(db *sql.DB, limit int) ([]*Run, error) {
	if db == nil {
		return nil, errors.New("database not initialized")
	}
	if limit < 1 {
		limit = QueryLimitDefault
	}

	rows, err := db.Query(selectRunsSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		var created, clusters string
		if err := rows.Scan(&r.ID, &created, &r.Mode, &r.Input, &clusters, &r.Comparisons); err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.Created = t
		}
		if clusters != "" {
			r.Clusters = strings.Split(clusters, ",")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunResults returns a run's molecule results, best score first.
func GetRunResults(db *sql.DB, runID int64, limit int) ([]scorer.Result, error) {
	if db == nil {
		return nil, errors.New("database not initialized")
	}
	if limit < 1 {
		limit = QueryLimitDefault
	}

	rows, err := db.Query(selectResultsSQL, runID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query results for run: %d", runID)
	}
	defer rows.Close()

	var results []scorer.Result
	for rows.Next() {
		var r scorer.Result
		var cluster sql.NullString
		var clusterIndex sql.NullInt64
		if err := rows.Scan(&r.MolName, &r.MolIndex, &r.Score, &r.FeatureMap, &r.Protrude, &cluster, &clusterIndex); err != nil {
			return nil, errors.Wrap(err, "failed to scan result row")
		}
		r.Cluster = cluster.String
		r.ClusterIndex = int(clusterIndex.Int64)
		results = append(results, r)
	}
	return results, rows.Err()
}
