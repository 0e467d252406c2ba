package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/aes/internal/runner"
)

// ErrNotFound is returned by GetRun when the run id is not indexed.
var ErrNotFound = errors.New("run not found in index")

// IndexedRun is a run as stored in the index.
type IndexedRun struct {
	Seq           int64              `json:"seq"`
	RunID         string             `json:"run_id"`
	ScenarioID    string             `json:"scenario_id"`
	ScenarioTitle string             `json:"scenario_title"`
	Summary       string             `json:"summary"`
	Success       bool               `json:"success"`
	ScoreReason   string             `json:"score_reason"`
	StartedAt     string             `json:"started_at"`
	CompletedAt   string             `json:"completed_at"`
	ArtifactPath  string             `json:"artifact_path"`
	Digest        string             `json:"digest"`
	Steps         []runner.StepEvent `json:"steps,omitempty"`
}

// Filter narrows ListRuns.
type Filter struct {
	// ScenarioID restricts results to one scenario when non-empty.
	ScenarioID string

	// Limit keeps only the most recent N runs when positive.
	Limit int
}

// IndexRun records run, replacing any earlier row and steps for the same
// run id. The insertion seq of an existing row is kept.
func (s *Store) IndexRun(ctx context.Context, run runner.RunRecord, artifactPath, digest string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, scenario_id, scenario_title, summary, success, score_reason,
		 started_at, completed_at, artifact_path, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			scenario_id    = excluded.scenario_id,
			scenario_title = excluded.scenario_title,
			summary        = excluded.summary,
			success        = excluded.success,
			score_reason   = excluded.score_reason,
			started_at     = excluded.started_at,
			completed_at   = excluded.completed_at,
			artifact_path  = excluded.artifact_path,
			digest         = excluded.digest
	`,
		run.RunID,
		run.ScenarioID,
		run.ScenarioTitle,
		run.Summary,
		run.Success,
		run.Outputs.Score.Reason,
		run.StartedAt,
		run.CompletedAt,
		artifactPath,
		digest,
	)
	if err != nil {
		return fmt.Errorf("index run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_steps WHERE run_id = ?`, run.RunID); err != nil {
		return fmt.Errorf("index run: clear steps: %w", err)
	}

	for i, step := range run.Steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_steps (run_id, position, step_id, goal, doer, judge)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.RunID, i, step.StepID, step.Goal, step.Doer, step.Judge)
		if err != nil {
			return fmt.Errorf("index run: step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index run: commit: %w", err)
	}
	return nil
}

// ListRuns returns indexed runs in insertion order, without steps.
// With a positive Limit only the most recent runs are returned, still oldest first.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, f Filter) ([]IndexedRun, error) {
	query := `
		SELECT seq, run_id, scenario_id, scenario_title, summary, success, score_reason,
		       started_at, completed_at, artifact_path, digest
		FROM runs
		WHERE (? = '' OR scenario_id = ?)
		ORDER BY seq DESC`
	args := []any{f.ScenarioID, f.ScenarioID}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []IndexedRun{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	slices.Reverse(runs)
	return runs, nil
}

// GetRun returns one indexed run with its steps in execution order.
func (s *Store) GetRun(ctx context.Context, runID string) (IndexedRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, run_id, scenario_id, scenario_title, summary, success, score_reason,
		       started_at, completed_at, artifact_path, digest
		FROM runs
		WHERE run_id = ?
	`, runID)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return IndexedRun{}, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return IndexedRun{}, err
	}

	steps, err := s.readSteps(ctx, runID)
	if err != nil {
		return IndexedRun{}, err
	}
	r.Steps = steps
	return r, nil
}

func (s *Store) readSteps(ctx context.Context, runID string) ([]runner.StepEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step_id, goal, doer, judge
		FROM run_steps
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []runner.StepEvent{}
	for rows.Next() {
		var ev runner.StepEvent
		if err := rows.Scan(&ev.StepID, &ev.Goal, &ev.Doer, &ev.Judge); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (IndexedRun, error) {
	var r IndexedRun
	err := sc.Scan(
		&r.Seq,
		&r.RunID,
		&r.ScenarioID,
		&r.ScenarioTitle,
		&r.Summary,
		&r.Success,
		&r.ScoreReason,
		&r.StartedAt,
		&r.CompletedAt,
		&r.ArtifactPath,
		&r.Digest,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return IndexedRun{}, err
	}
	if err != nil {
		return IndexedRun{}, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}
