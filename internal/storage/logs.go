package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

// InsertSessionLog stores the summary of one finished exercise session.
func (db *DB) InsertSessionLog(ctx context.Context, row models.SessionLogRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO session_logs (id, workout_id, exercise_id, exercise_name,
		 exercise_type, started_at, completed_at, total_sets, sets_done)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   completed_at = EXCLUDED.completed_at,
		   sets_done = EXCLUDED.sets_done`,
		row.ID, row.WorkoutID, row.ExerciseID, row.ExerciseName,
		row.ExerciseType, row.StartedAt, row.CompletedAt, row.TotalSets, row.SetsDone)
	if err != nil {
		return fmt.Errorf("inserting session log: %w", err)
	}
	return nil
}

// InsertSetLog stores one logged set.
func (db *DB) InsertSetLog(ctx context.Context, row models.SetLogRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO set_logs (id, session_id, set_number, reps, weight, rpe, notes, logged_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID, row.SessionID, row.SetNumber, row.Reps, row.Weight, row.RPE, row.Notes, row.LoggedAt)
	if err != nil {
		return fmt.Errorf("inserting set log: %w", err)
	}
	return nil
}

// QuerySessionLogs retrieves session summaries in a date range, newest
// first.
func (db *DB) QuerySessionLogs(ctx context.Context, start, end time.Time) ([]models.SessionLogRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, exercise_id, exercise_name, exercise_type,
		 started_at, completed_at, total_sets, sets_done
		 FROM session_logs
		 WHERE started_at >= $1 AND started_at < $2
		 ORDER BY started_at DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying session logs: %w", err)
	}
	defer rows.Close()

	var result []models.SessionLogRow
	for rows.Next() {
		var r models.SessionLogRow
		if err := rows.Scan(&r.ID, &r.WorkoutID, &r.ExerciseID, &r.ExerciseName,
			&r.ExerciseType, &r.StartedAt, &r.CompletedAt, &r.TotalSets, &r.SetsDone); err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QuerySetLogs retrieves the sets logged during one session, in set
// order.
func (db *DB) QuerySetLogs(ctx context.Context, sessionID uuid.UUID) ([]models.SetLogRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, set_number, reps, weight, rpe, notes, logged_at
		 FROM set_logs WHERE session_id = $1
		 ORDER BY set_number ASC, logged_at ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying set logs: %w", err)
	}
	defer rows.Close()

	var result []models.SetLogRow
	for rows.Next() {
		var r models.SetLogRow
		if err := rows.Scan(&r.ID, &r.SessionID, &r.SetNumber, &r.Reps,
			&r.Weight, &r.RPE, &r.Notes, &r.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning set log: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
