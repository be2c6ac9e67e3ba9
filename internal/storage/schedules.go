package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

// ErrNotFound is returned when a schedule lookup matches no row.
var ErrNotFound = errors.New("not found")

// InsertScheduledWorkout stores a generated workout for a calendar day.
func (db *DB) InsertScheduledWorkout(ctx context.Context, row models.ScheduledWorkoutRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO scheduled_workouts (id, date, name, template, status, workout_json)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		row.ID, row.Date, row.Name, row.Template, row.Status, row.RawJSON)
	if err != nil {
		return fmt.Errorf("inserting scheduled workout: %w", err)
	}
	return nil
}

// GetScheduledWorkout fetches one scheduled workout by ID.
func (db *DB) GetScheduledWorkout(ctx context.Context, id uuid.UUID) (models.ScheduledWorkoutRow, []byte, error) {
	var (
		row  models.ScheduledWorkoutRow
		body []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT id, date, name, template, status, workout_json, created_at
		 FROM scheduled_workouts WHERE id = $1`, id).
		Scan(&row.ID, &row.Date, &row.Name, &row.Template, &row.Status, &body, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return row, nil, ErrNotFound
	}
	if err != nil {
		return row, nil, fmt.Errorf("querying scheduled workout: %w", err)
	}
	row.RawJSON = body
	return row, body, nil
}

// QuerySchedule returns scheduled workouts in a date range, oldest first.
func (db *DB) QuerySchedule(ctx context.Context, start, end time.Time) ([]models.ScheduledWorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, name, template, status, workout_json, created_at
		 FROM scheduled_workouts
		 WHERE date >= $1 AND date < $2
		 ORDER BY date ASC, created_at ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledWorkoutRow
	for rows.Next() {
		var r models.ScheduledWorkoutRow
		if err := rows.Scan(&r.ID, &r.Date, &r.Name, &r.Template, &r.Status, &r.RawJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning scheduled workout: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpdateWorkoutStatus moves a scheduled workout through its lifecycle.
func (db *DB) UpdateWorkoutStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE scheduled_workouts SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating workout status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
