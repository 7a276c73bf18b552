package repository

import (
	"context"
	"fmt"

	"social-calendar-api/core/database"
	"social-calendar-api/core/logger"
	"social-calendar-api/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// WorkScheduleRepository persists weekly work schedules (user_work_schedules table).
type WorkScheduleRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.WorkScheduleDay, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]entity.WorkScheduleDay, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, days []entity.WorkScheduleDay) ([]entity.WorkScheduleDay, error)
}

type workScheduleRepository struct {
	db database.IDatabase
}

func NewWorkScheduleRepository(db database.IDatabase) WorkScheduleRepository {
	return &workScheduleRepository{db: db}
}

const workScheduleColumns = `id, user_id, day_of_week, is_enabled, start_time, end_time,
	block2_start_time, block2_end_time, created_at, updated_at`

func (r *workScheduleRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.WorkScheduleDay, error) {
	query := `SELECT ` + workScheduleColumns + `
		FROM user_work_schedules
		WHERE user_id = $1
		ORDER BY day_of_week, created_at`

	days := []entity.WorkScheduleDay{}
	if err := r.db.SelectContext(ctx, &days, query, userID); err != nil {
		logger.Error("WorkScheduleRepository:GetByUserID", "user_id", userID, "error", err)
		return nil, err
	}
	return days, nil
}

func (r *workScheduleRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]entity.WorkScheduleDay, error) {
	out := make(map[uuid.UUID][]entity.WorkScheduleDay, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	query := `SELECT ` + workScheduleColumns + `
		FROM user_work_schedules
		WHERE user_id = ANY($1::uuid[])
		ORDER BY user_id, day_of_week, created_at`

	var rows []entity.WorkScheduleDay
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		logger.Error("WorkScheduleRepository:GetByUserIDs", "count", len(userIDs), "error", err)
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row)
	}
	return out, nil
}

// ReplaceForUser swaps the user's whole week in one transaction.
func (r *workScheduleRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, days []entity.WorkScheduleDay) ([]entity.WorkScheduleDay, error) {
	tx, err := r.db.BeginTxx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_work_schedules WHERE user_id = $1`, userID); err != nil {
		logger.Error("WorkScheduleRepository:ReplaceForUser:Delete", "user_id", userID, "error", err)
		return nil, err
	}

	insert := `INSERT INTO user_work_schedules
		(id, user_id, day_of_week, is_enabled, start_time, end_time, block2_start_time, block2_end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + workScheduleColumns

	saved := make([]entity.WorkScheduleDay, 0, len(days))
	for _, d := range days {
		var row entity.WorkScheduleDay
		err := tx.GetContext(ctx, &row, insert,
			uuid.New(), userID, d.DayOfWeek, d.IsEnabled, d.StartTime, d.EndTime,
			d.Block2StartTime, d.Block2EndTime)
		if err != nil {
			logger.Error("WorkScheduleRepository:ReplaceForUser:Insert", "user_id", userID, "day", d.DayOfWeek, "error", err)
			return nil, err
		}
		saved = append(saved, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	logger.Info("WorkScheduleRepository:ReplaceForUser:Success", "user_id", userID, "days", len(saved))
	return saved, nil
}
