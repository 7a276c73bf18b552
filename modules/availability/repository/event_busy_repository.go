package repository

import (
	"context"
	"time"

	"social-calendar-api/core/database"
	"social-calendar-api/core/logger"
	"social-calendar-api/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EventBusyRepository reads scheduled events (events + user_events) as busy time.
type EventBusyRepository interface {
	GetBusyWindows(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]entity.BusyWindow, error)
}

type eventBusyRepository struct {
	db database.IDatabase
}

func NewEventBusyRepository(db database.IDatabase) EventBusyRepository {
	return &eventBusyRepository{db: db}
}

type eventBusyRow struct {
	UserID    uuid.UUID `db:"user_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

// GetBusyWindows returns scheduled events overlapping [from, to) for hosts and participants.
func (r *eventBusyRepository) GetBusyWindows(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]entity.BusyWindow, error) {
	out := make(map[uuid.UUID][]entity.BusyWindow, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT ue.user_id, e.start_date, e.end_date
		FROM events e
		JOIN user_events ue ON ue.event_id = e.id
		WHERE ue.user_id = ANY($1::uuid[])
		  AND e.status = 'scheduled'
		  AND e.start_date IS NOT NULL AND e.end_date IS NOT NULL
		  AND e.start_date < $3 AND e.end_date > $2
		UNION
		SELECT e.host_id AS user_id, e.start_date, e.end_date
		FROM events e
		WHERE e.host_id = ANY($1::uuid[])
		  AND e.status = 'scheduled'
		  AND e.start_date IS NOT NULL AND e.end_date IS NOT NULL
		  AND e.start_date < $3 AND e.end_date > $2
		ORDER BY start_date
	`

	var rows []eventBusyRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids), from, to); err != nil {
		logger.Error("EventBusyRepository:GetBusyWindows", "count", len(userIDs), "error", err)
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], entity.BusyWindow{
			Start:  row.StartDate,
			End:    row.EndDate,
			Source: entity.BusySourceEvent,
		})
	}
	return out, nil
}
