package repository

import (
	"context"

	"social-calendar-api/core/database"
	"social-calendar-api/core/logger"
	"social-calendar-api/modules/calendar/dto"
	"social-calendar-api/modules/calendar/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CalendarRepository interface {
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	// Get active Google connections of several users (for free/busy import)
	GetConnectionsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const connectionColumns = `id, user_id, provider, access_token, refresh_token, token_expires_at,
	calendar_email, is_active, created_at, updated_at`

// GetConnectionsByUserID gets all active connections for a user
func (r *calendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC`

	connections := []entity.CalendarConnection{}
	if err := r.db.SelectContext(ctx, &connections, query, userID); err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserID", "user_id", userID, "error", err)
		return nil, err
	}
	return connections, nil
}

func (r *calendarRepository) GetConnectionsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]entity.CalendarConnection, error) {
	if len(userIDs) == 0 {
		return []entity.CalendarConnection{}, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	query := `SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = ANY($1::uuid[])
		  AND provider = $2
		  AND is_active = true
		  AND access_token <> ''`

	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query, pq.Array(ids), dto.ProviderGoogle); err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserIDs", "count", len(userIDs), "error", err)
		return nil, err
	}
	return connections, nil
}

// UpdateConnection stores refreshed tokens
func (r *calendarRepository) UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	return r.db.ExecContext(ctx, query,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.IsActive, conn.ID,
	)
}
