package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"social-calendar-api/core/config"
	"social-calendar-api/core/logger"
	availabilityEntity "social-calendar-api/modules/availability/entity"
	"social-calendar-api/modules/calendar/dto"
	"social-calendar-api/modules/calendar/entity"
	"social-calendar-api/modules/calendar/repository"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleFreeBusyAPI     = googleCalendarAPIBase + "/freeBusy"
	googleFreeBusyScope   = "https://www.googleapis.com/auth/calendar.freebusy"

	// maxConcurrentFreeBusy caps in-flight free/busy calls per import.
	maxConcurrentFreeBusy = 8
)

// CalendarService lists connections and imports busy time from them.
type CalendarService interface {
	GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, error)
	ImportBusyWindows(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]availabilityEntity.BusyWindow, error)
}

type calendarService struct {
	repo        repository.CalendarRepository
	oauth       *oauth2.Config
	httpClient  *http.Client
	freeBusyURL string
}

func NewCalendarService(repo repository.CalendarRepository, cfg config.GoogleAPIConfig) CalendarService {
	return &calendarService{
		repo: repo,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoints.Google,
			Scopes:       []string{googleFreeBusyScope},
		},
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		freeBusyURL: googleFreeBusyAPI,
	}
}

// GetConnections returns the user's active calendar connections
func (s *calendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, error) {
	connections, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CalendarConnectionResponse, 0, len(connections))
	for _, conn := range connections {
		out = append(out, dto.CalendarConnectionResponse{
			ID:            conn.ID.String(),
			Provider:      conn.Provider,
			CalendarEmail: conn.CalendarEmail,
			IsActive:      conn.IsActive,
			ConnectedAt:   conn.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// ImportBusyWindows asks Google free/busy for every connected user, a few
// connections at a time. A failing connection is logged and skipped.
func (s *calendarService) ImportBusyWindows(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]availabilityEntity.BusyWindow, error) {
	connections, err := s.repo.GetConnectionsByUserIDs(ctx, userIDs)
	if err != nil {
		logger.Error("CalendarService:ImportBusyWindows:GetConnections", "error", err)
		return nil, err
	}

	var mu sync.Mutex
	out := make(map[uuid.UUID][]availabilityEntity.BusyWindow, len(connections))
	p := pool.New().WithMaxGoroutines(maxConcurrentFreeBusy)
	for i := range connections {
		conn := &connections[i]
		p.Go(func() {
			windows, err := s.freeBusy(ctx, conn, from, to)
			if err != nil {
				logger.Warn("CalendarService:ImportBusyWindows:Skip", "user_id", conn.UserID, "email", conn.CalendarEmail, "error", err)
				return
			}
			mu.Lock()
			out[conn.UserID] = append(out[conn.UserID], windows...)
			mu.Unlock()
		})
	}
	p.Wait()

	logger.Debug("CalendarService:ImportBusyWindows:Done", "connections", len(connections), "users", len(out))
	return out, nil
}

func (s *calendarService) freeBusy(ctx context.Context, conn *entity.CalendarConnection, from, to time.Time) ([]availabilityEntity.BusyWindow, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
		TokenType:    "Bearer",
	}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if token.AccessToken != conn.AccessToken {
		conn.AccessToken = token.AccessToken
		conn.TokenExpiresAt = token.Expiry
		if token.RefreshToken != "" {
			conn.RefreshToken = token.RefreshToken
		}
		if err := s.repo.UpdateConnection(ctx, conn); err != nil {
			logger.Warn("CalendarService:freeBusy:UpdateTokenFailed", "user_id", conn.UserID, "error", err)
		}
	}

	body, err := json.Marshal(dto.FreeBusyQuery{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []dto.FreeBusyItem{{ID: conn.CalendarEmail}},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.freeBusyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("google freeBusy status %d: %s", resp.StatusCode, msg)
	}

	var result dto.FreeBusyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode freeBusy: %w", err)
	}

	cal, ok := result.Calendars[conn.CalendarEmail]
	if !ok {
		return nil, nil
	}
	windows := make([]availabilityEntity.BusyWindow, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		start, err1 := time.Parse(time.RFC3339, b.Start)
		end, err2 := time.Parse(time.RFC3339, b.End)
		if err1 != nil || err2 != nil {
			continue
		}
		w := availabilityEntity.BusyWindow{Start: start, End: end, Source: availabilityEntity.BusySourceImport}
		if w.Valid() {
			windows = append(windows, w)
		}
	}
	return windows, nil
}
