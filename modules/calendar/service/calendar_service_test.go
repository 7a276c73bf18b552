package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"social-calendar-api/core/config"
	"social-calendar-api/modules/calendar/dto"
	"social-calendar-api/modules/calendar/entity"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type fakeRepo struct {
	mu          sync.Mutex
	connections []entity.CalendarConnection
	updated     []entity.CalendarConnection
}

func (f *fakeRepo) GetConnectionsByUserID(_ context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	var out []entity.CalendarConnection
	for _, c := range f.connections {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetConnectionsByUserIDs(context.Context, []uuid.UUID) ([]entity.CalendarConnection, error) {
	return append([]entity.CalendarConnection(nil), f.connections...), nil
}

func (f *fakeRepo) UpdateConnection(_ context.Context, conn *entity.CalendarConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, *conn)
	return nil
}

func newGoogleStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/freeBusy", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer valid" && auth != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var q dto.FreeBusyQuery
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil || len(q.Items) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		email := q.Items[0].ID
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"calendars": map[string]any{
				email: map[string]any{
					"busy": []map[string]string{
						{"start": "2024-03-04T10:00:00Z", "end": "2024-03-04T11:00:00Z"},
						{"start": "bad", "end": "2024-03-04T12:00:00Z"},
						{"start": "2024-03-04T13:00:00Z", "end": "2024-03-04T13:00:00Z"},
					},
				},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestImportBusyWindows(t *testing.T) {
	srv := newGoogleStub(t)
	defer srv.Close()

	valid, expired, revoked := uuid.New(), uuid.New(), uuid.New()
	repo := &fakeRepo{connections: []entity.CalendarConnection{
		{UserID: valid, Provider: dto.ProviderGoogle, AccessToken: "valid", TokenExpiresAt: time.Now().Add(time.Hour), CalendarEmail: "a@example.com", IsActive: true},
		{UserID: expired, Provider: dto.ProviderGoogle, AccessToken: "old", RefreshToken: "r", TokenExpiresAt: time.Now().Add(-time.Hour), CalendarEmail: "b@example.com", IsActive: true},
		{UserID: revoked, Provider: dto.ProviderGoogle, AccessToken: "revoked", TokenExpiresAt: time.Now().Add(time.Hour), CalendarEmail: "c@example.com", IsActive: true},
	}}

	svc := NewCalendarService(repo, config.GoogleAPIConfig{ClientID: "id", ClientSecret: "secret"}).(*calendarService)
	svc.freeBusyURL = srv.URL + "/freeBusy"
	svc.oauth.Endpoint.TokenURL = srv.URL + "/token"
	svc.httpClient = srv.Client()

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	got, err := svc.ImportBusyWindows(context.Background(), []uuid.UUID{valid, expired, revoked}, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ImportBusyWindows: %v", err)
	}

	for _, id := range []uuid.UUID{valid, expired} {
		windows := got[id]
		if len(windows) != 1 {
			t.Fatalf("user %v windows = %+v, want 1", id, windows)
		}
		if windows[0].Source != "import" || windows[0].Start.Hour() != 10 {
			t.Fatalf("window = %+v", windows[0])
		}
	}
	if _, ok := got[revoked]; ok {
		t.Fatal("failed connection should be skipped")
	}

	if len(repo.updated) != 1 || repo.updated[0].AccessToken != "fresh" || repo.updated[0].RefreshToken != "r" {
		t.Fatalf("updated = %+v", repo.updated)
	}
}

func TestImportBusyWindows_ConcurrentAndBounded(t *testing.T) {
	var inFlight, peak atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Inc()
		defer inFlight.Dec()
		for {
			p := peak.Load()
			if n <= p || peak.CAS(p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)

		var q dto.FreeBusyQuery
		json.NewDecoder(r.Body).Decode(&q)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"calendars": map[string]any{
				q.Items[0].ID: map[string]any{
					"busy": []map[string]string{{"start": "2024-03-04T10:00:00Z", "end": "2024-03-04T11:00:00Z"}},
				},
			},
		})
	}))
	defer srv.Close()

	const members = 20
	repo := &fakeRepo{}
	ids := make([]uuid.UUID, members)
	for i := range ids {
		ids[i] = uuid.New()
		repo.connections = append(repo.connections, entity.CalendarConnection{
			UserID: ids[i], Provider: dto.ProviderGoogle, AccessToken: "valid",
			TokenExpiresAt: time.Now().Add(time.Hour), CalendarEmail: ids[i].String() + "@example.com", IsActive: true,
		})
	}

	svc := NewCalendarService(repo, config.GoogleAPIConfig{ClientID: "id", ClientSecret: "secret"}).(*calendarService)
	svc.freeBusyURL = srv.URL
	svc.httpClient = srv.Client()

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	got, err := svc.ImportBusyWindows(context.Background(), ids, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ImportBusyWindows: %v", err)
	}
	if len(got) != members {
		t.Fatalf("users with windows = %d, want %d", len(got), members)
	}
	if p := peak.Load(); p < 2 || p > maxConcurrentFreeBusy {
		t.Fatalf("peak in-flight = %d, want 2..%d", p, maxConcurrentFreeBusy)
	}
}

func TestGetConnections(t *testing.T) {
	user := uuid.New()
	repo := &fakeRepo{connections: []entity.CalendarConnection{{UserID: user, Provider: dto.ProviderGoogle, CalendarEmail: "a@example.com", IsActive: true}}}
	got, err := NewCalendarService(repo, config.GoogleAPIConfig{}).GetConnections(context.Background(), user)
	if err != nil || len(got) != 1 || got[0].CalendarEmail != "a@example.com" {
		t.Fatalf("GetConnections = %+v, %v", got, err)
	}
}
