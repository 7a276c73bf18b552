package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"social-calendar-api/core/constants"
	"social-calendar-api/core/errors"
	"social-calendar-api/core/utils"
	"social-calendar-api/core/validator"
	"social-calendar-api/modules/availability/dto"
	"social-calendar-api/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type stubService struct {
	lastReq  *dto.ScheduleRequest
	lastDays []entity.WorkScheduleDay
	latest   *dto.ScheduleResponse
}

func (s *stubService) GetWorkSchedule(context.Context, uuid.UUID) ([]entity.WorkScheduleDay, *errors.AppError) {
	return []entity.WorkScheduleDay{{DayOfWeek: 1, IsEnabled: true, StartTime: "09:00", EndTime: "17:00"}}, nil
}

func (s *stubService) SaveWorkSchedule(_ context.Context, _ uuid.UUID, days []entity.WorkScheduleDay) ([]entity.WorkScheduleDay, *errors.AppError) {
	s.lastDays = days
	return days, nil
}

func (s *stubService) GetPreset(context.Context, uuid.UUID) (entity.SuggestedHoursPreset, *errors.AppError) {
	return entity.PresetNightOwl, nil
}

func (s *stubService) SavePreset(_ context.Context, _ uuid.UUID, raw string) (entity.SuggestedHoursPreset, *errors.AppError) {
	p, ok := entity.LookupPreset(raw)
	if !ok {
		return "", errors.NewAppError(errors.ErrInvalidInput, "unknown preset", nil)
	}
	return p, nil
}

func (s *stubService) ComputeGroupSchedule(_ context.Context, _ uuid.UUID, req *dto.ScheduleRequest) (*dto.ScheduleResponse, *errors.AppError) {
	s.lastReq = req
	return &dto.ScheduleResponse{RequestSeq: 7, IsRangeValid: true, ComputedAt: time.Now()}, nil
}

func (s *stubService) LatestSchedule(context.Context, uuid.UUID) (*dto.ScheduleResponse, *errors.AppError) {
	if s.latest == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No schedule computed yet", nil)
	}
	return s.latest, nil
}

func (s *stubService) EnqueueWarmUp(context.Context, uuid.UUID, *dto.ScheduleRequest) (*dto.WarmUpResponse, *errors.AppError) {
	return nil, errors.NewAppError(errors.ErrEnqueueFailed, "Background worker is disabled", nil)
}

func serve(t *testing.T, handler func(*AvailabilityController) echo.HandlerFunc, svc *stubService, method, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authed {
		c.Set(constants.ContextTokenData, &utils.TokenClaims{UserID: uuid.New(), Scope: constants.ScopeTokenAccess})
	}

	if err := handler(NewAvailabilityController(svc))(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestComputeSchedule(t *testing.T) {
	svc := &stubService{}
	member := uuid.NewString()

	rec := serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.ComputeSchedule }, svc, http.MethodPost,
		`{"member_ids":["`+member+`"],"range_start":"2024-03-04","rank":true,"preset":"night_owl"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	if svc.lastReq == nil || svc.lastReq.MemberIDs[0] != member || !svc.lastReq.Rank {
		t.Fatalf("request = %+v", svc.lastReq)
	}

	var body struct {
		Data dto.ScheduleResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Data.RequestSeq != 7 {
		t.Fatalf("body = %s (%v)", rec.Body, err)
	}
}

func TestComputeSchedule_Validation(t *testing.T) {
	cases := map[string]string{
		"no members":   `{"range_start":"2024-03-04"}`,
		"bad member":   `{"member_ids":["bob"]}`,
		"bad timezone": `{"member_ids":["` + uuid.NewString() + `"],"timezone":"Mars/Olympus"}`,
		"bad json":     `{"member_ids":`,
	}
	for name, body := range cases {
		rec := serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.ComputeSchedule }, &stubService{}, http.MethodPost, body, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestUnauthenticated(t *testing.T) {
	rec := serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.GetPreset }, &stubService{}, http.MethodGet, "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSaveWorkSchedule(t *testing.T) {
	svc := &stubService{}
	body := `{"days":[{"day_of_week":1,"is_enabled":true,"start_time":"09:00","end_time":"12:00","block2_start_time":"13:00","block2_end_time":"17:00"}]}`
	rec := serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.SaveWorkSchedule }, svc, http.MethodPut, body, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	if len(svc.lastDays) != 1 || *svc.lastDays[0].Block2EndTime != "17:00" {
		t.Fatalf("days = %+v", svc.lastDays)
	}

	bad := []string{
		`{"days":[{"day_of_week":8}]}`,
		`{"days":[{"day_of_week":1,"is_enabled":true,"start_time":"9am","end_time":"17:00"}]}`,
		`{"days":[{"day_of_week":1,"is_enabled":true}]}`,
		`{"days":[{"day_of_week":1},{"day_of_week":1}]}`,
	}
	for _, b := range bad {
		rec := serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.SaveWorkSchedule }, &stubService{}, http.MethodPut, b, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", b, rec.Code)
		}
	}
}

func TestPresetEndpoints(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.SavePreset }, svc, http.MethodPut, `{"preset":"brunch"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown preset status = %d", rec.Code)
	}

	rec = serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.SavePreset }, svc, http.MethodPut, `{"preset":"Late Late"}`, true)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"late_late"`) {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	rec = serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.ListPresets }, svc, http.MethodGet, "", true)
	var list struct {
		Data []dto.PresetResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list.Data) != 4 {
		t.Fatalf("presets = %s (%v)", rec.Body, err)
	}
}

func TestLatestAndWarmErrors(t *testing.T) {
	rec := serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.LatestSchedule }, &stubService{}, http.MethodGet, "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("latest status = %d, want 404", rec.Code)
	}

	rec = serve(t, func(c *AvailabilityController) echo.HandlerFunc { return c.WarmSchedule }, &stubService{}, http.MethodPost,
		`{"member_ids":["`+uuid.NewString()+`"]}`, true)
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "ENQUEUE_FAILED") {
		t.Fatalf("warm status = %d body = %s", rec.Code, rec.Body)
	}
}
