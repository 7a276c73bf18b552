package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"social-calendar-api/core/config"
	"social-calendar-api/core/errors"
	"social-calendar-api/core/logger"
	"social-calendar-api/modules/availability/dto"
	"social-calendar-api/modules/availability/entity"
	"social-calendar-api/modules/availability/repository"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// BusyImporter supplies busy windows from connected external calendars.
type BusyImporter interface {
	ImportBusyWindows(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]entity.BusyWindow, error)
}

// WarmUpEnqueuer schedules a background ComputeGroupSchedule for a requester.
type WarmUpEnqueuer interface {
	EnqueueWarmUp(ctx context.Context, requesterID uuid.UUID, req *dto.ScheduleRequest) (*dto.WarmUpResponse, error)
}

type AvailabilityService interface {
	GetWorkSchedule(ctx context.Context, userID uuid.UUID) ([]entity.WorkScheduleDay, *errors.AppError)
	SaveWorkSchedule(ctx context.Context, userID uuid.UUID, days []entity.WorkScheduleDay) ([]entity.WorkScheduleDay, *errors.AppError)
	GetPreset(ctx context.Context, userID uuid.UUID) (entity.SuggestedHoursPreset, *errors.AppError)
	SavePreset(ctx context.Context, userID uuid.UUID, raw string) (entity.SuggestedHoursPreset, *errors.AppError)
	ComputeGroupSchedule(ctx context.Context, requesterID uuid.UUID, req *dto.ScheduleRequest) (*dto.ScheduleResponse, *errors.AppError)
	LatestSchedule(ctx context.Context, requesterID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError)
	EnqueueWarmUp(ctx context.Context, requesterID uuid.UUID, req *dto.ScheduleRequest) (*dto.WarmUpResponse, *errors.AppError)
}

// Dependencies groups the collaborators of the availability service.
// Importer and Enqueuer are optional.
type Dependencies struct {
	Schedules repository.WorkScheduleRepository
	Events    repository.EventBusyRepository
	Prefs     repository.PreferenceRepository
	Snapshots repository.SnapshotRepository
	Importer  BusyImporter
	Enqueuer  WarmUpEnqueuer
}

type availabilityService struct {
	deps      Dependencies
	cfg       config.SchedulingConfig
	loc       *time.Location
	sequencer *RequestSequencer
	schedules *expirable.LRU[uuid.UUID, []entity.WorkScheduleDay]
	now       func() time.Time
}

func NewAvailabilityService(deps Dependencies, cfg config.SchedulingConfig, loc *time.Location) AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	size := cfg.ScheduleCacheSize
	if size <= 0 {
		size = 1024
	}
	return &availabilityService{
		deps:      deps,
		cfg:       cfg,
		loc:       loc,
		sequencer: NewRequestSequencer(cfg.SequencerSize),
		schedules: expirable.NewLRU[uuid.UUID, []entity.WorkScheduleDay](size, nil, time.Duration(cfg.ScheduleCacheTTL)*time.Second),
		now:       time.Now,
	}
}

// ===================== Work schedule =====================

func (s *availabilityService) GetWorkSchedule(ctx context.Context, userID uuid.UUID) ([]entity.WorkScheduleDay, *errors.AppError) {
	if days, ok := s.schedules.Get(userID); ok {
		return days, nil
	}
	days, err := s.deps.Schedules.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get work schedule", err)
	}
	s.schedules.Add(userID, days)
	return days, nil
}

func (s *availabilityService) SaveWorkSchedule(ctx context.Context, userID uuid.UUID, days []entity.WorkScheduleDay) ([]entity.WorkScheduleDay, *errors.AppError) {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("day_of_week %d out of range", d.DayOfWeek), nil)
		}
		if seen[d.DayOfWeek] {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("day_of_week %d given twice", d.DayOfWeek), nil)
		}
		seen[d.DayOfWeek] = true
		if err := validateClocks(d); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), nil)
		}
	}

	saved, err := s.deps.Schedules.ReplaceForUser(ctx, userID, days)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to save work schedule", err)
	}
	s.schedules.Remove(userID)
	return saved, nil
}

func validateClocks(d entity.WorkScheduleDay) error {
	check := func(name, v string) error {
		if v == "" {
			return nil
		}
		if m, ok := entity.ParseClock(v); !ok || m >= 24*60 {
			return fmt.Errorf("%s %q is not HH:MM", name, v)
		}
		return nil
	}
	if err := check("start_time", d.StartTime); err != nil {
		return err
	}
	if err := check("end_time", d.EndTime); err != nil {
		return err
	}
	if d.Block2StartTime != nil {
		if err := check("block2_start_time", *d.Block2StartTime); err != nil {
			return err
		}
	}
	if d.Block2EndTime != nil {
		if err := check("block2_end_time", *d.Block2EndTime); err != nil {
			return err
		}
	}
	return nil
}

// workSchedules returns schedules for every user, reading through the cache.
func (s *availabilityService) workSchedules(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]entity.WorkScheduleDay, error) {
	out := make(map[uuid.UUID][]entity.WorkScheduleDay, len(userIDs))
	var misses []uuid.UUID
	for _, id := range userIDs {
		if days, ok := s.schedules.Get(id); ok {
			out[id] = days
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	loaded, err := s.deps.Schedules.GetByUserIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, id := range misses {
		days := loaded[id]
		s.schedules.Add(id, days)
		out[id] = days
	}
	return out, nil
}

// ===================== Preset =====================

func (s *availabilityService) GetPreset(ctx context.Context, userID uuid.UUID) (entity.SuggestedHoursPreset, *errors.AppError) {
	raw, err := s.deps.Prefs.GetPreset(ctx, userID)
	if err != nil {
		return "", errors.NewAppError(errors.ErrGetFailed, "Failed to get preset", err)
	}
	if raw == "" {
		return entity.ParsePreset(s.cfg.DefaultPreset), nil
	}
	return entity.ParsePreset(raw), nil
}

func (s *availabilityService) SavePreset(ctx context.Context, userID uuid.UUID, raw string) (entity.SuggestedHoursPreset, *errors.AppError) {
	preset, ok := entity.LookupPreset(raw)
	if !ok {
		return "", errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown preset %q", raw), nil)
	}
	if err := s.deps.Prefs.SavePreset(ctx, userID, preset); err != nil {
		return "", errors.NewAppError(errors.ErrUpdateFailed, "Failed to save preset", err)
	}
	return preset, nil
}

// ===================== Group schedule =====================

// ComputeGroupSchedule gathers every member's busy time, runs the slot engine
// and optionally ranks the result. Only the requester's newest computation is
// published as the latest snapshot; older ones come back marked Superseded.
func (s *availabilityService) ComputeGroupSchedule(ctx context.Context, requesterID uuid.UUID, req *dto.ScheduleRequest) (*dto.ScheduleResponse, *errors.AppError) {
	ticket := s.sequencer.Begin(requesterID.String())

	if err := ctx.Err(); err != nil {
		return nil, errors.NewAppError(errors.ErrRequestCancelled, "Request cancelled", err)
	}

	loc := s.loc
	if req.Timezone != "" {
		l, err := time.LoadLocation(req.Timezone)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid timezone", err)
		}
		loc = l
	}

	members, memberIDs := memberList(requesterID, req.MemberIDs)
	rangeStart, rangeEnd := s.resolveRange(req, loc)
	if maxDays := s.maxRangeDays(); !rangeStart.IsZero() && rangeEnd.After(rangeStart.AddDate(0, 0, maxDays)) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("range longer than %d days", maxDays), nil)
	}

	resp := &dto.ScheduleResponse{
		RequestSeq: ticket.Seq,
		Timezone:   loc.String(),
		Members:    members,
		ComputedAt: s.now(),
	}

	if !rangeStart.IsZero() && !rangeEnd.IsZero() && rangeEnd.After(rangeStart) {
		resp.RangeStart, resp.RangeEnd = &rangeStart, &rangeEnd

		busy, appErr := s.collectBusy(ctx, memberIDs, req.ManualBusy, rangeStart, rangeEnd)
		if appErr != nil {
			return nil, appErr
		}

		if err := ctx.Err(); err != nil {
			return nil, errors.NewAppError(errors.ErrRequestCancelled, "Request cancelled", err)
		}

		slots, ok := ComputeSchedule(members, busy, rangeStart, rangeEnd)
		resp.IsRangeValid = true
		if ok {
			s.fillSlots(ctx, requesterID, req, resp, slots)
		}
	}

	logger.Info("AvailabilityService:ComputeGroupSchedule:Computed",
		"requester_id", requesterID,
		"seq", ticket.Seq,
		"members", len(members),
		"range_valid", resp.IsRangeValid,
		"slots", resp.TotalSlots,
	)

	if err := ctx.Err(); err != nil {
		return nil, errors.NewAppError(errors.ErrRequestCancelled, "Request cancelled", err)
	}

	if !ticket.IsLatest() {
		resp.Superseded = true
		logger.Debug("AvailabilityService:ComputeGroupSchedule:Superseded", "requester_id", requesterID, "seq", ticket.Seq)
		return resp, nil
	}
	published, err := s.deps.Snapshots.SaveLatest(ctx, requesterID, ticket.Version, resp)
	if err != nil {
		logger.Warn("AvailabilityService:ComputeGroupSchedule:PublishFailed", "requester_id", requesterID, "error", err)
		return resp, nil
	}
	if !published {
		// a newer request published between the check above and the write
		resp.Superseded = true
		logger.Debug("AvailabilityService:ComputeGroupSchedule:Superseded", "requester_id", requesterID, "seq", ticket.Seq)
	}
	return resp, nil
}

func (s *availabilityService) fillSlots(ctx context.Context, requesterID uuid.UUID, req *dto.ScheduleRequest, resp *dto.ScheduleResponse, slots []entity.SlotResult) {
	var social func(entity.SlotResult) float64
	if req.Rank {
		preset := s.rankingPreset(ctx, requesterID, req.Preset)
		slots = RankSlotsForPreset(slots, preset)
		social = func(slot entity.SlotResult) float64 { return ScoreSlotSocial(slot, preset) }
		resp.Ranked = true
		resp.Preset = &preset
	}

	resp.TotalSlots = len(slots)
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.MaxSlots
	}
	if limit > 0 && len(slots) > limit {
		slots = slots[:limit]
	}
	resp.Slots = dto.ToSlotResponses(slots, social)
}

func (s *availabilityService) rankingPreset(ctx context.Context, requesterID uuid.UUID, raw string) entity.SuggestedHoursPreset {
	if raw != "" {
		return entity.ParsePreset(raw)
	}
	preset, appErr := s.GetPreset(ctx, requesterID)
	if appErr != nil {
		logger.Warn("AvailabilityService:rankingPreset:Fallback", "requester_id", requesterID, "error", appErr)
		return entity.ParsePreset(s.cfg.DefaultPreset)
	}
	return preset
}

func (s *availabilityService) maxRangeDays() int {
	if s.cfg.MaxRangeDays > 0 {
		return s.cfg.MaxRangeDays
	}
	return 31
}

func (s *availabilityService) resolveRange(req *dto.ScheduleRequest, loc *time.Location) (time.Time, time.Time) {
	start := dto.ParseRangeTime(req.RangeStart, loc)
	if req.RangeEnd != "" || start.IsZero() {
		return start, dto.ParseRangeTime(req.RangeEnd, loc)
	}
	days := req.SearchDays
	if days <= 0 {
		days = s.cfg.SearchDays
	}
	if days <= 0 {
		days = 7
	}
	return start, start.AddDate(0, 0, days)
}

// collectBusy merges work-schedule, event, imported and manual busy windows
// per member, sorted by start.
func (s *availabilityService) collectBusy(ctx context.Context, memberIDs []uuid.UUID, manual []dto.ManualBusyRequest, from, to time.Time) (map[string][]entity.BusyWindow, *errors.AppError) {
	busy := make(map[string][]entity.BusyWindow, len(memberIDs))

	schedules, err := s.workSchedules(ctx, memberIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load work schedules", err)
	}
	for id, days := range schedules {
		busy[id.String()] = append(busy[id.String()], BuildWorkScheduleBusyWindows(days, from, to)...)
	}

	events, err := s.deps.Events.GetBusyWindows(ctx, memberIDs, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load scheduled events", err)
	}
	for id, windows := range events {
		busy[id.String()] = append(busy[id.String()], windows...)
	}

	if s.deps.Importer != nil {
		imported, err := s.deps.Importer.ImportBusyWindows(ctx, memberIDs, from, to)
		if err != nil {
			logger.Warn("AvailabilityService:collectBusy:ImportFailed", "error", err)
		}
		for id, windows := range imported {
			busy[id.String()] = append(busy[id.String()], windows...)
		}
	}

	inGroup := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		inGroup[id.String()] = true
	}
	for _, m := range manual {
		uid, err := uuid.Parse(m.UserID)
		if err != nil || !inGroup[uid.String()] {
			continue
		}
		w := entity.BusyWindow{
			Start:  dto.ParseRangeTime(m.Start, from.Location()),
			End:    dto.ParseRangeTime(m.End, from.Location()),
			Source: entity.BusySourceManual,
		}
		if w.Valid() {
			busy[uid.String()] = append(busy[uid.String()], w)
		}
	}

	for id := range busy {
		windows := busy[id]
		sort.SliceStable(windows, func(i, j int) bool { return windows[i].Start.Before(windows[j].Start) })
	}
	return busy, nil
}

// memberList puts the requester first and drops duplicates and malformed ids.
func memberList(requesterID uuid.UUID, raw []string) ([]string, []uuid.UUID) {
	ids := []uuid.UUID{requesterID}
	seen := map[uuid.UUID]bool{requesterID: true}
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names, ids
}

// ===================== Snapshot & warm-up =====================

func (s *availabilityService) LatestSchedule(ctx context.Context, requesterID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError) {
	var resp dto.ScheduleResponse
	found, err := s.deps.Snapshots.GetLatest(ctx, requesterID, &resp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to read latest schedule", err)
	}
	if !found {
		return nil, errors.NewAppError(errors.ErrNotFound, "No schedule computed yet", nil)
	}
	return &resp, nil
}

func (s *availabilityService) EnqueueWarmUp(ctx context.Context, requesterID uuid.UUID, req *dto.ScheduleRequest) (*dto.WarmUpResponse, *errors.AppError) {
	if s.deps.Enqueuer == nil {
		return nil, errors.NewAppError(errors.ErrEnqueueFailed, "Background worker is disabled", nil)
	}
	resp, err := s.deps.Enqueuer.EnqueueWarmUp(ctx, requesterID, req)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrEnqueueFailed, "Failed to enqueue schedule warm-up", err)
	}
	return resp, nil
}
