package service

import (
	"testing"
	"time"

	"social-calendar-api/modules/availability/entity"
)

func day(h, m int) time.Time {
	return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC) // Monday
}

func TestComputeSchedule_InvalidRange(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"zero start", time.Time{}, day(12, 0)},
		{"zero end", day(9, 0), time.Time{}},
		{"inverted", day(12, 0), day(9, 0)},
		{"equal", day(9, 0), day(9, 0)},
		{"shorter than a slot", day(9, 0), day(9, 59)},
	}
	for _, c := range cases {
		slots, ok := ComputeSchedule([]string{"a"}, nil, c.start, c.end)
		if ok || slots != nil {
			t.Errorf("%s: got %d slots, ok=%v; want nil,false", c.name, len(slots), ok)
		}
	}
}

func TestComputeSchedule_SlotGrid(t *testing.T) {
	slots, ok := ComputeSchedule([]string{"a"}, nil, day(9, 0), day(11, 0))
	if !ok {
		t.Fatal("ok = false")
	}
	// 09:00, 09:30, 10:00
	if len(slots) != 3 {
		t.Fatalf("len = %d, want 3", len(slots))
	}
	for i, s := range slots {
		want := day(9, 0).Add(time.Duration(i) * SlotStep)
		if !s.Start.Equal(want) || s.End.Sub(s.Start) != SlotDuration {
			t.Fatalf("slot %d = %v..%v", i, s.Start, s.End)
		}
		if s.Score != 1 || s.AvailableCount != 1 {
			t.Fatalf("slot %d score=%v available=%d", i, s.Score, s.AvailableCount)
		}
	}
}

func TestComputeSchedule_EmptyGroup(t *testing.T) {
	slots, ok := ComputeSchedule(nil, nil, day(9, 0), day(10, 0))
	if !ok || len(slots) != 1 {
		t.Fatalf("len=%d ok=%v", len(slots), ok)
	}
	if slots[0].Score != 0 || slots[0].TotalMembers != 0 {
		t.Fatalf("slot = %+v", slots[0])
	}
}

func TestComputeSchedule_PartitionAndExclusion(t *testing.T) {
	members := []string{"a", "b", "c"}
	busy := map[string][]entity.BusyWindow{
		"a": {{Start: day(9, 0), End: day(17, 0), Source: entity.BusySourceWorkSchedule}},
		"b": {
			{Start: day(14, 0), End: day(15, 0), Source: entity.BusySourceEvent},
			{Start: day(8, 0), End: day(8, 30), Source: entity.BusySourceManual},
			{Start: day(12, 0), End: day(11, 0)}, // malformed, ignored
		},
		// c has no entry: always free
	}

	slots, ok := ComputeSchedule(members, busy, day(6, 0), day(20, 0))
	if !ok {
		t.Fatal("ok = false")
	}

	for _, s := range slots {
		if len(s.AvailableUserIDs)+len(s.UnavailableUserIDs) != s.TotalMembers || s.TotalMembers != 3 {
			t.Fatalf("partition broken at %v: %+v", s.Start, s)
		}
		if s.AvailableCount != len(s.AvailableUserIDs) {
			t.Fatalf("count mismatch at %v", s.Start)
		}
		seen := map[string]bool{}
		for _, id := range append(append([]string{}, s.AvailableUserIDs...), s.UnavailableUserIDs...) {
			if seen[id] {
				t.Fatalf("member %s in both sets at %v", id, s.Start)
			}
			seen[id] = true
		}

		aBusy := contains(s.UnavailableUserIDs, "a")
		overlapsWork := s.Start.Before(day(17, 0)) && s.End.After(day(9, 0))
		if aBusy != overlapsWork {
			t.Fatalf("a busy=%v at %v, want %v", aBusy, s.Start, overlapsWork)
		}
		if !s.End.After(day(9, 0)) && !contains(s.AvailableUserIDs, "a") {
			t.Fatalf("a should be free for slot ending %v", s.End)
		}
		if contains(s.UnavailableUserIDs, "c") {
			t.Fatalf("c should always be free, busy at %v", s.Start)
		}
	}

	// half-open: a slot ending exactly when b's window starts is free for b
	for _, s := range slots {
		if s.Start.Equal(day(13, 0)) && !contains(s.AvailableUserIDs, "b") {
			t.Fatal("b should be free for 13:00-14:00")
		}
		if s.Start.Equal(day(13, 30)) && !contains(s.UnavailableUserIDs, "b") {
			t.Fatal("b should be busy for 13:30-14:30")
		}
	}
}

func TestComputeSchedule_Ordering(t *testing.T) {
	members := []string{"a", "b"}
	busy := map[string][]entity.BusyWindow{
		"a": {{Start: day(10, 0), End: day(11, 0)}},
	}
	slots, ok := ComputeSchedule(members, busy, day(9, 0), day(12, 0))
	if !ok {
		t.Fatal("ok = false")
	}
	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		if prev.Score < cur.Score {
			t.Fatalf("score not descending at %d", i)
		}
		if prev.Score == cur.Score && !prev.Start.Before(cur.Start) {
			t.Fatalf("tie not broken by start at %d", i)
		}
	}
	if !slots[0].Start.Equal(day(9, 0)) || slots[0].Score != 1 {
		t.Fatalf("first slot = %v score %v", slots[0].Start, slots[0].Score)
	}
	if last := slots[len(slots)-1]; last.Score != 0.5 {
		t.Fatalf("last score = %v, want 0.5", last.Score)
	}
}

func TestEndToEnd_MondayWorkDay(t *testing.T) {
	mon := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)

	windows := BuildWorkScheduleBusyWindows(weekdays("09:00", "17:00"), mon, tue)
	if len(windows) != 1 {
		t.Fatalf("windows = %d, want 1", len(windows))
	}
	w := windows[0]
	if !w.Start.Equal(day(9, 0)) || !w.End.Equal(day(17, 0)) || w.Source != entity.BusySourceWorkSchedule {
		t.Fatalf("window = %+v", w)
	}

	slots, ok := ComputeSchedule([]string{"m"}, map[string][]entity.BusyWindow{"m": windows}, mon, tue)
	if !ok {
		t.Fatal("ok = false")
	}
	if len(slots) != 47 {
		t.Fatalf("len = %d, want 47", len(slots))
	}

	var before, after int
	for _, s := range slots {
		inside := !s.Start.Before(w.Start) && !s.End.After(w.End)
		if inside && s.AvailableCount != 0 {
			t.Fatalf("member available inside work hours at %v", s.Start)
		}
		if !s.End.After(w.Start) {
			before++
			if s.Score != 1.0 {
				t.Fatalf("slot %v before work has score %v", s.Start, s.Score)
			}
		}
		if !s.Start.Before(w.End) {
			after++
			if s.Score != 1.0 {
				t.Fatalf("slot %v after work has score %v", s.Start, s.Score)
			}
		}
	}
	if before == 0 || after == 0 {
		t.Fatalf("before=%d after=%d, want free slots on both sides", before, after)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
