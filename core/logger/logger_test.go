package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.DebugLevel},
		{"  nonsense ", zerolog.DebugLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFields_PairsAndStragglers(t *testing.T) {
	boom := errors.New("boom")
	got := fields([]any{"user_id", "u1", boom})
	if len(got) != 2 || got[0] != (field{"user_id", "u1"}) || got[1].key != "error" || got[1].value != boom {
		t.Fatalf("fields = %+v", got)
	}

	got = fields([]any{42})
	if len(got) != 1 || got[0] != (field{"arg0", 42}) {
		t.Fatalf("fields = %+v", got)
	}
}

func TestInit_FieldsInArgumentOrder(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})
	t.Cleanup(func() { Init(Options{Level: "debug", Format: "console"}) })

	Info("Order", "zeta", 1, "alpha", 2, "mid", 3)

	out := buf.String()
	z, a, m := strings.Index(out, `"zeta"`), strings.Index(out, `"alpha"`), strings.Index(out, `"mid"`)
	if z < 0 || !(z < a && a < m) {
		t.Fatalf("fields out of order: %s", out)
	}
}

func TestInit_JSONOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Writer: &buf})
	t.Cleanup(func() { Init(Options{Level: "debug", Format: "console"}) })

	Debug("Hidden:Debug")
	Info("Availability:Compute", "slots", 3)

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "Hidden:Debug") {
		t.Fatalf("debug line should be filtered at info level: %s", out)
	}

	var line map[string]any
	if err := json.Unmarshal([]byte(out), &line); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if line["message"] != "Availability:Compute" || line["slots"] != float64(3) {
		t.Fatalf("unexpected line: %v", line)
	}
}
