package config

import "testing"

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "DEV")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SCHEDULING_MAX_SLOTS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Env != EnvDev {
		t.Fatalf("App.Env = %q, want %q", cfg.App.Env, EnvDev)
	}
	if cfg.Address() != "0.0.0.0:9090" {
		t.Fatalf("Address() = %q", cfg.Address())
	}
	if cfg.Scheduling.MaxSlots != 12 {
		t.Fatalf("MaxSlots = %d", cfg.Scheduling.MaxSlots)
	}
	if cfg.Scheduling.DefaultPreset != "default" {
		t.Fatalf("DefaultPreset = %q", cfg.Scheduling.DefaultPreset)
	}
	if cfg.Scheduling.MaxRangeDays != 31 {
		t.Fatalf("MaxRangeDays = %d, want 31", cfg.Scheduling.MaxRangeDays)
	}
	if cfg.IsLocal() {
		t.Fatalf("dev config should not be local")
	}
}

func TestGetSafe_BeforeAndAfterSet(t *testing.T) {
	Set(nil)
	if _, ok := GetSafe(); ok {
		t.Fatalf("GetSafe should report false before Set")
	}

	Set(&Config{App: AppConfig{Name: "x"}})
	t.Cleanup(func() { Set(nil) })

	cfg, ok := GetSafe()
	if !ok || cfg.App.Name != "x" {
		t.Fatalf("GetSafe = %v, %v", cfg, ok)
	}
	if Get().App.Name != "x" {
		t.Fatalf("Get returned a different instance")
	}
}
