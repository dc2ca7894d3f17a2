package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/store"
)

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != "/tmp/cfg/cogtrain/config.toml" {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != "/tmp/data/cogtrain/cogtrain.db" {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.General.Lang != nil || cfg.Reaction.Attempts != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
lang = "zh"
sound = true

[reaction]
attempts = 5

[sst]
step-ms = 25
stop-ratio = 0.3
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.General.Lang == nil || *cfg.General.Lang != "zh" {
		t.Fatalf("expected lang zh, got %+v", cfg.General)
	}
	p := cfg.Apply(DefaultPrefs())
	if !p.SoundEnabled || p.Reaction.Attempts != 5 || p.Stop.StepMs != 25 || p.Stop.StopRatio != 0.3 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Reaction.MinDelayMs != 800 || p.Stop.InitialSSDMs != 250 {
		t.Fatalf("unset keys changed: %+v", p)
	}
}

func TestTemplateDecodesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if got := cfg.Apply(DefaultPrefs()); got != DefaultPrefs() {
		t.Fatalf("template should not override anything, got %+v", got)
	}
}

func TestLoadPrefsMergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Put(ctx, PrefsKey, `{"soundEnabled":true,"reaction":{"minDelayMs":500},"unknown":1}`)
	p := LoadPrefs(ctx, kv, nil)
	if !p.SoundEnabled || p.Reaction.MinDelayMs != 500 {
		t.Fatalf("stored values not applied: %+v", p.Reaction)
	}
	if p.Reaction.MaxDelayMs != 2600 || p.Reaction.Attempts != 8 || p.GoNoGo.Trials != 30 {
		t.Fatalf("missing fields should keep defaults: %+v", p)
	}
}

func TestLoadPrefsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Put(ctx, PrefsKey, `{"reaction":`)
	var warned []string
	p := LoadPrefs(ctx, kv, func(format string, args ...any) {
		warned = append(warned, format)
	})
	if p != DefaultPrefs() {
		t.Fatalf("expected defaults for corrupt blob")
	}
	if len(warned) != 1 {
		t.Fatalf("expected one warning, got %d", len(warned))
	}
}

func TestSavePrefsRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	p := DefaultPrefs()
	p.Taps.Seconds = 10
	if err := SavePrefs(ctx, kv, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := LoadPrefs(ctx, kv, nil); got != p {
		t.Fatalf("expected saved prefs back, got %+v", got)
	}
}

func TestSetPref(t *testing.T) {
	p, err := SetPref(DefaultPrefs(), "sst.stepMs", "20")
	if err != nil || p.Stop.StepMs != 20 {
		t.Fatalf("expected stepMs 20, got %d err=%v", p.Stop.StepMs, err)
	}
	p, err = SetPref(p, "soundEnabled", "true")
	if err != nil || !p.SoundEnabled {
		t.Fatalf("expected sound on, err=%v", err)
	}
	for _, bad := range []struct{ path, value string }{
		{"sst.missing", "1"},
		{"sst", "1"},
		{"sst.stepMs", "fast"},
		{"sst.stepMs", "1.5"},
	} {
		if _, err := SetPref(p, bad.path, bad.value); err == nil {
			t.Fatalf("expected error for %s=%s", bad.path, bad.value)
		}
	}
}

func TestPlan(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	plan, err := LoadPlan(ctx, kv)
	if err != nil || len(plan) != 3 || plan[0].Game != model.GameReaction || plan[0].TargetPerDay != 3 {
		t.Fatalf("expected default plan, got %+v err=%v", plan, err)
	}
	plan, err = SetTarget(plan, model.GameTaps, 4)
	if err != nil || len(plan) != 4 {
		t.Fatalf("expected appended item, got %+v err=%v", plan, err)
	}
	plan, _ = SetTarget(plan, model.GameAim, 0)
	if err := SavePlan(ctx, kv, plan); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := LoadPlan(ctx, kv)
	if err != nil || len(back) != 3 || back[1].Game != model.GameGoNoGo || back[2].TargetPerDay != 4 {
		t.Fatalf("unexpected stored plan %+v err=%v", back, err)
	}
	if _, err := SetTarget(plan, "chess", 1); !errors.Is(err, model.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestPlanCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Put(ctx, PlanKey, "not json")
	plan, err := LoadPlan(ctx, kv)
	if err == nil || len(plan) != len(DefaultPlan()) {
		t.Fatalf("expected default plan and error, got %+v err=%v", plan, err)
	}
}

func TestLang(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	if got := LoadLang(ctx, kv); got != DefaultLang {
		t.Fatalf("expected default lang, got %q", got)
	}
	if err := SaveLang(ctx, kv, " ZH "); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := LoadLang(ctx, kv); got != "zh" {
		t.Fatalf("expected zh, got %q", got)
	}
	if err := SaveLang(ctx, kv, "klingon"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported language error, got %v", err)
	}
}

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[taps]\nseconds = 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan FileConfig, 8)
	ready := make(chan error, 1)
	go func() {
		ready <- Watch(ctx, path, func(cfg FileConfig) { changes <- cfg }, nil)
	}()

	// The watcher is registered asynchronously; keep rewriting until seen.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-changes:
			if cfg.Taps.Seconds != nil && *cfg.Taps.Seconds == 9 {
				return
			}
		case <-tick.C:
			if err := os.WriteFile(path, []byte("[taps]\nseconds = 9\n"), 0o644); err != nil {
				t.Fatalf("rewrite: %v", err)
			}
		case err := <-ready:
			t.Fatalf("watch exited early: %v", err)
		case <-deadline:
			t.Fatalf("no change observed")
		}
	}
}
