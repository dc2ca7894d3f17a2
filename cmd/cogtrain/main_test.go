package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cogtrain/internal/history"
	"github.com/verte-zerg/cogtrain/internal/model"
)

type cli struct {
	t   *testing.T
	db  string
	cfg string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return &cli{t: t, db: filepath.Join(dir, "test.db"), cfg: filepath.Join(dir, "config.toml")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--db", c.db, "--config", c.cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestPlanCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("plan", "taps", "4")
	out := c.mustRun("plan")
	for _, want := range []string{"Reaction Time", "Tap Speed", "0/4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in plan output, got %q", want, out)
		}
	}
	c.mustRun("plan", "taps", "0")
	if out := c.mustRun("plan"); strings.Contains(out, "Tap Speed") {
		t.Fatalf("expected taps removed, got %q", out)
	}
	if _, err := c.run("plan", "taps"); err == nil {
		t.Fatalf("expected error for a missing target")
	}
	if _, err := c.run("plan", "chess", "1"); err == nil {
		t.Fatalf("expected error for an unknown game")
	}
}

func TestPrefsSetShowReset(t *testing.T) {
	c := newCLI(t)
	c.mustRun("prefs", "set", "reaction.attempts", "10")
	if out := c.mustRun("prefs", "show"); !strings.Contains(out, `"attempts": 10`) {
		t.Fatalf("expected stored attempts, got %q", out)
	}
	if _, err := c.run("prefs", "set", "reaction.nope", "1"); err == nil {
		t.Fatalf("expected error for an unknown preference")
	}
	c.mustRun("prefs", "reset")
	if out := c.mustRun("prefs", "show"); !strings.Contains(out, `"attempts": 8`) {
		t.Fatalf("expected default attempts, got %q", out)
	}
}

func TestConfigFileOverlaysPrefs(t *testing.T) {
	c := newCLI(t)
	if err := os.WriteFile(c.cfg, []byte("[reaction]\nattempts = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if out := c.mustRun("prefs", "show"); !strings.Contains(out, `"attempts": 3`) {
		t.Fatalf("expected file override, got %q", out)
	}
}

func TestLanguageSelection(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("insights"); !strings.Contains(out, "Start training!") {
		t.Fatalf("expected english advice, got %q", out)
	}
	c.mustRun("lang", "zh")
	if out := c.mustRun("insights"); !strings.Contains(out, "开始训练吧") {
		t.Fatalf("expected chinese advice, got %q", out)
	}
	if out := c.mustRun("--lang", "en", "insights"); !strings.Contains(out, "Start training!") {
		t.Fatalf("expected flag to win, got %q", out)
	}
	if _, err := c.run("lang", "xx"); err == nil {
		t.Fatalf("expected error for an unknown language")
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	c := newCLI(t)
	dir := t.TempDir()
	now := time.Now().UTC().Truncate(time.Millisecond)
	records := []model.SessionRecord{
		{ID: "a", Date: now.Add(-time.Hour), Metrics: model.AimMetrics{Hits: 9, Accuracy: 40, TimeSec: 30}},
		{ID: "b", Date: now.Add(-2 * time.Hour), Metrics: model.AimMetrics{Hits: 8, Accuracy: 50, TimeSec: 30}},
	}
	var buf bytes.Buffer
	if err := history.ExportJSON(&buf, records); err != nil {
		t.Fatalf("export: %v", err)
	}
	in := filepath.Join(dir, "in.json")
	if err := os.WriteFile(in, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c.mustRun("import", in)

	if out := c.mustRun("insights"); !strings.Contains(out, "Aim accuracy is low") {
		t.Fatalf("expected aim advice after import, got %q", out)
	}

	csvPath := filepath.Join(dir, "out.csv")
	c.mustRun("export", "--format", "csv", "-o", csvPath)
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "\uFEFFID,Game,") {
		t.Fatalf("expected BOM and header, got %q", string(data[:20]))
	}
	got, err := history.DecodeCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("unexpected records %+v", got)
	}

	if out := c.mustRun("export"); !strings.Contains(out, `"aim"`) {
		t.Fatalf("expected JSON on stdout, got %q", out)
	}
}

func TestImportRejectsBadInput(t *testing.T) {
	c := newCLI(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"id":"x","date":"2026-01-01T00:00:00.000Z"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := c.run("import", bad); err == nil || !strings.Contains(err.Error(), "record 1") {
		t.Fatalf("expected rejection at record 1, got %v", err)
	}
	txt := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := c.run("import", txt); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run("clear"); err == nil {
		t.Fatalf("expected clear to need --yes")
	}
	c.mustRun("clear", "--yes")
	if out := c.mustRun("storage"); !strings.Contains(out, history.StorageKey) {
		t.Fatalf("expected history key after clear, got %q", out)
	}
}

func TestPlayRejectsUnknownGame(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("play", "chess")
	if err == nil || !strings.Contains(err.Error(), "available") {
		t.Fatalf("expected unknown game error, got %v", err)
	}
}
