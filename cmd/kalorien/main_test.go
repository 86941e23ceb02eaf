package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pbaille/kalorien/internal/export"
)

func setup(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "config.yaml")
	body := "storage:\n  driver: file\n  path: " + filepath.Join(dir, "data") + "\n" +
		"log:\n  file: " + filepath.Join(dir, "kalorien.log") + "\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, dir
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_FoodAndWeight(t *testing.T) {
	cfg, _ := setup(t)

	out, err := run(t, cfg, "food", "add", "Salat", "mit", "Hähnchen", "--calories", "350", "--protein", "25", "--carbs", "15", "--fat", "20")
	if err != nil {
		t.Fatalf("food add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Salat mit Hähnchen") || !strings.Contains(out, "350 kcal") {
		t.Errorf("food add output = %q", out)
	}

	if out, err := run(t, cfg, "food", "add", "Brot"); err == nil {
		t.Errorf("food add without calories succeeded: %s", out)
	}

	out, err = run(t, cfg, "food", "list")
	if err != nil || !strings.Contains(out, "Salat mit Hähnchen") {
		t.Fatalf("food list = %q, %v", out, err)
	}
	id := strings.Fields(out)[0]

	if out, err := run(t, cfg, "weight", "add", "72,5", "--notes", "morgens"); err != nil || !strings.Contains(out, "72.5 kg") {
		t.Errorf("weight add = %q, %v", out, err)
	}

	out, err = run(t, cfg, "dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out, "350 kcal in 1 entries") || !strings.Contains(out, "72.5 kg") {
		t.Errorf("dashboard output = %q", out)
	}

	if out, err := run(t, cfg, "food", "delete", id); err != nil || !strings.Contains(out, "Deleted") {
		t.Errorf("food delete = %q, %v", out, err)
	}
	if out, _ := run(t, cfg, "food", "list"); !strings.Contains(out, "No food entries") {
		t.Errorf("list after delete = %q", out)
	}
}

func TestCLI_Score(t *testing.T) {
	cfg, _ := setup(t)
	out, err := run(t, cfg, "score", "--protein", "30", "--carbs", "45", "--fat", "25")
	if err != nil || strings.TrimSpace(out) != "10.0" {
		t.Errorf("score = %q, %v", out, err)
	}
}

func TestCLI_Export(t *testing.T) {
	cfg, dir := setup(t)

	if _, err := run(t, cfg, "export", "food", "-o", dir); err == nil {
		t.Error("export of empty collection succeeded")
	}
	if _, err := run(t, cfg, "export", "csv"); err == nil {
		t.Error("export csv succeeded")
	}

	if _, err := run(t, cfg, "food", "add", "Apfel", "--calories", "52"); err != nil {
		t.Fatalf("food add: %v", err)
	}
	if _, err := run(t, cfg, "export", "all", "-o", dir); err != nil {
		t.Fatalf("export all: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, export.AllFile)); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
}

func TestCLI_AnalyzeAndSave(t *testing.T) {
	cfg, dir := setup(t)
	img := filepath.Join(dir, "lunch.png")
	if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	out, err := run(t, cfg, "analyze", img, "--save", "--notes", "Kantine")
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Salat mit Hähnchen: 350 kcal") || !strings.Contains(out, "Saved food entry") {
		t.Errorf("analyze output = %q", out)
	}

	if out, _ := run(t, cfg, "food", "list"); !strings.Contains(out, "Salat mit Hähnchen") {
		t.Errorf("saved entry missing from list: %q", out)
	}

	if _, err := run(t, cfg, "analyze", filepath.Join(dir, "missing.png")); err == nil {
		t.Error("analyze of missing file succeeded")
	}
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz"}
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"xyz", "xyz", false},
		{"abc", "abc123", false},
		{"ab", "", true},
		{"q", "", true},
	}
	for _, tt := range tests {
		got, err := resolveID(tt.ref, ids)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("resolveID(%q) = %q, %v", tt.ref, got, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Salat", 10, "Salat"},
		{"Käsespätzle", 11, "Käsespätzle"},
		{"Käsespätzle mit Röstzwiebeln", 10, "Käsespä..."},
		{"Müsli\nmit Obst", 20, "Müsli mit Obst"},
	}
	for _, c := range cases {
		got := truncate(c.in, c.max)
		if got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) is not valid UTF-8", c.in, c.max)
		}
	}
}
