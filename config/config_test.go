package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()

	if p.PlotBackend != "term" {
		t.Errorf("expected plot backend term, got %s", p.PlotBackend)
	}
	if p.CredibleInterval != 0.94 {
		t.Errorf("expected credible interval 0.94, got %f", p.CredibleInterval)
	}
	if p.IndexOrigin != 0 {
		t.Errorf("expected index origin 0, got %d", p.IndexOrigin)
	}
	if p.PlotWidth <= 0 || p.PlotHeight <= 0 {
		t.Error("plot sizes should be positive")
	}
	if len(p.ColorCycle) == 0 {
		t.Error("expected a non-empty color cycle")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bayeslab.yaml")
	body := "credible_interval: 0.5\ncompute_backend: pure\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.CredibleInterval != 0.5 {
		t.Errorf("expected credible interval 0.5, got %f", p.CredibleInterval)
	}
	if p.ComputeBackend != "pure" {
		t.Errorf("expected compute backend pure, got %s", p.ComputeBackend)
	}
	if p.PlotWidth != DefaultPlotWidth {
		t.Errorf("unset keys should keep defaults, got width %d", p.PlotWidth)
	}
	if p.DataDir != DefaultDataDir {
		t.Errorf("unset keys should keep defaults, got data dir %s", p.DataDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bayeslab.yaml")

	p := Default()
	p.PlotBackend = "svg"
	p.PlotWidth = 120
	p.ColorCycle = []string{"red", "green"}

	if err := Save(path, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.PlotBackend != "svg" || got.PlotWidth != 120 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.ColorCycle) != 2 || got.ColorCycle[0] != "red" {
		t.Errorf("round trip lost color cycle: %v", got.ColorCycle)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero interval", func(p *Params) { p.CredibleInterval = 0 }},
		{"interval above one", func(p *Params) { p.CredibleInterval = 1.5 }},
		{"bad origin", func(p *Params) { p.IndexOrigin = 2 }},
		{"zero width", func(p *Params) { p.PlotWidth = 0 }},
		{"negative height", func(p *Params) { p.PlotHeight = -1 }},
	}

	for _, tt := range tests {
		p := Default()
		tt.mutate(p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
