// Package config holds the run-control parameters shared by the bayeslab
// commands: plot and compute backend names, credible-interval mass, plot
// geometry, the color cycle, and the on-disk data directory.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCredibleInterval = 0.94
	DefaultIndexOrigin      = 0
	DefaultPlotWidth        = 80
	DefaultPlotHeight       = 16
	DefaultDataDir          = ".bayeslab"
)

// Params is the yaml-backed configuration for the toolkit. Empty backend
// names mean automatic selection.
type Params struct {
	PlotBackend      string   `yaml:"plot_backend"`
	ComputeBackend   string   `yaml:"compute_backend"`
	CredibleInterval float64  `yaml:"credible_interval"`
	IndexOrigin      int      `yaml:"index_origin"`
	PlotWidth        int      `yaml:"plot_width"`
	PlotHeight       int      `yaml:"plot_height"`
	ColorCycle       []string `yaml:"color_cycle"`
	DataDir          string   `yaml:"data_dir"`
}

func Default() *Params {
	return &Params{
		PlotBackend:      "term",
		ComputeBackend:   "",
		CredibleInterval: DefaultCredibleInterval,
		IndexOrigin:      DefaultIndexOrigin,
		PlotWidth:        DefaultPlotWidth,
		PlotHeight:       DefaultPlotHeight,
		ColorCycle:       []string{"blue", "orange", "green", "red", "purple", "cyan"},
		DataDir:          DefaultDataDir,
	}
}

// Load reads a yaml file and overlays it on the defaults, so a partial file
// only overrides the keys it names.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return p, nil
}

func Save(path string, p *Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the ranges every command relies on. The returned error
// names the offending parameter.
func (p *Params) Validate() error {
	if p.CredibleInterval <= 0 || p.CredibleInterval > 1 {
		return fmt.Errorf("config: credible_interval must be in (0, 1], got %v", p.CredibleInterval)
	}
	if p.IndexOrigin != 0 && p.IndexOrigin != 1 {
		return fmt.Errorf("config: index_origin must be 0 or 1, got %d", p.IndexOrigin)
	}
	if p.PlotWidth <= 0 {
		return fmt.Errorf("config: plot_width must be positive, got %d", p.PlotWidth)
	}
	if p.PlotHeight <= 0 {
		return fmt.Errorf("config: plot_height must be positive, got %d", p.PlotHeight)
	}
	return nil
}
