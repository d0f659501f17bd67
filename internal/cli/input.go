package cli

import (
	"fmt"
	"math"
	"os"

	"AstroChart/internal/services/astro"

	"gopkg.in/yaml.v3"
)

// pointsFile is the aspects input: an ordered list of named longitudes.
type pointsFile struct {
	Points []astro.Point `yaml:"points"`
}

// snapshotFile is the chart input. Bodies are keyed by display name.
type snapshotFile struct {
	Bodies    map[string]float64 `yaml:"bodies"`
	Cusps     []float64          `yaml:"cusps"`
	Ascendant float64            `yaml:"ascendant"`
	Midheaven float64            `yaml:"midheaven"`
}

func readYAML(path string, dest interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: longitude must be finite, got %v", name, v)
	}
	return nil
}

func (f pointsFile) check() error {
	for _, p := range f.Points {
		if err := finite(p.Name, p.Longitude); err != nil {
			return err
		}
	}
	return nil
}

func (f snapshotFile) toSnapshot() (astro.Snapshot, error) {
	if len(f.Cusps) != 12 {
		return astro.Snapshot{}, fmt.Errorf("expected 12 cusps, got %d", len(f.Cusps))
	}
	for i, c := range f.Cusps {
		if err := finite(fmt.Sprintf("cusp %d", i+1), c); err != nil {
			return astro.Snapshot{}, err
		}
	}
	if err := finite("ascendant", f.Ascendant); err != nil {
		return astro.Snapshot{}, err
	}
	if err := finite("midheaven", f.Midheaven); err != nil {
		return astro.Snapshot{}, err
	}
	bodies := make(astro.Longitudes, len(f.Bodies))
	for name, lon := range f.Bodies {
		b, ok := astro.ParseBody(name)
		if !ok {
			return astro.Snapshot{}, fmt.Errorf("unknown body %q", name)
		}
		if err := finite(name, lon); err != nil {
			return astro.Snapshot{}, err
		}
		bodies[b] = lon
	}
	return astro.Snapshot{
		Bodies: bodies,
		Houses: astro.Houses{
			Cusps:     f.Cusps,
			Ascendant: f.Ascendant,
			Midheaven: f.Midheaven,
		},
	}, nil
}
