package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Figure is a chart size in pixels.
type Figure struct {
	Width  int `yaml:"width" toml:"width" json:"width"`
	Height int `yaml:"height" toml:"height" json:"height"`
}

// Presentation holds the recognised display options of the dashboard.
type Presentation struct {
	Title          string            `yaml:"title" toml:"title" json:"title"`
	Layout         string            `yaml:"layout" toml:"layout" json:"layout"`
	Figures        map[string]Figure `yaml:"figures" toml:"figures" json:"figures"`
	TimeOfDayOrder []string          `yaml:"time_of_day_order" toml:"time_of_day_order" json:"time_of_day_order"`
}

const (
	LayoutWide     = "wide"
	LayoutCentered = "centered"
)

var defaultFigure = Figure{Width: 1000, Height: 500}

func DefaultPresentation() Presentation {
	return Presentation{
		Title:  "Decathlon Sales Dashboard",
		Layout: LayoutWide,
		Figures: map[string]Figure{
			"top-models":              {Width: 1000, Height: 500},
			"transactions-by-time":    {Width: 1000, Height: 500},
			"transactions-per-branch": {Width: 1000, Height: 500},
			"avg-basket-value":        {Width: 1000, Height: 488},
			"avg-basket-size":         {Width: 1000, Height: 490},
			"total-sales":             {Width: 1000, Height: 500},
		},
	}
}

// FigureFor returns the configured size for chart, or the default 1000x500.
func (p Presentation) FigureFor(chart string) Figure {
	if f, ok := p.Figures[chart]; ok && f.Width > 0 && f.Height > 0 {
		return f
	}
	return defaultFigure
}

// LoadPresentation reads a TOML, YAML or JSON file and overlays it on the
// defaults. An empty path returns the defaults.
func LoadPresentation(filePath string) (Presentation, error) {
	p := DefaultPresentation()
	if filePath == "" {
		return p, nil
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return p, fmt.Errorf("error accessing presentation file: %w", err)
	}
	if fileInfo.IsDir() {
		return p, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return p, fmt.Errorf("error reading presentation file: %w", err)
	}

	var loaded Presentation
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		if err := toml.Unmarshal(fileData, &loaded); err != nil {
			return p, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &loaded); err != nil {
			return p, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &loaded); err != nil {
			return p, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return p, fmt.Errorf("unsupported presentation file format: %s", filepath.Ext(filePath))
	}

	p.merge(loaded)
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("invalid presentation file: %w", err)
	}
	return p, nil
}

func (p *Presentation) merge(o Presentation) {
	if o.Title != "" {
		p.Title = o.Title
	}
	if o.Layout != "" {
		p.Layout = o.Layout
	}
	for k, f := range o.Figures {
		p.Figures[k] = f
	}
	if len(o.TimeOfDayOrder) > 0 {
		p.TimeOfDayOrder = slices.Clone(o.TimeOfDayOrder)
	}
}

func (p Presentation) validate() error {
	if p.Layout != LayoutWide && p.Layout != LayoutCentered {
		return fmt.Errorf("invalid layout %q, must be one of: %s, %s", p.Layout, LayoutWide, LayoutCentered)
	}
	for name, f := range p.Figures {
		if f.Width <= 0 || f.Height <= 0 {
			return fmt.Errorf("figure %q must have positive width and height", name)
		}
	}
	return nil
}
