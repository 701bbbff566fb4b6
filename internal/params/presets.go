package params

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/roivaz/docsplit/internal/splitter"
)

// Preset is a partial configuration. Nil fields leave the underlying value
// untouched, so a zero overlap can still be expressed.
type Preset struct {
	Description    string   `json:"description,omitempty"`
	Kind           string   `json:"splitter_type,omitempty"`
	ChunkSize      *int     `json:"chunk_size,omitempty"`
	ChunkOverlap   *int     `json:"chunk_overlap,omitempty"`
	Separators     []string `json:"separators,omitempty"`
	KeepSeparator  *bool    `json:"keep_separator,omitempty"`
	MaxHeaderLevel *int     `json:"max_header_level,omitempty"`
}

// Apply returns cfg with every field set in p replaced.
func (p Preset) Apply(cfg splitter.Config) splitter.Config {
	if p.Kind != "" {
		cfg.Kind = splitter.Kind(strings.ToLower(p.Kind))
	}
	if p.ChunkSize != nil {
		cfg.ChunkSize = *p.ChunkSize
	}
	if p.ChunkOverlap != nil {
		cfg.ChunkOverlap = *p.ChunkOverlap
	}
	if p.Separators != nil {
		cfg.Separators = slices.Clone(p.Separators)
	}
	if p.KeepSeparator != nil {
		cfg.KeepSeparator = *p.KeepSeparator
	}
	if p.MaxHeaderLevel != nil {
		cfg.MaxHeaderLevel = *p.MaxHeaderLevel
	}
	return cfg
}

type Presets map[string]Preset

type presetFile struct {
	Presets Presets `json:"presets"`
}

// LoadPresets reads a YAML presets file. An empty path yields no presets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return Presets{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	presets, err := ParsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	return presets, nil
}

// ParsePresets decodes the presets document:
//
//	presets:
//	  docs:
//	    splitter_type: markdown
//	    chunk_size: 800
func ParsePresets(data []byte) (Presets, error) {
	var f presetFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, err
	}
	for name, p := range f.Presets {
		if p.Kind == "" {
			continue
		}
		if _, err := splitter.ParseKind(p.Kind); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
	}
	if f.Presets == nil {
		f.Presets = Presets{}
	}
	return f.Presets, nil
}

// Get looks a preset up by name.
func (ps Presets) Get(name string) (Preset, error) {
	p, ok := ps[name]
	if !ok {
		return Preset{}, invalid("preset", "unknown preset %q", name)
	}
	return p, nil
}

// Names returns the preset names in sorted order.
func (ps Presets) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
