// Package params turns caller supplied splitter parameters into a validated
// splitter.Config. Requests arrive as the JSON object the upload form posts
// under "splitter_params"; unspecified fields fall back to configured
// defaults and an optional named preset.
package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/roivaz/docsplit/internal/splitter"
)

// Limits caps what a caller may ask for. Zero disables a limit.
type Limits struct {
	MaxChunkSize    int
	MaxChunkOverlap int
}

type Parser struct {
	Defaults splitter.Config
	Limits   Limits
	Presets  Presets
}

// Parse overlays raw on the defaults. An empty raw string selects the
// defaults unchanged. A "preset" key applies that preset before the other
// keys.
func (p Parser) Parse(raw string) (splitter.Config, error) {
	cfg := p.Defaults
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if !gjson.Valid(raw) {
			return splitter.Config{}, invalid("splitter_params", "not valid JSON")
		}
		root := gjson.Parse(raw)
		if !root.IsObject() {
			return splitter.Config{}, invalid("splitter_params", "must be a JSON object")
		}
		if name := root.Get("preset"); name.Exists() {
			pr, err := p.Presets.Get(name.String())
			if err != nil {
				return splitter.Config{}, err
			}
			cfg = pr.Apply(cfg)
		}
		ov, err := overlayFromJSON(root)
		if err != nil {
			return splitter.Config{}, err
		}
		cfg = ov.Apply(cfg)
	}
	return cfg, p.Check(cfg)
}

// Check validates cfg and enforces the limits.
func (p Parser) Check(cfg splitter.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if p.Limits.MaxChunkSize > 0 && cfg.ChunkSize > p.Limits.MaxChunkSize {
		return invalid("chunk_size", "%d exceeds the maximum of %d", cfg.ChunkSize, p.Limits.MaxChunkSize)
	}
	if p.Limits.MaxChunkOverlap > 0 && cfg.ChunkOverlap > p.Limits.MaxChunkOverlap {
		return invalid("chunk_overlap", "%d exceeds the maximum of %d", cfg.ChunkOverlap, p.Limits.MaxChunkOverlap)
	}
	return nil
}

func overlayFromJSON(root gjson.Result) (Preset, error) {
	var ov Preset
	if r := root.Get("splitter_type"); r.Exists() {
		k, err := splitter.ParseKind(r.String())
		if err != nil {
			return Preset{}, err
		}
		ov.Kind = string(k)
	}
	for _, f := range []struct {
		key string
		dst **int
	}{
		{"chunk_size", &ov.ChunkSize},
		{"chunk_overlap", &ov.ChunkOverlap},
		{"max_header_level", &ov.MaxHeaderLevel},
	} {
		r := root.Get(f.key)
		if !r.Exists() {
			continue
		}
		n, err := intField(r, f.key)
		if err != nil {
			return Preset{}, err
		}
		*f.dst = &n
	}
	if r := root.Get("keep_separator"); r.Exists() {
		b, err := boolField(r, "keep_separator")
		if err != nil {
			return Preset{}, err
		}
		ov.KeepSeparator = &b
	}
	if r := root.Get("separators"); r.Exists() {
		seps, err := stringList(r, "separators")
		if err != nil {
			return Preset{}, err
		}
		ov.Separators = seps
	}
	if r := root.Get("headers_to_split_on"); r.Exists() && ov.MaxHeaderLevel == nil {
		level, err := headerDepth(r)
		if err != nil {
			return Preset{}, err
		}
		ov.MaxHeaderLevel = &level
	}
	return ov, nil
}

func intField(r gjson.Result, param string) (int, error) {
	switch r.Type {
	case gjson.Number:
		if r.Num != math.Trunc(r.Num) {
			return 0, invalid(param, "must be an integer, got %s", r.Raw)
		}
		return int(r.Num), nil
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, invalid(param, "must be an integer, got %q", r.Str)
		}
		return n, nil
	default:
		return 0, invalid(param, "must be an integer, got %s", r.Raw)
	}
}

func boolField(r gjson.Result, param string) (bool, error) {
	switch r.Type {
	case gjson.True, gjson.False:
		return r.Bool(), nil
	case gjson.String:
		b, err := strconv.ParseBool(strings.TrimSpace(r.Str))
		if err != nil {
			return false, invalid(param, "must be a boolean, got %q", r.Str)
		}
		return b, nil
	default:
		return false, invalid(param, "must be a boolean, got %s", r.Raw)
	}
}

// stringList accepts a JSON array of strings or a single string.
func stringList(r gjson.Result, param string) ([]string, error) {
	if r.Type == gjson.String {
		return []string{r.Str}, nil
	}
	if !r.IsArray() {
		return nil, invalid(param, "must be a list of strings")
	}
	items := r.Array()
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.Type != gjson.String {
			return nil, invalid(param, "must be a list of strings, got %s", it.Raw)
		}
		out = append(out, it.Str)
	}
	return out, nil
}

// headerDepth reads the upload form's headers_to_split_on list, either
// [["#", "Header 1"], ...] pairs or bare markers, and returns the deepest
// heading level it names.
func headerDepth(r gjson.Result) (int, error) {
	if !r.IsArray() {
		return 0, invalid("headers_to_split_on", "must be a list")
	}
	depth := 0
	for _, it := range r.Array() {
		marker := it
		if it.IsArray() {
			marker = it.Get("0")
		}
		m := strings.TrimSpace(marker.String())
		if m == "" || strings.Trim(m, "#") != "" {
			return 0, invalid("headers_to_split_on", "%s is not a heading marker", it.Raw)
		}
		depth = max(depth, len(m))
	}
	if depth == 0 {
		return 0, invalid("headers_to_split_on", "must name at least one heading marker")
	}
	return depth, nil
}

func invalid(param, format string, args ...any) error {
	return &splitter.ConfigError{
		Kind:   splitter.ErrInvalidConfiguration,
		Param:  param,
		Reason: fmt.Sprintf(format, args...),
	}
}
