package splitter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind names a splitting strategy.
type Kind string

const (
	KindRecursive  Kind = "recursive"
	KindCharacter  Kind = "character"
	KindToken      Kind = "token"
	KindMarkdown   Kind = "markdown"
	KindPython     Kind = "python"
	KindJavaScript Kind = "javascript"
)

// Kinds lists every supported kind in catalog order.
var Kinds = []Kind{KindRecursive, KindCharacter, KindToken, KindMarkdown, KindPython, KindJavaScript}

// ParseKind resolves a caller supplied splitter type. Matching ignores case
// and surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Kinds, k) {
		return "", &ConfigError{Kind: ErrInvalidConfiguration, Param: "splitter_type", Reason: fmt.Sprintf("unknown splitter type %q", s)}
	}
	return k, nil
}

// lexical reports whether the kind splits on caller overridable separators.
func (k Kind) lexical() bool {
	return k == KindRecursive || k == KindCharacter
}

// Unit is the measure chunk_size and chunk_overlap are expressed in.
type Unit string

const (
	UnitCharacters Unit = "characters"
	UnitTokens     Unit = "tokens"
)

// Unit returns the size unit used by the kind.
func (k Kind) Unit() Unit {
	if k == KindToken {
		return UnitTokens
	}
	return UnitCharacters
}

// Config describes how a text is chunked. The zero value is invalid; build
// one per request and pass it to Splitter.Split.
type Config struct {
	Kind           Kind     `json:"splitter_type"`
	ChunkSize      int      `json:"chunk_size"`
	ChunkOverlap   int      `json:"chunk_overlap"`
	Separators     []string `json:"separators,omitempty"`
	KeepSeparator  bool     `json:"keep_separator"`
	MaxHeaderLevel int      `json:"max_header_level,omitempty"`
}

var (
	// ErrInvalidConfiguration marks a configuration that can never be split.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedOption marks an option the selected kind does not accept.
	ErrUnsupportedOption = errors.New("unsupported option")
)

// ConfigError is returned by Validate and Split. Kind is one of the sentinel
// errors above and is reachable through errors.Is.
type ConfigError struct {
	Kind   error
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Param, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

func invalid(param, format string, args ...any) error {
	return &ConfigError{Kind: ErrInvalidConfiguration, Param: param, Reason: fmt.Sprintf(format, args...)}
}

func unsupported(param, format string, args ...any) error {
	return &ConfigError{Kind: ErrUnsupportedOption, Param: param, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration without resolving defaults.
func (c Config) Validate() error {
	if !slices.Contains(Kinds, c.Kind) {
		return invalid("splitter_type", "unknown splitter type %q", c.Kind)
	}
	if c.ChunkSize <= 0 {
		return invalid("chunk_size", "must be greater than zero, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return invalid("chunk_overlap", "cannot be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return invalid("chunk_overlap", "%d must be smaller than chunk_size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if len(c.Separators) > 0 && !c.Kind.lexical() {
		return unsupported("separators", "%s splitter does not accept custom separators", c.Kind)
	}
	if c.MaxHeaderLevel != 0 {
		if c.Kind != KindMarkdown {
			return unsupported("max_header_level", "only the markdown splitter accepts a header level")
		}
		if c.MaxHeaderLevel < 1 || c.MaxHeaderLevel > maxHeadingLevel {
			return invalid("max_header_level", "must be between 1 and %d, got %d", maxHeadingLevel, c.MaxHeaderLevel)
		}
	}
	return nil
}

// resolve fills in policy defaults. The returned config is what Split
// actually ran with and is echoed back in the Result.
func (c Config) resolve(p Policy) Config {
	out := c
	switch c.Kind {
	case KindRecursive:
		if len(c.Separators) == 0 {
			out.Separators = slices.Clone(p.Recursive)
		} else {
			out.Separators = withFallback(c.Separators)
		}
	case KindCharacter:
		if len(c.Separators) == 0 {
			out.Separators = slices.Clone(p.Character)
		} else {
			out.Separators = slices.Clone(c.Separators)
		}
	case KindPython:
		out.Separators = slices.Clone(p.Python)
		out.KeepSeparator = true
	case KindJavaScript:
		out.Separators = slices.Clone(p.JavaScript)
		out.KeepSeparator = true
	case KindMarkdown:
		out.Separators = nil
		if out.MaxHeaderLevel == 0 {
			out.MaxHeaderLevel = maxHeadingLevel
		}
	case KindToken:
		out.Separators = nil
		out.KeepSeparator = false
	}
	return out
}

// withFallback appends the character level separator so recursion always
// bottoms out in pieces that fit.
func withFallback(seps []string) []string {
	out := slices.Clone(seps)
	if out[len(out)-1] != "" {
		out = append(out, "")
	}
	return out
}
