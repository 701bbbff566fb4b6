// Package splitter partitions extracted document text into bounded,
// overlapping chunks. It performs no I/O: every call is a pure function of
// its text and Config, so a Splitter is safe for concurrent use.
package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/roivaz/docsplit/internal/logging"
)

const (
	DefaultPreviewCount  = 3
	DefaultPreviewLength = 200
)

// strategy turns text into fragments for a resolved config.
type strategy func(text string, cfg Config, p Policy) []Fragment

var strategies = map[Kind]strategy{
	KindRecursive:  recursiveFragments,
	KindCharacter:  characterFragments,
	KindToken:      tokenFragments,
	KindMarkdown:   markdownFragments,
	KindPython:     codeFragments,
	KindJavaScript: codeFragments,
}

// Result is the outcome of one Split call.
type Result struct {
	Chunks     []Chunk  `json:"chunks"`
	ChunkCount int      `json:"chunk_count"`
	Preview    []string `json:"preview"`
	// Config is the configuration after defaults were applied.
	Config Config `json:"splitter_params"`
}

// Texts returns the chunk texts in order.
func (r Result) Texts() []string {
	out := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		out[i] = c.Text
	}
	return out
}

type Splitter struct {
	policy        Policy
	previewCount  int
	previewLength int
	log           logging.Logger
}

type Option func(*Splitter)

// WithPolicy replaces the default separator tables.
func WithPolicy(p Policy) Option {
	return func(s *Splitter) { s.policy = p }
}

// WithPreview sets how many chunks the preview holds and how many code
// points of each are kept. A non-positive length disables truncation.
func WithPreview(count, length int) Option {
	return func(s *Splitter) {
		s.previewCount = count
		s.previewLength = length
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Splitter) { s.log = l }
}

func New(opts ...Option) *Splitter {
	s := &Splitter{
		policy:        DefaultPolicy(),
		previewCount:  DefaultPreviewCount,
		previewLength: DefaultPreviewLength,
		log:           logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the separator tables the splitter resolves defaults from.
func (s *Splitter) Policy() Policy {
	return s.policy
}

// Split validates cfg and chunks text with the selected strategy. Empty or
// whitespace-only text yields a Result with no chunks.
func (s *Splitter) Split(text string, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	resolved := cfg.resolve(s.policy)
	res := Result{Chunks: []Chunk{}, Preview: []string{}, Config: resolved}
	if strings.TrimSpace(text) == "" {
		return res, nil
	}

	frags := strategies[resolved.Kind](text, resolved, s.policy)
	res.Chunks = assemble(text, frags, resolved)
	if res.Chunks == nil {
		res.Chunks = []Chunk{}
	}
	res.ChunkCount = len(res.Chunks)
	res.Preview = s.preview(res.Chunks)

	s.log.Debug("split text",
		"splitter_type", resolved.Kind,
		"chunk_size", resolved.ChunkSize,
		"chunk_overlap", resolved.ChunkOverlap,
		"fragments", len(frags),
		"chunks", res.ChunkCount,
	)
	return res, nil
}

func (s *Splitter) preview(chunks []Chunk) []string {
	n := min(len(chunks), max(s.previewCount, 0))
	out := make([]string, 0, n)
	for _, c := range chunks[:n] {
		out = append(out, Truncate(c.Text, s.previewLength))
	}
	return out
}

// Truncate cuts s to at most n code points. n <= 0 leaves s untouched.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for range n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
