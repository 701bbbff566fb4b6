// Package render serialises a split result for storage or display.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tmc/langchaingo/schema"

	"github.com/roivaz/docsplit/internal/splitter"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	// FormatJSONL writes one langchaingo style document per line.
	FormatJSONL Format = "jsonl"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMarkdown, FormatJSON, FormatJSONL}

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts a format name, with "markdown" as an alias for md.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	case FormatJSON, FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
	}
}

// Ext is the file extension used when writing the format to disk.
func (f Format) Ext() string { return string(f) }

// Options carries optional per chunk annotations.
type Options struct {
	// Tokens holds a model token estimate per chunk, or nil.
	Tokens []int
	// Metadata is copied onto every jsonl line.
	Metadata map[string]any
}

type chunkJSON struct {
	splitter.Chunk
	Tokens *int `json:"tokens,omitempty"`
}

type document struct {
	Chunks     []chunkJSON     `json:"chunks"`
	ChunkCount int             `json:"chunk_count"`
	Params     splitter.Config `json:"splitter_params"`
}

type line struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// Write renders res to w in format f.
func Write(w io.Writer, res splitter.Result, f Format, opts Options) error {
	switch f {
	case FormatMarkdown:
		return writeMarkdown(w, res)
	case FormatJSON:
		return writeJSON(w, res, opts)
	case FormatJSONL:
		return writeJSONL(w, res, opts)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// Bytes renders res in format f.
func Bytes(res splitter.Result, f Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, res, f, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMarkdown(w io.Writer, res splitter.Result) error {
	params, err := json.MarshalIndent(res.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal splitter params: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Split Document\n\n**Chunk Count:** %d\n\n**Splitter Parameters:** %s\n\n---\n\n", res.ChunkCount, params)
	for i, c := range res.Chunks {
		fmt.Fprintf(&b, "## Chunk %d\n\n%s\n\n---\n\n", i+1, c.Text)
	}
	_, err = io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, res splitter.Result, opts Options) error {
	doc := document{
		Chunks:     make([]chunkJSON, len(res.Chunks)),
		ChunkCount: res.ChunkCount,
		Params:     res.Config,
	}
	for i, c := range res.Chunks {
		doc.Chunks[i] = chunkJSON{Chunk: c, Tokens: tokenAt(opts.Tokens, i)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeJSONL(w io.Writer, res splitter.Result, opts Options) error {
	docs := splitter.ChunkDocuments(res, opts.Metadata)
	for i := range docs {
		if n := tokenAt(opts.Tokens, i); n != nil {
			docs[i].Metadata["tokens"] = *n
		}
	}
	return WriteDocuments(w, docs)
}

// WriteDocuments writes one {page_content, metadata} object per line.
func WriteDocuments(w io.Writer, docs []schema.Document) error {
	enc := json.NewEncoder(w)
	for i, doc := range docs {
		if err := enc.Encode(line{PageContent: doc.PageContent, Metadata: doc.Metadata}); err != nil {
			return fmt.Errorf("encode document %d: %w", i, err)
		}
	}
	return nil
}

func tokenAt(tokens []int, i int) *int {
	if i >= len(tokens) {
		return nil
	}
	n := tokens[i]
	return &n
}
