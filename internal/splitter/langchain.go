package splitter

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tmc/langchaingo/schema"
)

// Metadata keys set on documents produced by SplitDocuments.
const (
	MetaChunkIndex  = "chunk_index"
	MetaHeaders     = "headers"
	MetaDeclaration = "declaration"
)

// SplitDocuments chunks loader output and returns one document per chunk.
// Source metadata is copied onto each chunk and extended with the chunk
// index and any structural tag.
func (s *Splitter) SplitDocuments(docs []schema.Document, cfg Config) ([]schema.Document, error) {
	var out []schema.Document
	for i, doc := range docs {
		res, err := s.Split(doc.PageContent, cfg)
		if err != nil {
			return nil, fmt.Errorf("split document %d: %w", i, err)
		}
		out = append(out, ChunkDocuments(res, doc.Metadata)...)
	}
	return out, nil
}

// ChunkDocuments converts a Result into langchaingo documents carrying base
// metadata plus the per-chunk tags.
func ChunkDocuments(res Result, base map[string]any) []schema.Document {
	out := make([]schema.Document, 0, len(res.Chunks))
	for _, c := range res.Chunks {
		meta := maps.Clone(base)
		if meta == nil {
			meta = make(map[string]any)
		}
		meta[MetaChunkIndex] = c.Index
		if c.Metadata != nil {
			if len(c.Metadata.Headers) > 0 {
				meta[MetaHeaders] = slices.Clone(c.Metadata.Headers)
			}
			if c.Metadata.Declaration != "" {
				meta[MetaDeclaration] = c.Metadata.Declaration
			}
		}
		out = append(out, schema.Document{PageContent: c.Text, Metadata: meta})
	}
	return out
}
