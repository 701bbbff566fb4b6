package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"

	"github.com/roivaz/docsplit/internal/logging"
	"github.com/roivaz/docsplit/internal/params"
	"github.com/roivaz/docsplit/internal/render"
	"github.com/roivaz/docsplit/internal/splitter"
)

func newTestService(workers int) *Service {
	return New(Config{
		Parser: params.Parser{
			Defaults: splitter.Config{Kind: splitter.KindRecursive, ChunkSize: 1000, ChunkOverlap: 200},
			Limits:   params.Limits{MaxChunkSize: 10000, MaxChunkOverlap: 1000},
		},
		Workers: workers,
		Logger:  logging.Discard(),
	})
}

func TestSplitRendersRequestedFormat(t *testing.T) {
	svc := newTestService(1)
	cfg, err := svc.ParseParams(`{"splitter_type":"token","chunk_size":2,"chunk_overlap":0}`)
	require.NoError(t, err)

	resp, err := svc.Split(context.Background(), Request{Text: "a b c", Config: cfg, Format: render.FormatMarkdown})
	require.NoError(t, err)
	assert.Equal(t, []string{"a b", "c"}, resp.Result.Texts())
	assert.Equal(t, 3, resp.Words)
	assert.Nil(t, resp.Tokens)
	assert.Equal(t, render.FormatMarkdown, resp.Format)
	assert.Contains(t, string(resp.Output), "**Chunk Count:** 2")
}

func TestSplitDefaultsToJSON(t *testing.T) {
	svc := newTestService(1)
	resp, err := svc.Split(context.Background(), Request{Text: "hello", Config: svc.Defaults()})
	require.NoError(t, err)
	assert.Equal(t, render.FormatJSON, resp.Format)
	assert.Contains(t, string(resp.Output), `"chunk_count": 1`)
}

func TestSplitEnforcesLimits(t *testing.T) {
	svc := newTestService(1)
	_, err := svc.Split(context.Background(), Request{
		Text:   "hello",
		Config: splitter.Config{Kind: splitter.KindRecursive, ChunkSize: 50000},
	})
	assert.ErrorIs(t, err, splitter.ErrInvalidConfiguration)
}

func TestSplitHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestService(1).Split(ctx, Request{Text: "x", Config: splitter.Config{Kind: splitter.KindToken, ChunkSize: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitBatchKeepsOrder(t *testing.T) {
	svc := newTestService(3)
	var reqs []Request
	for i := range 10 {
		reqs = append(reqs, Request{
			Text:   strings.Repeat(fmt.Sprintf("w%d ", i), i+1),
			Config: splitter.Config{Kind: splitter.KindToken, ChunkSize: 1},
			Format: render.FormatJSONL,
			Source: fmt.Sprintf("doc-%d", i),
		})
	}
	out, err := svc.SplitBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, out, len(reqs))
	for i, resp := range out {
		assert.Equal(t, fmt.Sprintf("doc-%d", i), resp.Source)
		assert.Equal(t, i+1, resp.Result.ChunkCount)
		assert.Contains(t, string(resp.Output), fmt.Sprintf(`"source":"doc-%d"`, i))
	}
}

func TestSplitBatchReportsFailingSource(t *testing.T) {
	svc := newTestService(2)
	reqs := []Request{
		{Text: "ok", Config: splitter.Config{Kind: splitter.KindToken, ChunkSize: 1}, Source: "good.txt"},
		{Text: "bad", Config: splitter.Config{Kind: splitter.KindMarkdown, ChunkSize: 10, Separators: []string{"x"}}, Source: "bad.md"},
	}
	_, err := svc.SplitBatch(context.Background(), reqs)
	require.ErrorIs(t, err, splitter.ErrUnsupportedOption)
	assert.Contains(t, err.Error(), "bad.md")
}

func TestSplitDocumentsAddsTokenEstimates(t *testing.T) {
	svc := newTestService(1)
	svc.tokenEstimates = true
	docs := []schema.Document{
		{PageContent: "a b c", Metadata: map[string]any{"source": "one.txt"}},
		{PageContent: "d", Metadata: map[string]any{"source": "two.txt"}},
	}

	out, err := svc.SplitDocuments(context.Background(), docs, splitter.Config{Kind: splitter.KindToken, ChunkSize: 2})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"a b", "c", "d"}, []string{out[0].PageContent, out[1].PageContent, out[2].PageContent})
	assert.Equal(t, "one.txt", out[1].Metadata["source"])
	assert.Equal(t, "two.txt", out[2].Metadata["source"])
	for _, doc := range out {
		assert.Contains(t, doc.Metadata, "tokens")
	}
}

func TestSplitDocumentsEnforcesLimits(t *testing.T) {
	svc := newTestService(1)
	docs := []schema.Document{{PageContent: "hello"}}
	_, err := svc.SplitDocuments(context.Background(), docs, splitter.Config{Kind: splitter.KindRecursive, ChunkSize: 50000})
	assert.ErrorIs(t, err, splitter.ErrInvalidConfiguration)
}

func TestCatalogReflectsPolicy(t *testing.T) {
	p := splitter.DefaultPolicy()
	p.Character = []string{"|"}
	svc := New(Config{Splitter: splitter.New(splitter.WithPolicy(p))})
	info := svc.Catalog()
	assert.Equal(t, []string{"|"}, info.Kinds[1].DefaultSeparators)
	assert.Equal(t, defaultWorkers, svc.workers)
}
