package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
)

func TestSplitDocuments(t *testing.T) {
	base := map[string]any{"source": "a.md"}
	docs := []schema.Document{{PageContent: "# A\n\ntext1\n\n## B\n\ntext2", Metadata: base}}

	out, err := New().SplitDocuments(docs, Config{Kind: KindMarkdown, ChunkSize: 100})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "## B\n\ntext2", out[1].PageContent)
	assert.Equal(t, "a.md", out[1].Metadata["source"])
	assert.Equal(t, 1, out[1].Metadata[MetaChunkIndex])
	assert.Equal(t, []string{"A", "B"}, out[1].Metadata[MetaHeaders])
	assert.NotContains(t, out[1].Metadata, MetaDeclaration)
	assert.Len(t, base, 1, "source metadata must not be mutated")
}

func TestSplitDocumentsWrapsConfigErrors(t *testing.T) {
	docs := []schema.Document{{PageContent: "x"}}
	_, err := New().SplitDocuments(docs, Config{Kind: KindPython, ChunkSize: 10, Separators: []string{"\n"}})
	require.ErrorIs(t, err, ErrUnsupportedOption)
	assert.Contains(t, err.Error(), "split document 0")
}

func TestChunkDocumentsWithoutBaseMetadata(t *testing.T) {
	res := mustSplit(t, "def f():\n    pass", Config{Kind: KindPython, ChunkSize: 100})
	docs := ChunkDocuments(res, nil)
	require.Len(t, docs, 1)
	assert.Equal(t, 0, docs[0].Metadata[MetaChunkIndex])
}
