package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headersOf(c Chunk) []string {
	if c.Metadata == nil {
		return nil
	}
	return c.Metadata.Headers
}

func declOf(c Chunk) string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.Declaration
}

func TestMarkdownHeaderPath(t *testing.T) {
	text := "# A\n\ntext1\n\n## B\n\ntext2"

	t.Run("ShouldTagNestedSection", func(t *testing.T) {
		res := mustSplit(t, text, Config{Kind: KindMarkdown, ChunkSize: 100})
		require.Equal(t, []string{"# A\n\ntext1", "## B\n\ntext2"}, res.Texts())
		assert.Equal(t, []string{"A"}, headersOf(res.Chunks[0]))
		assert.Equal(t, []string{"A", "B"}, headersOf(res.Chunks[1]))
	})

	t.Run("ShouldSeedAcrossSectionsButTagByFreshContent", func(t *testing.T) {
		res := mustSplit(t, text, Config{Kind: KindMarkdown, ChunkSize: 100, ChunkOverlap: 10})
		require.Equal(t, 2, res.ChunkCount)
		assert.Equal(t, "A\n\ntext1\n\n## B\n\ntext2", res.Chunks[1].Text)
		assert.Equal(t, []string{"A", "B"}, headersOf(res.Chunks[1]))
	})
}

func TestMarkdownSiblingHeadingPopsPath(t *testing.T) {
	res := mustSplit(t, "# A\n## B\nb\n# C\nc", Config{Kind: KindMarkdown, ChunkSize: 100})
	require.Equal(t, 3, res.ChunkCount)
	assert.Equal(t, []string{"A"}, headersOf(res.Chunks[0]))
	assert.Equal(t, []string{"A", "B"}, headersOf(res.Chunks[1]))
	assert.Equal(t, "# C\nc", res.Chunks[2].Text)
	assert.Equal(t, []string{"C"}, headersOf(res.Chunks[2]))
}

func TestMarkdownIgnoresHeadingsInFences(t *testing.T) {
	text := "# Title\n\n```bash\n# not a heading\n```\n\n## Sub\n\nbody"
	res := mustSplit(t, text, Config{Kind: KindMarkdown, ChunkSize: 200})
	require.Equal(t, 2, res.ChunkCount)
	assert.Contains(t, res.Chunks[0].Text, "# not a heading")
	assert.Equal(t, []string{"Title"}, headersOf(res.Chunks[0]))
	assert.Equal(t, []string{"Title", "Sub"}, headersOf(res.Chunks[1]))
}

func TestMarkdownFenceClosesOnBareMarkerOnly(t *testing.T) {
	text := "# Title\n\n```\nplain\n```python\n# still code\n```\n\n## Sub\n\nbody"
	res := mustSplit(t, text, Config{Kind: KindMarkdown, ChunkSize: 200})
	require.Equal(t, 2, res.ChunkCount)
	assert.Contains(t, res.Chunks[0].Text, "# still code")
	assert.Equal(t, []string{"Title"}, headersOf(res.Chunks[0]))
	assert.Equal(t, []string{"Title", "Sub"}, headersOf(res.Chunks[1]))
}

func TestFenceMarker(t *testing.T) {
	cases := []struct {
		line, marker, info string
	}{
		{line: "```", marker: "```"},
		{line: "  ````go", marker: "````", info: "go"},
		{line: "~~~ ", marker: "~~~"},
		{line: "``", marker: ""},
		{line: "text ```", marker: ""},
	}
	for _, tc := range cases {
		marker, info := fenceMarker(tc.line)
		assert.Equal(t, tc.marker, marker, tc.line)
		assert.Equal(t, tc.info, info, tc.line)
	}
}

func TestMarkdownMaxHeaderLevel(t *testing.T) {
	res := mustSplit(t, "# A\n## B\nbody", Config{Kind: KindMarkdown, ChunkSize: 100, MaxHeaderLevel: 1})
	require.Equal(t, 1, res.ChunkCount)
	assert.Equal(t, "# A\n## B\nbody", res.Chunks[0].Text)
	assert.Equal(t, []string{"A"}, headersOf(res.Chunks[0]))
}

func TestMarkdownPreambleHasNoHeaders(t *testing.T) {
	res := mustSplit(t, "intro\n# A\nx", Config{Kind: KindMarkdown, ChunkSize: 100})
	require.Equal(t, []string{"intro", "# A\nx"}, res.Texts())
	assert.Nil(t, res.Chunks[0].Metadata)
	assert.Equal(t, []string{"A"}, headersOf(res.Chunks[1]))
}

func TestMarkdownOversizedSectionKeepsTag(t *testing.T) {
	text := "# Big\n\n" + strings.Repeat("word ", 100)
	res := mustSplit(t, text, Config{Kind: KindMarkdown, ChunkSize: 50})
	require.Greater(t, res.ChunkCount, 1)
	for i, c := range res.Chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), 50, "chunk %d", i)
		assert.Equal(t, []string{"Big"}, headersOf(c), "chunk %d", i)
	}
}

func TestParseHeading(t *testing.T) {
	markers := DefaultPolicy().Headings
	cases := []struct {
		line  string
		ok    bool
		level int
		title string
	}{
		{line: "# Title", ok: true, level: 1, title: "Title"},
		{line: "### Deep  ", ok: true, level: 3, title: "Deep"},
		{line: "## Closed ##", ok: true, level: 2, title: "Closed"},
		{line: "# C#", ok: true, level: 1, title: "C#"},
		{line: "   # Indented", ok: true, level: 1, title: "Indented"},
		{line: "#", ok: true, level: 1, title: ""},
		{line: "    # code block", ok: false},
		{line: "#hashtag", ok: false},
		{line: "####### seven", ok: false},
		{line: "plain", ok: false},
	}
	for _, tc := range cases {
		h, ok := parseHeading(tc.line, markers)
		require.Equal(t, tc.ok, ok, tc.line)
		if ok {
			assert.Equal(t, tc.level, h.level, tc.line)
			assert.Equal(t, tc.title, h.title, tc.line)
		}
	}
}

func TestPythonDeclarations(t *testing.T) {
	src := "import os\n\ndef alpha():\n    return 1\n\ndef beta():\n    return 2\n\nclass Gamma:\n    pass\n"
	res := mustSplit(t, src, Config{Kind: KindPython, ChunkSize: 40})
	require.Equal(t, []string{
		"import os\n\ndef alpha():\n    return 1",
		"def beta():\n    return 2",
		"class Gamma:\n    pass",
	}, res.Texts())
	assert.Equal(t, "alpha", declOf(res.Chunks[0]))
	assert.Equal(t, "beta", declOf(res.Chunks[1]))
	assert.Equal(t, "Gamma", declOf(res.Chunks[2]))
}

func TestJavaScriptDeclarations(t *testing.T) {
	src := "const a = 1;\n\nfunction foo() {\n  return a;\n}\n\nfunction bar() {\n  return 2;\n}\n"
	res := mustSplit(t, src, Config{Kind: KindJavaScript, ChunkSize: 40})
	require.Equal(t, []string{
		"const a = 1;",
		"function foo() {\n  return a;\n}",
		"function bar() {\n  return 2;\n}",
	}, res.Texts())
	assert.Nil(t, res.Chunks[0].Metadata)
	assert.Equal(t, "foo", declOf(res.Chunks[1]))
	assert.Equal(t, "bar", declOf(res.Chunks[2]))
}

func TestTagDeclaration(t *testing.T) {
	cases := []struct {
		sep, piece, want string
	}{
		{sep: "\nfunction ", piece: "\nfunction* gen() {}", want: "gen"},
		{sep: "\nconst ", piece: "\nconst $x = 1", want: "$x"},
		{sep: "\n\tdef ", piece: "\n\tdef method(self):", want: "method"},
		{sep: "\nclass ", piece: "\nclass Foo(Base):", want: "Foo"},
		{sep: "\n", piece: "\ndef hidden():", want: ""},
		{sep: "\nlet ", piece: "\nlet (", want: ""},
	}
	for _, tc := range cases {
		got := tagDeclaration(tc.sep, tc.piece)
		if tc.want == "" {
			assert.Nil(t, got, tc.piece)
			continue
		}
		require.NotNil(t, got, tc.piece)
		assert.Equal(t, tc.want, got.Declaration)
	}
}

func TestTokenSplitter(t *testing.T) {
	text := "one two three four five six seven"

	res := mustSplit(t, text, Config{Kind: KindToken, ChunkSize: 3, ChunkOverlap: 1})
	assert.Equal(t, []string{"one two three", "three four five", "five six seven"}, res.Texts())

	res = mustSplit(t, text, Config{Kind: KindToken, ChunkSize: 3})
	assert.Equal(t, []string{"one two three", "four five six", "seven"}, res.Texts())

	res = mustSplit(t, "  leading and\n\ntrailing  ", Config{Kind: KindToken, ChunkSize: 10})
	assert.Equal(t, []string{"leading and\n\ntrailing"}, res.Texts())
}

func TestTokenOverlapCountsWords(t *testing.T) {
	text := sampleText()
	res := mustSplit(t, text, Config{Kind: KindToken, ChunkSize: 25, ChunkOverlap: 5})
	require.Greater(t, res.ChunkCount, 2)
	for i, c := range res.Chunks {
		words := strings.Fields(c.Text)
		assert.LessOrEqual(t, len(words), 25, "chunk %d", i)
		if i > 0 {
			prev := strings.Fields(res.Chunks[i-1].Text)
			assert.Equal(t, prev[len(prev)-5:], words[:5], "chunk %d", i)
		}
	}
}

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 3, CountTokens("one two  three\n"))
	assert.Equal(t, 0, CountTokens(" \t\n"))
}
