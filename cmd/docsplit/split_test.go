package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/docsplit/internal/render"
	"github.com/roivaz/docsplit/internal/service"
	"github.com/roivaz/docsplit/internal/splitter"
)

func splitFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("split", pflag.ContinueOnError)
	addSplitFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestBuildParams(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "ShouldBeEmptyObjectWithoutFlags", want: `{}`},
		{name: "ShouldKeepParams", args: []string{"--params", `{"chunk_size":50}`}, want: `{"chunk_size":50}`},
		{
			name: "ShouldLetFlagsWin",
			args: []string{"--params", `{"chunk_size":50,"chunk_overlap":5}`, "--chunk-size", "80"},
			want: `{"chunk_overlap":5,"chunk_size":80}`,
		},
		{
			name: "ShouldMapEveryFlag",
			args: []string{
				"--type", "character", "--chunk-overlap", "0", "--separator", "|", "--separator", "",
				"--keep-separator", "--max-header-level", "2", "--preset", "docs",
			},
			want: `{"chunk_overlap":0,"keep_separator":true,"max_header_level":2,"preset":"docs","separators":["|",""],"splitter_type":"character"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := buildParams(splitFlags(t, tc.args...))
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, got)
		})
	}
}

func TestBuildParamsRejectsNonObject(t *testing.T) {
	_, err := buildParams(splitFlags(t, "--params", "[1]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--params")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "report_split.json"), outputPath("out", "docs/report.md", render.FormatJSON))
	assert.Equal(t, filepath.Join("out", "notes_split.md"), outputPath("out", "notes", render.FormatMarkdown))
	assert.Equal(t, filepath.Join("out", "stdin_split.jsonl"), outputPath("out", stdinSource, render.FormatJSONL))
}

func TestOutputPathsDisambiguateSharedBaseNames(t *testing.T) {
	resps := []service.Response{
		{Source: "a/x.md", Format: render.FormatMarkdown},
		{Source: "b/x.md", Format: render.FormatMarkdown},
		{Source: "c/x.txt", Format: render.FormatMarkdown},
		{Source: "x.md", Format: render.FormatJSON},
	}
	assert.Equal(t, []string{
		filepath.Join("out", "x_split.md"),
		filepath.Join("out", "x_2_split.md"),
		filepath.Join("out", "x_3_split.md"),
		filepath.Join("out", "x_split.json"),
	}, outputPaths("out", resps))
}

func TestWriteOutputKeepsEverySource(t *testing.T) {
	dir := t.TempDir()
	resps := []service.Response{
		{Source: "a/x.md", Format: render.FormatMarkdown, Output: []byte("first")},
		{Source: "b/x.md", Format: render.FormatMarkdown, Output: []byte("second")},
	}
	paths := outputPaths(filepath.Join(dir, "out"), resps)
	for i, resp := range resps {
		require.NoError(t, writeOutput(paths[i], resp.Output))
	}
	for i, resp := range resps {
		got, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		assert.Equal(t, resp.Output, got)
	}
}

func TestLoadDocumentsRecordsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n"), 0o644))

	docs, err := loadDocuments(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "line one\nline two\n", docs[0].PageContent)
	assert.Equal(t, path, docs[0].Metadata["source"])

	reqs, err := loadRequests(context.Background(), []string{path}, splitter.Config{Kind: splitter.KindToken, ChunkSize: 1}, render.FormatJSON)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, path, reqs[0].Source)
	assert.Equal(t, docs[0].PageContent, reqs[0].Text)
}

func TestLoadDocumentsMissingFile(t *testing.T) {
	_, err := loadDocuments(context.Background(), []string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDocumentReadsReader(t *testing.T) {
	doc, err := loadDocument(context.Background(), strings.NewReader("line one\nline two\n"), stdinSource)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", doc.PageContent)
	assert.Equal(t, stdinSource, doc.Metadata["source"])
}

func TestDocumentsFlagsFoldIntoParams(t *testing.T) {
	fs := pflag.NewFlagSet("documents", pflag.ContinueOnError)
	addParamFlags(fs)
	require.NoError(t, fs.Parse([]string{"--type", "markdown", "--chunk-size", "200"}))
	got, err := buildParams(fs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"splitter_type":"markdown","chunk_size":200}`, got)
}
