package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github.com/roivaz/docsplit/internal/config"
	"github.com/roivaz/docsplit/internal/render"
	"github.com/roivaz/docsplit/internal/service"
	"github.com/roivaz/docsplit/internal/splitter"
)

const stdinSource = "stdin"

var splitCmd = &cobra.Command{
	Use:   "split [files...]",
	Short: "Split files (or stdin) into chunks",
	Long: `Split one or more text files into chunks. With no files the text is read
from stdin. Parameters come from --params and --preset first, then from the
individual flags, which win.`,
	RunE: runSplit,
}

func addSplitFlags(fs *pflag.FlagSet) {
	addParamFlags(fs)
	fs.String("format", "", "Output format (md, json, jsonl), defaults to output_format")
	fs.Bool("write", false, "Write <name>_split.<ext> files to output_dir instead of stdout")
	fs.BoolP("quiet", "q", false, "Do not print the summary")
}

// addParamFlags registers the flags buildParams folds into splitter_params.
func addParamFlags(fs *pflag.FlagSet) {
	fs.String("type", "", "Splitter type (recursive, character, token, markdown, python, javascript)")
	fs.Int("chunk-size", 0, "Maximum chunk size in the splitter's unit")
	fs.Int("chunk-overlap", 0, "Overlap carried between consecutive chunks")
	fs.StringArray("separator", nil, "Separator, repeatable, tried in order")
	fs.Bool("keep-separator", false, "Keep separators at the start of the following chunk")
	fs.Int("max-header-level", 0, "Deepest markdown heading level that starts a section")
	fs.String("params", "", "splitter_params JSON object")
	fs.String("preset", "", "Named preset from the presets file")
}

func runSplit(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	raw, err := buildParams(flags)
	if err != nil {
		return err
	}
	cfg, err := svc.ParseParams(raw)
	if err != nil {
		return err
	}

	formatName, _ := flags.GetString("format")
	if formatName == "" {
		formatName = config.OutputFormat()
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	reqs, err := loadRequests(ctx, args, cfg, format)
	if err != nil {
		return err
	}
	resps, err := svc.SplitBatch(ctx, reqs)
	if err != nil {
		return err
	}

	write, _ := flags.GetBool("write")
	quiet, _ := flags.GetBool("quiet")
	var paths []string
	if write {
		paths = outputPaths(config.OutputDir(), resps)
	}
	green := color.New(color.FgGreen).SprintFunc()
	for i, resp := range resps {
		dest := "stdout"
		if write {
			dest = paths[i]
			if err := writeOutput(dest, resp.Output); err != nil {
				return err
			}
		} else if _, err := os.Stdout.Write(resp.Output); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "%s %s: %d words, %d chunks (%s, size %d, overlap %d) -> %s\n",
				green("✓"), resp.Source, resp.Words, resp.Result.ChunkCount,
				resp.Result.Config.Kind, resp.Result.Config.ChunkSize, resp.Result.Config.ChunkOverlap, dest)
		}
	}
	return nil
}

// buildParams folds --preset and the explicitly set split flags into the
// --params object, so the result is validated once as a whole.
func buildParams(fs *pflag.FlagSet) (string, error) {
	raw, _ := fs.GetString("params")
	m := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return "", fmt.Errorf("--params must be a JSON object: %w", err)
		}
		if m == nil {
			m = map[string]any{}
		}
	}
	if preset, _ := fs.GetString("preset"); preset != "" {
		m["preset"] = preset
	}
	for flag, key := range flagParams {
		if !fs.Changed(flag) {
			continue
		}
		switch fs.Lookup(flag).Value.Type() {
		case "int":
			m[key], _ = fs.GetInt(flag)
		case "bool":
			m[key], _ = fs.GetBool(flag)
		case "stringArray":
			m[key], _ = fs.GetStringArray(flag)
		default:
			m[key], _ = fs.GetString(flag)
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var flagParams = map[string]string{
	"type":             "splitter_type",
	"chunk-size":       "chunk_size",
	"chunk-overlap":    "chunk_overlap",
	"separator":        "separators",
	"keep-separator":   "keep_separator",
	"max-header-level": "max_header_level",
}

func loadRequests(ctx context.Context, paths []string, cfg splitter.Config, format render.Format) ([]service.Request, error) {
	docs, err := loadDocuments(ctx, paths)
	if err != nil {
		return nil, err
	}
	reqs := make([]service.Request, len(docs))
	for i, doc := range docs {
		source, _ := doc.Metadata["source"].(string)
		reqs[i] = service.Request{Text: doc.PageContent, Config: cfg, Format: format, Source: source}
	}
	return reqs, nil
}

// loadDocuments reads each path, or stdin when there are none, into one
// document whose "source" metadata names where it came from.
func loadDocuments(ctx context.Context, paths []string) ([]schema.Document, error) {
	if len(paths) == 0 {
		doc, err := loadDocument(ctx, os.Stdin, stdinSource)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []schema.Document{doc}, nil
	}
	docs := make([]schema.Document, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		doc, err := loadDocument(ctx, f, p)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadDocument(ctx context.Context, r io.Reader, source string) (schema.Document, error) {
	docs, err := documentloaders.NewText(r).Load(ctx)
	if err != nil {
		return schema.Document{}, err
	}
	var b strings.Builder
	for _, d := range docs {
		b.WriteString(d.PageContent)
	}
	return schema.Document{PageContent: b.String(), Metadata: map[string]any{"source": source}}, nil
}

// outputPath names the file written for source: report.md becomes
// <dir>/report_split.json for the json format.
func outputPath(dir, source string, format render.Format) string {
	return filepath.Join(dir, outputBase(source)+"_split."+format.Ext())
}

// outputPaths names the file written for each response. Sources that share a
// base name, such as a/x.md and b/x.md, get x_split.md, x_2_split.md and so on.
func outputPaths(dir string, resps []service.Response) []string {
	out := make([]string, len(resps))
	used := make(map[string]bool, len(resps))
	for i, resp := range resps {
		base := outputBase(resp.Source)
		path := outputPath(dir, resp.Source, resp.Format)
		for n := 2; used[path]; n++ {
			path = filepath.Join(dir, fmt.Sprintf("%s_%d_split.%s", base, n, resp.Format.Ext()))
		}
		used[path] = true
		out[i] = path
	}
	return out
}

func outputBase(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = stdinSource
	}
	return base
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
