package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roivaz/docsplit/internal/render"
)

var documentsCmd = &cobra.Command{
	Use:   "documents [files...]",
	Short: "Split files into one jsonl document per chunk",
	Long: `Load files (or stdin) as langchaingo documents and split them all with one
configuration. Every chunk is written to stdout as a {page_content, metadata}
line carrying the source path, the chunk index and any structural tags.`,
	RunE: runDocuments,
}

func runDocuments(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	raw, err := buildParams(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := svc.ParseParams(raw)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	docs, err := loadDocuments(ctx, args)
	if err != nil {
		return err
	}
	chunks, err := svc.SplitDocuments(ctx, docs, cfg)
	if err != nil {
		return err
	}
	if err := render.WriteDocuments(os.Stdout, chunks); err != nil {
		return err
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Fprintf(os.Stderr, "%s %d documents, %d chunks (%s, size %d, overlap %d)\n",
			color.GreenString("✓"), len(docs), len(chunks), cfg.Kind, cfg.ChunkSize, cfg.ChunkOverlap)
	}
	return nil
}
