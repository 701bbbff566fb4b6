// Package service is the glue every outer surface shares: it parses request
// parameters, splits text, annotates chunks with token estimates and renders
// the requested output format.
package service

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/schema"
	"golang.org/x/sync/errgroup"

	"github.com/roivaz/docsplit/internal/logging"
	"github.com/roivaz/docsplit/internal/params"
	"github.com/roivaz/docsplit/internal/render"
	"github.com/roivaz/docsplit/internal/splitter"
	"github.com/roivaz/docsplit/internal/tokens"
)

const defaultWorkers = 4

type Config struct {
	Splitter       *splitter.Splitter
	Parser         params.Parser
	TokenEstimates bool
	Workers        int
	Logger         logging.Logger
}

type Service struct {
	splitter       *splitter.Splitter
	parser         params.Parser
	tokenEstimates bool
	workers        int
	log            logging.Logger
}

func New(cfg Config) *Service {
	s := &Service{
		splitter:       cfg.Splitter,
		parser:         cfg.Parser,
		tokenEstimates: cfg.TokenEstimates,
		workers:        cfg.Workers,
		log:            cfg.Logger,
	}
	if s.splitter == nil {
		s.splitter = splitter.New(splitter.WithLogger(cfg.Logger))
	}
	if s.workers <= 0 {
		s.workers = defaultWorkers
	}
	return s
}

// Request is one text to split. Source, when set, is recorded as chunk
// metadata in jsonl output.
type Request struct {
	Text   string
	Config splitter.Config
	Format render.Format
	Source string
}

type Response struct {
	Source string
	Result splitter.Result
	// Tokens is nil unless token estimates are enabled.
	Tokens []int
	Output []byte
	Format render.Format
	// Words is the whitespace delimited token count of the input text.
	Words int
}

// ParseParams resolves a splitter_params JSON object against the configured
// defaults, presets and limits.
func (s *Service) ParseParams(raw string) (splitter.Config, error) {
	return s.parser.Parse(raw)
}

// Check validates a config built outside ParseParams, such as one assembled
// from command line flags.
func (s *Service) Check(cfg splitter.Config) error {
	return s.parser.Check(cfg)
}

func (s *Service) Defaults() splitter.Config {
	return s.parser.Defaults
}

func (s *Service) Presets() params.Presets {
	return s.parser.Presets
}

func (s *Service) Catalog() splitter.CatalogInfo {
	return splitter.Catalog(s.splitter.Policy())
}

// Split runs one request. Configuration errors are returned unwrapped so
// callers can test them with errors.Is.
func (s *Service) Split(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if err := s.parser.Check(req.Config); err != nil {
		return Response{}, err
	}
	format := req.Format
	if format == "" {
		format = render.FormatJSON
	}

	res, err := s.splitter.Split(req.Text, req.Config)
	if err != nil {
		return Response{}, err
	}
	resp := Response{Source: req.Source, Result: res, Format: format, Words: splitter.CountTokens(req.Text)}
	if s.tokenEstimates {
		resp.Tokens = tokens.EstimateAll(res.Texts())
	}

	var meta map[string]any
	if req.Source != "" {
		meta = map[string]any{"source": req.Source}
	}
	resp.Output, err = render.Bytes(res, format, render.Options{Tokens: resp.Tokens, Metadata: meta})
	if err != nil {
		return Response{}, fmt.Errorf("render %s: %w", format, err)
	}

	s.log.Info("split complete",
		"source", req.Source,
		"splitter_type", res.Config.Kind,
		"words", resp.Words,
		"chunks", res.ChunkCount,
		"format", format,
	)
	return resp, nil
}

// SplitDocuments chunks loader output into one document per chunk. Each
// chunk keeps its source document's metadata and gains a token estimate when
// estimates are enabled.
func (s *Service) SplitDocuments(ctx context.Context, docs []schema.Document, cfg splitter.Config) ([]schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.parser.Check(cfg); err != nil {
		return nil, err
	}
	out, err := s.splitter.SplitDocuments(docs, cfg)
	if err != nil {
		return nil, err
	}
	if s.tokenEstimates {
		texts := make([]string, len(out))
		for i, doc := range out {
			texts[i] = doc.PageContent
		}
		for i, n := range tokens.EstimateAll(texts) {
			out[i].Metadata["tokens"] = n
		}
	}
	s.log.Info("documents split",
		"documents", len(docs),
		"splitter_type", cfg.Kind,
		"chunks", len(out),
	)
	return out, nil
}

// SplitBatch splits every request with at most Workers in flight. Responses
// keep request order. The first failure cancels the rest.
func (s *Service) SplitBatch(ctx context.Context, reqs []Request) ([]Response, error) {
	out := make([]Response, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := s.Split(ctx, req)
			if err != nil {
				if req.Source != "" {
					return fmt.Errorf("%s: %w", req.Source, err)
				}
				return err
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Debug("batch complete", "requests", len(reqs), "workers", s.workers)
	return out, nil
}
