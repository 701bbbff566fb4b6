// Package api serves the splitter over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roivaz/docsplit/internal/logging"
	"github.com/roivaz/docsplit/internal/render"
	"github.com/roivaz/docsplit/internal/service"
	"github.com/roivaz/docsplit/internal/splitter"
)

type Server struct {
	svc     *service.Service
	log     logging.Logger
	maxBody int64
}

// New returns a Server. maxBody caps request bodies; zero means no cap.
func New(svc *service.Service, log logging.Logger, maxBody int64) *Server {
	return &Server{svc: svc, log: log, maxBody: maxBody}
}

// Router returns a chi router with the API mounted and the standard
// middleware applied.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	s.RegisterHTTP(r)
	return r
}

func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/split", s.handleSplit)
		r.Get("/splitters", s.handleSplitters)
		r.Get("/presets", s.handlePresets)
	})
}

// SplitRequest is the body of POST /api/split. SplitterParams may be a JSON
// object or a string holding one, as sent by form based clients.
type SplitRequest struct {
	Text           string          `json:"text"`
	SplitterParams json.RawMessage `json:"splitter_params,omitempty"`
	OutputFormat   string          `json:"output_format,omitempty"`
}

type SplitResponse struct {
	ChunkCount     int              `json:"chunk_count"`
	SplitterParams splitter.Config  `json:"splitter_params"`
	Preview        []string         `json:"preview"`
	Chunks         []splitter.Chunk `json:"chunks"`
	Tokens         []int            `json:"tokens,omitempty"`
	OutputFormat   render.Format    `json:"output_format"`
	Output         string           `json:"output"`
	Message        string           `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
	Param string `json:"param,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSplitters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Catalog())
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": s.svc.Presets()})
}

// handleSplit accepts either a JSON SplitRequest or a text/plain body with
// splitter_params and output_format in the query string.
// POST /api/split
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if s.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	req, err := decodeSplitRequest(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	format := render.FormatJSON
	if req.OutputFormat != "" {
		if format, err = render.ParseFormat(req.OutputFormat); err != nil {
			s.fail(w, err)
			return
		}
	}
	cfg, err := s.svc.ParseParams(paramsString(req.SplitterParams))
	if err != nil {
		s.fail(w, err)
		return
	}

	resp, err := s.svc.Split(r.Context(), service.Request{Text: req.Text, Config: cfg, Format: format})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SplitResponse{
		ChunkCount:     resp.Result.ChunkCount,
		SplitterParams: resp.Result.Config,
		Preview:        resp.Result.Preview,
		Chunks:         resp.Result.Chunks,
		Tokens:         resp.Tokens,
		OutputFormat:   resp.Format,
		Output:         string(resp.Output),
		Message:        "Text split successfully",
	})
}

var errBadBody = errors.New("invalid request body")

func decodeSplitRequest(r *http.Request) (SplitRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return SplitRequest{}, err
		}
		q := r.URL.Query()
		req := SplitRequest{Text: string(body), OutputFormat: q.Get("output_format")}
		if p := q.Get("splitter_params"); p != "" {
			req.SplitterParams = json.RawMessage(p)
		}
		return req, nil
	}

	var req SplitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return SplitRequest{}, err
		}
		return SplitRequest{}, errors.Join(errBadBody, err)
	}
	return req, nil
}

// paramsString unwraps splitter_params sent as a JSON string.
func paramsString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	if trimmed == "null" {
		return ""
	}
	return trimmed
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var (
		cerr     *splitter.ConfigError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Param: cerr.Param})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
	case errors.Is(err, render.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Param: "output_format"})
	case errors.Is(err, errBadBody):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.log.Error(err, "split request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
