// Package server exposes the calculators and the project audit over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ChicagoDave/auditcalc/internal/metrics"
	"github.com/ChicagoDave/auditcalc/pkg/audit"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/report"
	"github.com/ChicagoDave/auditcalc/pkg/validation"
)

// maxBody bounds request bodies.
const maxBody = 8 << 20

// Server is the local audit server for one project directory.
type Server struct {
	projectPath string
	port        int
	env         audit.Env
}

// New creates a server for the given project directory.
func New(projectPath string, port int, env audit.Env) *Server {
	return &Server{
		projectPath: projectPath,
		port:        port,
		env:         env,
	}
}

// Handler returns the routed and instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/electricity", s.section(audit.SectionElectricity))
	mux.HandleFunc("POST /api/natural-gas", s.section(audit.SectionNaturalGas))
	mux.HandleFunc("POST /api/compressed-air", s.section(audit.SectionCompressedAir))
	mux.HandleFunc("POST /api/pressure-reduction", s.section(audit.SectionPressureReduction))
	mux.HandleFunc("POST /api/water", s.section(audit.SectionWater))
	mux.HandleFunc("POST /api/pipe-insulation", s.handlePipe)
	mux.HandleFunc("POST /api/tank-insulation", s.handleTank)
	mux.HandleFunc("GET /api/audit", s.handleAudit)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/report.xlsx", s.handleReport("xlsx"))
	mux.HandleFunc("GET /api/report.pdf", s.handleReport("pdf"))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return instrument(mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	metrics.Init()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", "http://localhost"+srv.Addr).Str("project", s.projectPath).Msg("auditcalc server starting")

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("auditcalc server stopping")
		return srv.Shutdown(shutdown)
	}
}

// section evaluates a posted JSON array of records of one utility.
func (s *Server) section(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc audit.Document
		var n int
		var err error
		switch name {
		case audit.SectionElectricity:
			err = decode(w, r, &doc.Electricity)
			n = len(doc.Electricity)
		case audit.SectionNaturalGas:
			err = decode(w, r, &doc.NaturalGas)
			n = len(doc.NaturalGas)
		case audit.SectionCompressedAir:
			err = decode(w, r, &doc.CompressedAir)
			n = len(doc.CompressedAir)
		case audit.SectionPressureReduction:
			err = decode(w, r, &doc.PressureReduction)
			n = len(doc.PressureReduction)
		case audit.SectionWater:
			err = decode(w, r, &doc.Water)
			n = len(doc.Water)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if n == 0 {
			writeError(w, fmt.Errorf("%s: %w", name, calc.Invalid("entries", 0, "at least one entry")))
			return
		}

		res, err := audit.Evaluate(r.Context(), &doc, s.env)
		if err != nil {
			writeError(w, err)
			return
		}
		var out any
		switch name {
		case audit.SectionElectricity:
			out = res.Electricity
		case audit.SectionNaturalGas:
			out = res.NaturalGas
		case audit.SectionCompressedAir:
			out = res.CompressedAir
		case audit.SectionPressureReduction:
			out = res.PressureReduction
		case audit.SectionWater:
			out = res.Water
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handlePipe(w http.ResponseWriter, r *http.Request) {
	var p audit.Pipe
	if err := decode(w, r, &p.PipeSpec); err != nil {
		writeError(w, err)
		return
	}
	res, err := audit.Evaluate(r.Context(), &audit.Document{Pipes: []audit.Pipe{p}}, s.env)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Pipes[0].HeatLoss)
}

func (s *Server) handleTank(w http.ResponseWriter, r *http.Request) {
	var t audit.Tank
	if err := decode(w, r, &t.TankSpec); err != nil {
		writeError(w, err)
		return
	}
	res, err := audit.Evaluate(r.Context(), &audit.Document{Tanks: []audit.Tank{t}}, s.env)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Tanks[0].TankHeatLoss)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	res, err := s.evaluate(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	doc, err := audit.LoadProject(s.projectPath)
	if err != nil {
		writeError(w, err)
		return
	}
	rep := validation.ValidateSchema(doc, s.env.Constants)
	rep.Merge(validation.ValidateAnalytical(doc, s.env.Constants, s.env.Solver))
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.evaluate(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		rep := report.Build(res)

		var buf bytes.Buffer
		var contentType string
		switch format {
		case "xlsx":
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			err = report.WriteXLSX(&buf, rep)
		case "pdf":
			contentType = "application/pdf"
			err = report.WritePDF(&buf, rep)
		}
		metrics.IncReportExport(format, err)
		if err != nil {
			writeError(w, fmt.Errorf("rendering %s report: %w", format, err))
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "audit."+format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Server) evaluate(ctx context.Context) (*audit.Results, error) {
	doc, err := audit.LoadProject(s.projectPath)
	if err != nil {
		return nil, err
	}
	return audit.Evaluate(ctx, doc, s.env)
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &requestError{err: err}
	}
	return nil
}

type requestError struct{ err error }

func (e *requestError) Error() string { return "decoding request: " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

type errorBody struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Index    *int   `json:"index,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error(), Kind: calc.Kind(err)}
	status := http.StatusInternalServerError

	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		status = http.StatusBadRequest
		body.Kind = "bad_request"
	case errors.Is(err, calc.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, calc.ErrConvergenceFailure):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
		body.Kind = "not_found"
	}

	var fe *calc.FieldError
	if errors.As(err, &fe) {
		body.Field = fe.Field
		body.Expected = fe.Expected
	}
	var ie *calc.IndexError
	if errors.As(err, &ie) {
		body.Index = &ie.Index
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}
