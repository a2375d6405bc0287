package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/KaramelBytes/benford-cli/internal/analysis"
	"github.com/KaramelBytes/benford-cli/internal/benford"
	"github.com/KaramelBytes/benford-cli/internal/dataset"
	"github.com/KaramelBytes/benford-cli/internal/export"
)

// errBadRequest marks malformed form input.
var errBadRequest = errors.New("bad request")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBenford(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"distribution": benford.Theoretical().Map()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	rep, err := s.audit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug("analyzed", "run_id", rep.RunID, "column", rep.Column, "verdict", rep.Verdict())
	writeJSON(w, http.StatusOK, rep.Summary())
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	rep, err := s.audit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	force, err := formBool(r, "force")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rep.Verdict() == benford.Conforms && !force {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   fmt.Sprintf("column '%s' already conforms to Benford's Law; set force=true to adjust anyway", rep.Column),
			"run_id":  rep.RunID.String(),
			"verdict": rep.Verdict(),
		})
		return
	}
	seed := s.cfg.Seed
	if v := strings.TrimSpace(r.FormValue("seed")); v != "" {
		seed, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: seed %q is not an unsigned integer", errBadRequest, v))
			return
		}
	}
	// Synthesizers are not safe for concurrent use, so each request gets its own.
	adj, err := rep.Adjust(benford.NewSeededSynthesizer(seed), 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("X-Run-ID", rep.RunID.String())
	w.Header().Set("X-Benford-Verdict", rep.Verdict().String())
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, adj.Table); err != nil {
		s.log.Error("write csv", "run_id", rep.RunID, "err", err)
	}
}

// audit reads the uploaded file and form options and runs the analysis.
func (s *Server) audit(r *http.Request) (*analysis.Report, error) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		return nil, &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes}
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: multipart field 'file' is required", errBadRequest)
	}
	defer f.Close()

	opt := s.cfg.Audit
	opt.Column = strings.TrimSpace(r.FormValue("column"))
	if v := strings.TrimSpace(r.FormValue("threshold")); v != "" {
		th, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: threshold %q is not a number", errBadRequest, v)
		}
		opt.Threshold = th
	}
	if v := strings.TrimSpace(r.FormValue("sheet")); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			opt.Parse.SheetIndex, opt.Parse.SheetName = i, ""
		} else {
			opt.Parse.SheetName = v
		}
	}
	tbl, err := dataset.Read(f, hdr.Filename, opt.Parse)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(tbl, opt)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var ing *dataset.IngestionError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ing),
		errors.Is(err, errBadRequest),
		errors.Is(err, dataset.ErrNoNumericColumn),
		errors.Is(err, dataset.ErrColumnNotFound),
		errors.Is(err, dataset.ErrColumnNotNumeric),
		errors.Is(err, benford.ErrInsufficientData),
		errors.Is(err, benford.ErrInvalidThreshold):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func formBool(r *http.Request, key string) (bool, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s %q is not a boolean", errBadRequest, key, v)
	}
	return b, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
