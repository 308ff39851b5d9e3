package server

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/framespec/pkg/buildinfo"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
	"github.com/matzehuels/framespec/pkg/pipeline"
)

// compileRequest is the body of POST /v1/compile. The token can also be
// sent as the X-Figma-Token header, which wins over the body field.
type compileRequest struct {
	Ref          string   `json:"ref"`
	FrameID      string   `json:"frame_id,omitempty"`
	Artifacts    []string `json:"artifacts,omitempty"`
	TokenFormat  string   `json:"token_format,omitempty"`
	TreeDetailed bool     `json:"tree_detailed,omitempty"`
	TreeDepth    int      `json:"tree_depth,omitempty"`
	Token        string   `json:"token,omitempty"`
}

// compileResponse is the body of a successful compile.
type compileResponse struct {
	JobID     string            `json:"job_id"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	NodeCount int               `json:"node_count"`
	Artifacts map[string]string `json:"artifacts"`
	Stats     compileStats      `json:"stats"`
}

type compileStats struct {
	FetchMS    int64       `json:"fetch_ms"`
	AnalyzeMS  int64       `json:"analyze_ms"`
	RenderMS   int64       `json:"render_ms"`
	Composites int         `json:"composites"`
	Requests   figma.Stats `json:"requests"`
}

type errorBody struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	token := r.Header.Get("X-Figma-Token")
	if token == "" {
		token = req.Token
	}
	if token == "" {
		writeError(w, errors.New(errors.ErrCodeUnauthorized, "missing API token").
			WithRemediation("send the token as the X-Figma-Token header or the \"token\" body field"))
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), pipeline.Options{
		Ref:          req.Ref,
		FrameID:      req.FrameID,
		Artifacts:    req.Artifacts,
		TokenFormat:  req.TokenFormat,
		TreeDetailed: req.TreeDetailed,
		TreeDepth:    req.TreeDepth,
		Logger:       s.cfg.Logger,
		API:          s.cfg.NewAPI(token),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts := make(map[string]string, len(result.Artifacts))
	for name, data := range result.Artifacts {
		artifacts[name] = string(data)
	}
	writeJSON(w, http.StatusOK, compileResponse{
		JobID:     result.RunID,
		Name:      result.File.Name,
		Version:   result.File.Version,
		NodeCount: result.Stats.NodeCount,
		Artifacts: artifacts,
		Stats: compileStats{
			FetchMS:    result.Stats.FetchTime.Milliseconds(),
			AnalyzeMS:  result.Stats.AnalyzeTime.Milliseconds(),
			RenderMS:   result.Stats.RenderTime.Milliseconds(),
			Composites: result.Stats.CompositeCount,
			Requests:   result.Stats.Requests,
		},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// statusForCode maps pipeline error codes to HTTP statuses.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidRef,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidMode:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited, errors.ErrCodeBudgetExhausted:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork, errors.ErrCodeCDNBlocked:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeErrorBody(w, statusForCode(code), string(code), errors.UserMessage(err), errors.RemediationFor(err))
}

func writeErrorBody(w http.ResponseWriter, status int, code, message, remediation string) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:        code,
		Message:     message,
		Remediation: remediation,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Write errors past this point mean the client went away.
	_ = json.NewEncoder(w).Encode(v)
}
