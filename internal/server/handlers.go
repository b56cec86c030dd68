package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dativo-io/shroud/internal/engine"
	"github.com/dativo-io/shroud/internal/record"
)

// maxBodyBytes caps request bodies; field maps are small by contract.
const maxBodyBytes = 1 << 20

// processRequest is the body for /v1/process and /v1/classify.
type processRequest struct {
	RecordID string          `json:"record_id,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// processResponse is the /v1/process reply.
type processResponse struct {
	RecordID     string          `json:"record_id,omitempty"`
	RedactedData record.FieldMap `json:"redacted_data"`
	IsPII        bool            `json:"is_pii"`
}

// classifyResponse is the /v1/classify reply: per-field tags plus the
// verdict they aggregate to, with no redaction applied.
type classifyResponse struct {
	RecordID string        `json:"record_id,omitempty"`
	Tags     engine.TagMap `json:"tags"`
	IsPII    bool          `json:"is_pii"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	fields, req, ok := s.decodeFieldMap(w, r)
	if !ok {
		return
	}

	redacted, verdict := s.engine.Process(r.Context(), fields)
	writeJSON(w, http.StatusOK, processResponse{
		RecordID:     req.RecordID,
		RedactedData: redacted,
		IsPII:        verdict,
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	fields, req, ok := s.decodeFieldMap(w, r)
	if !ok {
		return
	}

	tags := s.engine.Classify(fields)
	writeJSON(w, http.StatusOK, classifyResponse{
		RecordID: req.RecordID,
		Tags:     tags,
		IsPII:    s.engine.Decide(tags),
	})
}

// decodeFieldMap reads and validates the request body. A body that is not a
// flat object of scalars is a contract violation for that request only and
// yields 400.
func (s *Server) decodeFieldMap(w http.ResponseWriter, r *http.Request) (record.FieldMap, processRequest, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return nil, processRequest{}, false
	}

	var req processRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return nil, processRequest{}, false
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "missing data field")
		return nil, processRequest{}, false
	}

	fields, err := record.ParseFieldMap(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, processRequest{}, false
	}
	return fields, req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
