package web

import (
	"encoding/json"
	"net/http"

	"github.com/example/automail-service/internal/models"
	"github.com/example/automail-service/internal/util"
)

// maxAddendumRunes caps the caller-supplied addendum so a single request
// cannot inflate the outbound body arbitrarily.
const maxAddendumRunes = 2000

type sendRequest struct {
	Code              string `json:"code"`
	Date              string `json:"date"`
	AdditionalMessage string `json:"additional_message,omitempty"`
}

type previewRequest struct {
	Code string `json:"code"`
	Date string `json:"date"`
}

type previewResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Body          string `json:"body,omitempty"`
	Recipient     string `json:"recipient,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
}

type dataResponse struct {
	Success bool           `json:"success"`
	Data    models.DataSet `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSend triggers a full generate-and-deliver cycle. Pipeline failures
// are data, not transport errors: the response is 200 with success=false.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "date must be YYYY-MM-DD or RFC3339"})
		return
	}

	if err := util.EnsureMaxRunes("additional_message", req.AdditionalMessage, maxAddendumRunes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	if err := s.sends.Acquire(r.Context(), 1); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "server busy"})
		return
	}
	defer s.sends.Release(1)

	result := s.dispatcher.Dispatch(r.Context(), models.DispatchRequest{
		Code:              req.Code,
		Date:              date,
		AdditionalMessage: req.AdditionalMessage,
	})

	writeJSON(w, http.StatusOK, result)
}

// handlePreview returns the generated content without sending it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "date must be YYYY-MM-DD or RFC3339"})
		return
	}

	content, err := s.dispatcher.Preview(r.Context(), req.Code, date)
	if err != nil {
		writeJSON(w, http.StatusOK, previewResponse{
			Success: false,
			Message: "Could not generate mail content for the provided code",
		})
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Success:       true,
		Subject:       content.Subject,
		Body:          content.Body,
		Recipient:     content.RecipientEmail,
		RecipientName: content.RecipientName,
	})
}

// handleCodes lists the registered codes for UI population.
func (s *Server) handleCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Codes())
}

// handleData exposes the raw data set a source produces for a (code, date),
// for testing and debugging.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	if util.NormalizeCode(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "code is required"})
		return
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "date must be YYYY-MM-DD or RFC3339"})
		return
	}

	set, err := s.sources.Fetch(r.Context(), req.Code, date)
	if err != nil {
		writeJSON(w, http.StatusOK, dataResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: set})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		_ = err // client went away
	}
}
