package restapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// ResponseModel is the envelope shared by every endpoint.
type ResponseModel struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
	Data        any    `json:"data,omitempty"`
}

const responseVersion = 1

func currentTime() int64 {
	return time.Now().UnixMilli()
}

func newOKResponse(data any) ResponseModel {
	return ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: currentTime(),
		Text:        "OK",
		Version:     responseVersion,
		Data:        data,
	}
}

func (s *Server) sendResponse(w http.ResponseWriter, r *http.Request, response ResponseModel) {
	w.Header().Set("Content-Type", "application/json")
	if response.Code != 0 && response.Code != http.StatusOK {
		w.WriteHeader(response.Code)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log(r).Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, code int, text string) {
	s.sendResponse(w, r, ResponseModel{
		Code:        code,
		CurrentTime: currentTime(),
		Text:        text,
		Version:     responseVersion,
	})
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, "resource not found")
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
