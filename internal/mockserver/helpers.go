package mockserver

import (
	"encoding/json"
	"net/http"
	"strings"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(s *Server, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to write JSON response", "error", err)
	}
}

func writeError(s *Server, w http.ResponseWriter, status int, detail string) {
	writeJSON(s, w, status, errorResponse{Detail: detail})
}

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](s *Server, w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(s, w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(s, w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

// requireAuth resolves the bearer token to a user and rejects the request
// with 401 otherwise.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(s, w, http.StatusUnauthorized, "not authenticated")
			return
		}
		s.mu.Lock()
		_, valid := s.tokens[token]
		s.mu.Unlock()
		if !valid {
			writeError(s, w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userFor returns the authenticated user's ID. requireAuth has already
// validated the token, so a miss means the token was revoked mid-request.
func (s *Server) userFor(r *http.Request) (int, bool) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	return id, ok
}
