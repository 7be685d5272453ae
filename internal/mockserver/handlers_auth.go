package mockserver

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ViFerX/research-assistant/internal/domain/user"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.RegisterRequest](s, w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(s, w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Role == "" {
		req.Role = user.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("hash password", "error", err)
		writeError(s, w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		writeError(s, w, http.StatusConflict, "email already registered")
		return
	}
	s.nextUser++
	u := user.User{ID: s.nextUser, Name: req.Name, Email: req.Email, Role: req.Role}
	s.accounts[req.Email] = &account{user: u, hash: hash}
	s.mu.Unlock()

	s.log.Info("user registered", "user_id", u.ID, "email", u.Email)
	writeJSON(s, w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](s, w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	acc, exists := s.accounts[req.Email]
	s.mu.Unlock()
	if !exists || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		writeError(s, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = acc.user.ID
	s.mu.Unlock()

	writeJSON(s, w, http.StatusOK, user.LoginResponse{AccessToken: token, User: acc.user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userFor(r)
	if !ok {
		writeError(s, w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			writeJSON(s, w, http.StatusOK, acc.user)
			return
		}
	}
	writeError(s, w, http.StatusNotFound, "user not found")
}

// RevokeToken invalidates a bearer token. Tests use it to simulate
// server-side session expiry.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
