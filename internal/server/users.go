package server

import (
	"net/http"

	"riot-reimagined/internal/middleware"
	"riot-reimagined/internal/service"

	"github.com/cockroachdb/errors"
)

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := decodeBody(w, r, &in); err != nil {
		s.writeError(w, r, err, userPolicy)
		return
	}
	if _, err := s.users.Signup(r.Context(), in); err != nil {
		s.writeError(w, r, err, userPolicy)
		return
	}
	writeMessage(w, http.StatusCreated, "User created successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeBody(w, r, &in); err != nil {
		s.writeError(w, r, err, userPolicy)
		return
	}
	token, _, err := s.users.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, userPolicy)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", Token: token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	user, err := s.users.GetByID(r.Context(), userID)
	if errors.Is(err, service.ErrUserNotFound) {
		// token outlived its user
		writeMessage(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	if err != nil {
		s.writeError(w, r, err, userPolicy)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLinkRiotID(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var in service.RiotIDInput
	if err := decodeBody(w, r, &in); err != nil {
		s.writeError(w, r, err, userPolicy)
		return
	}
	user, err := s.users.LinkRiotID(r.Context(), userID, in)
	if errors.Is(err, service.ErrUserNotFound) {
		writeMessage(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	if err != nil {
		s.writeError(w, r, err, userPolicy)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
