package api

import (
	"net/http"
	"strings"

	"shareit/internal/models"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeBody(r, &user); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(user.Email) == "" || !strings.Contains(user.Email, "@") {
		writeBadRequest(w, "a valid email is required")
		return
	}

	created, err := s.users.CreateUser(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAllUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var patch models.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if patch.Email != nil && !strings.Contains(*patch.Email, "@") {
		writeBadRequest(w, "a valid email is required")
		return
	}

	user, err := s.users.UpdateUser(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
