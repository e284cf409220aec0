package api

import (
	"net/http"
	"strings"
)

type requestBody struct {
	Description *string `json:"description"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var body requestBody
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if body.Description == nil || strings.TrimSpace(*body.Description) == "" {
		writeBadRequest(w, "description is required")
		return
	}

	request, err := s.requests.CreateRequest(r.Context(), userID, *body.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *Server) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	requests, err := s.requests.ListOwnRequests(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	requests, err := s.requests.ListOtherRequests(r.Context(), userID, from, size)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	request, err := s.requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *Server) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var body requestBody
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	request, err := s.requests.UpdateRequest(r.Context(), userID, requestID, body.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.requests.DeleteRequest(r.Context(), requestID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
