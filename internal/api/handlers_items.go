package api

import (
	"net/http"
	"strings"
	"time"

	"shareit/internal/models"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var item models.Item
	if err := decodeBody(r, &item); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Description) == "" {
		writeBadRequest(w, "name and description are required")
		return
	}

	created, err := s.items.CreateItem(r.Context(), userID, item)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListOwnedItems(w http.ResponseWriter, r *http.Request) {
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

	views, err := s.items.ListOwnedItemViews(r.Context(), userID, from, size)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	items, err := s.items.SearchItems(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	view, err := s.items.GetItemView(r.Context(), userID, itemID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var patch models.ItemPatch
	if err := decodeBody(r, &patch); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	item, err := s.items.UpdateItem(r.Context(), userID, itemID, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.items.DeleteItem(r.Context(), userID, itemID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	comment, err := s.items.CreateComment(r.Context(), userID, itemID, body.Text, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
