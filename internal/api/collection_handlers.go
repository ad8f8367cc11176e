package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simpletab/tabsync/internal/domain"
	"github.com/simpletab/tabsync/internal/http/response"
)

type collectionRequest struct {
	Name    string       `json:"name"`
	SpaceID string       `json:"spaceId"`
	Tabs    []domain.Tab `json:"tabs"`
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.data.ListCollections(r.Context(), r.URL.Query().Get("spaceId"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, collections, s.logger)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	coll, err := s.data.GetCollection(r.Context(), chi.URLParam(r, "collectionID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, coll, s.logger)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}
	if req.Name == "" || req.SpaceID == "" {
		response.BadRequest(w, "name and spaceId are required", s.logger)
		return
	}

	coll, err := s.data.CreateCollection(r.Context(), req.Name, req.SpaceID, req.Tabs)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, coll, s.logger)
}

func (s *Server) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	coll, err := s.data.UpdateCollection(r.Context(), chi.URLParam(r, "collectionID"), req.Name, req.SpaceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, coll, s.logger)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.data.DeleteCollection(r.Context(), chi.URLParam(r, "collectionID")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleAddTab(w http.ResponseWriter, r *http.Request) {
	var tab domain.Tab
	if err := json.UnmarshalRead(r.Body, &tab); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}
	if tab.URL == "" {
		response.BadRequest(w, "url is required", s.logger)
		return
	}

	coll, err := s.data.AddTab(r.Context(), chi.URLParam(r, "collectionID"), tab)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, coll, s.logger)
}

func (s *Server) handleRemoveTab(w http.ResponseWriter, r *http.Request) {
	coll, err := s.data.RemoveTab(r.Context(), chi.URLParam(r, "collectionID"), chi.URLParam(r, "tabID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, coll, s.logger)
}

type moveTabRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleMoveTab(w http.ResponseWriter, r *http.Request) {
	var req moveTabRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	coll, err := s.data.MoveTab(r.Context(), chi.URLParam(r, "collectionID"), chi.URLParam(r, "tabID"), req.Index)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, coll, s.logger)
}
