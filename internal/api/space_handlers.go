package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simpletab/tabsync/internal/http/response"
)

type spaceRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	spaces, err := s.data.ListSpaces(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, spaces, s.logger)
}

func (s *Server) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	space, err := s.data.GetSpace(r.Context(), chi.URLParam(r, "spaceID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, space, s.logger)
}

func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	var req spaceRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required", s.logger)
		return
	}

	space, err := s.data.CreateSpace(r.Context(), req.Name, req.Color, req.Icon)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, space, s.logger)
}

func (s *Server) handleUpdateSpace(w http.ResponseWriter, r *http.Request) {
	var req spaceRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	space, err := s.data.UpdateSpace(r.Context(), chi.URLParam(r, "spaceID"), req.Name, req.Color, req.Icon)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, space, s.logger)
}

func (s *Server) handleDeleteSpace(w http.ResponseWriter, r *http.Request) {
	if err := s.data.DeleteSpace(r.Context(), chi.URLParam(r, "spaceID")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleListSpaceCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.data.ListCollections(r.Context(), chi.URLParam(r, "spaceID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, collections, s.logger)
}
