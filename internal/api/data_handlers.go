package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/simpletab/tabsync/internal/domain"
	"github.com/simpletab/tabsync/internal/http/response"
	"github.com/simpletab/tabsync/internal/service"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.data.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, settings, s.logger)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.UnmarshalRead(r.Body, &settings); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	if err := s.data.UpdateSettings(r.Context(), &settings); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, settings, s.logger)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.data.ListHistory(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, entries, s.logger)
}

func (s *Server) handleRecordHistory(w http.ResponseWriter, r *http.Request) {
	var entry domain.HistoryEntry
	if err := json.UnmarshalRead(r.Body, &entry); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}
	if entry.URL == "" {
		response.BadRequest(w, "url is required", s.logger)
		return
	}

	if err := s.data.RecordHistory(r.Context(), &entry); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, entry, s.logger)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := s.data.ExportData(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, export, s.logger)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req service.ImportRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	stats, err := s.data.ImportData(r.Context(), &req)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}
	response.Success(w, stats, s.logger)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		response.Error(w, http.StatusServiceUnavailable, "search is not available", s.logger)
		return
	}

	queryString := r.URL.Query().Get("q")
	if queryString == "" {
		response.BadRequest(w, "q is required", s.logger)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "limit must be a positive integer", s.logger)
			return
		}
		limit = parsed
	}

	result, err := s.search.Query(r.Context(), queryString, limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
