package api

import (
	"net/http"

	"github.com/simpletab/tabsync/internal/http/response"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}

type statusPayload struct {
	Syncing      bool   `json:"syncing"`
	SyncDisabled bool   `json:"syncDisabled"`
	SignedIn     bool   `json:"signedIn"`
	UserID       string `json:"userId,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	payload := statusPayload{
		Syncing:      s.syncer.Syncing(),
		SyncDisabled: s.syncer.Disabled(),
	}
	if s.session != nil {
		if userID, err := s.session.CurrentUserID(r.Context()); err == nil && userID != "" {
			payload.SignedIn = true
			payload.UserID = userID
		}
	}
	response.Success(w, payload, s.logger)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.syncer.Bidirectional(r.Context()), s.logger)
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.syncer.Push(r.Context()), s.logger)
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.syncer.Pull(r.Context()), s.logger)
}

func (s *Server) handleEnableSync(w http.ResponseWriter, _ *http.Request) {
	s.syncer.SetDisabled(false)
	response.Success(w, map[string]bool{"syncDisabled": false}, s.logger)
}

func (s *Server) handleDisableSync(w http.ResponseWriter, _ *http.Request) {
	s.syncer.SetDisabled(true)
	response.Success(w, map[string]bool{"syncDisabled": true}, s.logger)
}
