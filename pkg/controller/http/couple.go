package http

import (
	"net/http"

	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/utils/errutil"
)

type onboardingResponse struct {
	Completed bool `json:"completed"`
}

func (s *Server) handleGetCouple(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.Couple.Couple(r.Context()))
}

func (s *Server) handleSaveCouple(w http.ResponseWriter, r *http.Request) {
	var names model.CoupleNames
	if !s.decode(w, r, &names) {
		return
	}

	couple, err := s.uc.Couple.SaveCoupleNames(r.Context(), names)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, couple)
}

func (s *Server) handleSwitchUser(w http.ResponseWriter, r *http.Request) {
	couple, err := s.uc.Couple.SwitchUser(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, couple)
}

func (s *Server) handleGetOnboarding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, onboardingResponse{
		Completed: s.uc.Couple.IsOnboarded(r.Context()),
	})
}

func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Couple.CompleteOnboarding(r.Context()); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, onboardingResponse{Completed: true})
}

func (s *Server) handleResetOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Couple.ResetOnboarding(r.Context()); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
