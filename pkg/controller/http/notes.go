package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/usecase"
	"github.com/secmon-lab/olive/pkg/utils/errutil"
)

type createNoteRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

type notesResponse struct {
	Notes []*model.Note `json:"notes"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return false
	}
	return true
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrEmptyText),
		errors.Is(err, usecase.ErrEmptyUpdate),
		errors.Is(err, model.ErrInvalidUpdate),
		errors.Is(err, model.ErrInvalidNote),
		errors.Is(err, model.ErrInvalidCouple):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrDuplicateNote):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrStoreNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	note, err := s.uc.Classify(r.Context(), req.Text, req.Author)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, note)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	note, err := s.uc.CaptureNote(r.Context(), req.Text, req.Author)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusCreated, note)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, ok := s.uc.Notes.Notes()
	if !ok {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(usecase.ErrStoreNotReady, "notes are loading"), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, notesResponse{Notes: notes})
}

func noteID(r *http.Request) model.NoteID {
	return model.NoteID(chi.URLParam(r, "id"))
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	note := s.uc.Notes.GetByID(id)
	if note == nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(usecase.ErrNoteNotFound, "no such note", goerr.V(model.NoteIDKey, id)), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var update model.NoteUpdate
	if !s.decode(w, r, &update) {
		return
	}

	note, err := s.uc.UpdateNote(r.Context(), noteID(r), update)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	s.uc.Notes.Delete(r.Context(), noteID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleNote(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	note := s.uc.Notes.ToggleCompletion(r.Context(), id)
	if note == nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(usecase.ErrNoteNotFound, "no such note", goerr.V(model.NoteIDKey, id)), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, note)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"categories": s.uc.Categories(),
	})
}

func (s *Server) handleCategoryNotes(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	filter := model.NoteFilter{Query: r.URL.Query().Get("q"), ShowCompleted: true}
	if v := r.URL.Query().Get("completed"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid completed parameter", goerr.V("completed", v)), http.StatusBadRequest)
			return
		}
		filter.ShowCompleted = show
	}

	writeJSON(w, r, http.StatusOK, s.uc.ViewCategory(name, filter))
}
