package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/bookheaven/bookheaven/internal/domain/announcement"
)

type announcementPayload struct {
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

type announcementResponse struct {
	ID string `json:"id"`
	announcementPayload
	CreatedAt time.Time `json:"createdAt"`
}

func toAnnouncementResponses(list []announcement.Announcement) []announcementResponse {
	out := make([]announcementResponse, len(list))
	for i, a := range list {
		out[i] = announcementResponse{
			ID: a.ID,
			announcementPayload: announcementPayload{
				Title:    a.Title,
				Message:  a.Message,
				StartsAt: a.StartsAt,
				EndsAt:   a.EndsAt,
			},
			CreatedAt: a.CreatedAt,
		}
	}
	return out
}

func (h *Handler) listActiveAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.announcements.Active(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnnouncementResponses(list))
}

func (h *Handler) listAllAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.announcements.All(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnnouncementResponses(list))
}

func (p *announcementPayload) validate() error {
	if p.Title == "" || p.Message == "" {
		return errors.New("title and message are required")
	}
	if p.EndsAt.Before(p.StartsAt) {
		return errors.New("announcement window ends before it starts")
	}
	return nil
}

func (h *Handler) createAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.announcements.Create(r.Context(), req.Title, req.Message, req.StartsAt, req.EndsAt)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, announcementResponse{
		ID: a.ID,
		announcementPayload: announcementPayload{
			Title:    a.Title,
			Message:  a.Message,
			StartsAt: a.StartsAt,
			EndsAt:   a.EndsAt,
		},
		CreatedAt: a.CreatedAt,
	})
}

func (h *Handler) updateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a := &announcement.Announcement{
		ID:       chi.URLParam(r, "announcementID"),
		Title:    req.Title,
		Message:  req.Message,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if err := h.announcements.Update(r.Context(), a); err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			writeError(w, http.StatusNotFound, announcement.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "announcement updated"})
}

func (h *Handler) deleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.announcements.Delete(r.Context(), chi.URLParam(r, "announcementID")); err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			writeError(w, http.StatusNotFound, announcement.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "announcement removed"})
}
