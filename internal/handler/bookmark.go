package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/bookheaven/bookheaven/internal/domain/bookmark"
)

type bookmarkResponse struct {
	BookID    string    `json:"bookId"`
	BookTitle string    `json:"bookTitle"`
	Author    string    `json:"author"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	marks, err := h.bookmarks.List(r.Context(), mustClaims(r).AccountID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]bookmarkResponse, len(marks))
	for i, m := range marks {
		out[i] = bookmarkResponse{
			BookID:    m.BookID,
			BookTitle: m.BookTitle,
			Author:    m.Author,
			ImageURL:  m.ImageURL,
			CreatedAt: m.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID string `json:"bookId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BookID == "" {
		writeError(w, http.StatusBadRequest, "bookId is required")
		return
	}

	err := h.bookmarks.Add(r.Context(), mustClaims(r).AccountID, req.BookID)
	if err != nil {
		if errors.Is(err, bookmark.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, bookmark.ErrDuplicate.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "bookmark added"})
}

func (h *Handler) removeBookmark(w http.ResponseWriter, r *http.Request) {
	err := h.bookmarks.Remove(r.Context(), mustClaims(r).AccountID, chi.URLParam(r, "bookID"))
	if err != nil {
		if errors.Is(err, bookmark.ErrNotFound) {
			writeError(w, http.StatusNotFound, bookmark.ErrNotFound.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "bookmark removed"})
}
