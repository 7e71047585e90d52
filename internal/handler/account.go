package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/bookheaven/bookheaven/internal/domain/account"
)

type accountResponse struct {
	ID       string    `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Position string    `json:"position,omitempty"`
	JoinDate time.Time `json:"joinDate"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

func toAccountResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
		Role:     string(a.Role),
		Position: a.Position,
		JoinDate: a.JoinDate,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	a, token, err := h.accounts.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "email already exists")
			return
		}
		if errors.Is(err, account.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, Account: toAccountResponse(a)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	a, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Account: toAccountResponse(a)})
}

// --- Admin: staff and member management ---

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, account.RoleStaff)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, account.RoleMember)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request, role account.Role) {
	accounts, err := h.accounts.ListByRole(r.Context(), role)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]accountResponse, len(accounts))
	for i := range accounts {
		out[i] = toAccountResponse(&accounts[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Position string `json:"position"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.accounts.CreateStaff(r.Context(), req.FullName, req.Email, req.Password, req.Position)
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "email already exists")
			return
		}
		if errors.Is(err, account.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(a))
}

func (h *Handler) deleteStaff(w http.ResponseWriter, r *http.Request) {
	h.deleteAccount(w, r, chi.URLParam(r, "staffID"))
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	h.deleteAccount(w, r, chi.URLParam(r, "memberID"))
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.accounts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account removed"})
}
