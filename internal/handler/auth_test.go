package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookheaven/bookheaven/internal/domain/account"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	body := `{"fullName":"Jo Reader","email":"jo@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg authResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "member", reg.Account.Role)
	assert.Equal(t, "jo@example.com", reg.Account.Email)

	// The token from registration grants member access right away.
	cartReq := authed(httptest.NewRequest(http.MethodGet, "/cart", nil), reg.Token)
	cartW := httptest.NewRecorder()
	env.router.ServeHTTP(cartW, cartReq)
	assert.Equal(t, http.StatusOK, cartW.Code)

	// Login with a differently-cased email resolves the same account.
	loginBody := `{"email":"JO@example.com","password":"secret123"}`
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(loginBody))
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var login authResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))
	assert.Equal(t, reg.Account.ID, login.Account.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, account.RoleMember)

	body := `{"email":"member@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	body := `{"fullName":"Jo Reader","email":"jo@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	body := `{"fullName":"","email":"jo@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleGuards(t *testing.T) {
	env := newTestEnv(t)
	_, memberToken := env.addAccount(t, account.RoleMember)
	_, staffToken := env.addAccount(t, account.RoleStaff)
	_, adminToken := env.addAccount(t, account.RoleAdmin)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"member blocked from admin route", http.MethodGet, "/admin/members", memberToken, http.StatusForbidden},
		{"staff blocked from admin route", http.MethodGet, "/admin/members", staffToken, http.StatusForbidden},
		{"admin allowed on admin route", http.MethodGet, "/admin/members", adminToken, http.StatusOK},
		{"admin blocked from staff route", http.MethodGet, "/staff/fulfilled-orders", adminToken, http.StatusForbidden},
		{"staff allowed on staff route", http.MethodGet, "/staff/fulfilled-orders", staffToken, http.StatusOK},
		{"staff blocked from member route", http.MethodGet, "/cart", staffToken, http.StatusForbidden},
		{"no token rejected", http.MethodGet, "/cart", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req = authed(req, tc.token)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAuthenticate_BadToken(t *testing.T) {
	env := newTestEnv(t)

	req := authed(httptest.NewRequest(http.MethodGet, "/cart", nil), "not-a-token")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.NotEmpty(t, resp.Message)
}

func TestPublicCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)
	seedBook(env, "b1", "Dune", "20.00")

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var books []bookResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&books))
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	req = httptest.NewRequest(http.MethodGet, "/books/missing", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
