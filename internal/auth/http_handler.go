// Package auth implements the credential check against the fixed logins
// table. Lookups are exact-match; there is no session or token layer.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"sheetdrop/internal/repository"
	"sheetdrop/internal/web"
)

// Handler exposes login and logout endpoints.
type Handler struct {
	logins repository.LoginRepository
}

// NewHandler wraps the login repository.
func NewHandler(logins repository.LoginRepository) *Handler {
	return &Handler{logins: logins}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /login with a JSON or form body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.Failure(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			web.Failure(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	ok, err := h.logins.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		web.Failure(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	if !ok {
		web.Failure(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	web.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"redirect": "/home.html",
	})
}

// Logout handles GET /logout by sending the browser back to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/index.html", http.StatusFound)
}
