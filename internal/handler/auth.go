package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ceralandia/api/internal/auth"
	"github.com/ceralandia/api/internal/middleware"
	"github.com/ceralandia/api/internal/session"
	"github.com/go-chi/chi/v5"
)

// LocalDirectory checks operator credentials.
// Satisfied by *auth.LocalDirectory; narrow interface for testability.
type LocalDirectory interface {
	Verify(username, password string) (string, error)
	Has(username string) bool
}

// AuthHandler handles login, token refresh and logout.
type AuthHandler struct {
	local     LocalDirectory
	admin     session.AdminAuthenticator
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(local LocalDirectory, admin session.AdminAuthenticator, jwtSecret string) *AuthHandler {
	return &AuthHandler{local: local, admin: admin, jwtSecret: jwtSecret}
}

// RegisterRoutes registers the public auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/admin-login", h.AdminLogin)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/logout", h.Logout)
}

// RegisterSessionRoutes registers endpoints that need a resolved session.
func (h *AuthHandler) RegisterSessionRoutes(r chi.Router) {
	r.Get("/auth/session", h.Session)
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type sessionResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Source   string `json:"source"`
	IsAdmin  bool   `json:"is_admin"`
}

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Session      sessionResponse `json:"session"`
}

func toSessionResponse(s session.Session) sessionResponse {
	return sessionResponse{Username: s.Username, Role: s.Role, Source: s.Source, IsAdmin: s.IsAdmin()}
}

// --- Handlers ---

// Login opens an operator session with the shared password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	s, err := session.LoginLocal(h.local, req.Username, req.Password)
	if err != nil {
		writeCredentialsError(w, err)
		return
	}
	h.respondWithTokens(w, s)
}

// AdminLogin opens the privileged session. Any operator cookie is cleared.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	s, err := session.LoginAdmin(h.admin, req.Email, req.Password)
	if err != nil {
		writeCredentialsError(w, err)
		return
	}
	h.respondWithTokens(w, s)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "refresh_token is required"})
		return
	}

	claims, err := auth.ValidateRefreshToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}

	s := session.Session{Username: claims.Username, Role: claims.Role, Source: claims.Source}
	// An operator removed from the allow-list loses the session on refresh.
	if s.Source == session.SourceLocal && !h.local.Has(s.Username) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}
	h.respondWithTokens(w, s)
}

// Logout clears the operator cookie. Tokens are stateless and simply
// expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearLocalCookie(w)
	s := session.Session{}.Logout()
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// Session returns the session resolved by the auth middleware.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// --- Helpers ---

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, s session.Session) {
	accessToken, err := auth.GenerateToken(h.jwtSecret, s.Username, s.Role, s.Source)
	if err != nil {
		log.Printf("ERROR: generate access token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	refreshToken, err := auth.GenerateRefreshToken(h.jwtSecret, s.Username, s.Role, s.Source)
	if err != nil {
		log.Printf("ERROR: generate refresh token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if s.Source == session.SourceLocal {
		setLocalCookie(w, accessToken)
	} else {
		clearLocalCookie(w)
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Session:      toSessionResponse(s),
	})
}

func writeCredentialsError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}
	log.Printf("ERROR: login: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func setLocalCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.LocalSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearLocalCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.LocalSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
