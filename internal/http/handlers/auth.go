package handlers

import (
	"net/http"

	"kovil/internal/infra/credentials"
	"kovil/internal/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changeCredentialsRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewUsername     string `json:"newUsername"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type authStatusResponse struct {
	IsAuthenticated bool    `json:"isAuthenticated"`
	Username        *string `json:"username"`
	Role            *string `json:"role"`
}

func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	ip := middleware.ClientIP(r)
	country := middleware.CountryFromContext(r.Context())

	admin, err := a.Credentials.Validate(r.Context(), req.Username, req.Password)
	if err != nil {
		a.Logger.Warn().Str("username", req.Username).Str("ip", ip).Str("country", country).Msg("admin login rejected")
		a.fail(w, r, err, "")
		return
	}
	if _, err := a.Sessions.Issue(w, admin); err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.Logger.Info().Str("username", admin.Username).Str("role", string(admin.Role)).Str("ip", ip).Str("country", country).Msg("admin login")
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Login successful",
		"username": admin.Username,
		"role":     admin.Role,
	})
}

func (a *App) AuthLogout(w http.ResponseWriter, r *http.Request) {
	a.Sessions.Clear(w)
	a.json(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

func (a *App) AuthStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "private, max-age=5")
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.json(w, http.StatusOK, authStatusResponse{})
		return
	}
	role := string(session.Role)
	a.json(w, http.StatusOK, authStatusResponse{IsAuthenticated: true, Username: &session.Username, Role: &role})
}

func (a *App) AuthChangeCredentials(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}
	var req changeCredentialsRequest
	if !a.decode(w, r, &req) {
		return
	}
	admin, err := a.Credentials.Update(r.Context(), credentials.ChangeRequest{
		CurrentUsername: session.Username,
		CurrentPassword: req.CurrentPassword,
		NewUsername:     req.NewUsername,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if isInvalidCredentials(err) {
			a.error(w, http.StatusUnauthorized, "invalid_credentials", "Current password is incorrect")
			return
		}
		a.fail(w, r, err, "")
		return
	}
	if _, err := a.Sessions.Issue(w, admin); err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Credentials updated successfully! Please use your new credentials for future logins.",
	})
}

func (a *App) SecurityRecommendations(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, recommendationsFor(locale))
}
