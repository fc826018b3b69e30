package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"wwjtop/core/auth"
	"wwjtop/logger"
	"wwjtop/model"
	"wwjtop/repository"
)

// invalidCredentialsMsg is returned for every login failure, whether the
// account is unknown or the password is wrong, to prevent user enumeration.
const invalidCredentialsMsg = "invalid username or password"

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthResponse is the login/register response body.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// setSessionCookie binds the issued token to the transport cookie. HTTP-only
// and SameSite=Lax; the cookie lifetime is aligned with the token expiry.
func (h *APIHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.AppEnv == "production",
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *APIHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.AppEnv == "production",
	})
}

// LoginHandler handles user login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	// Username or email login.
	var user *model.User
	var err error
	if strings.Contains(req.Username, "@") {
		user, err = h.userRepo.GetUserByEmail(r.Context(), req.Username)
	} else {
		user, err = h.userRepo.GetUserByUsername(r.Context(), req.Username)
	}
	if err != nil {
		logger.Error("[Login] failed to query user", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil {
		logger.Warn("[Login] unknown account", logger.String("username", req.Username))
		writeError(w, http.StatusUnauthorized, invalidCredentialsMsg)
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("[Login] password mismatch", logger.String("username", user.Username))
		writeError(w, http.StatusUnauthorized, invalidCredentialsMsg)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		logger.Error("[Login] failed to issue token", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setSessionCookie(w, token, expiresAt)
	logger.Info("[Login] success", logger.String("username", user.Username), logger.String("role", user.Role))
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// RegisterHandler handles user registration requests. New accounts always get
// the user role; promotion is a separate admin-guarded operation.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("[Register] failed to hash password", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to process password")
		return
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}

	userID, err := h.userRepo.CreateUser(r.Context(), user)
	if err != nil {
		if err == repository.ErrDuplicateUser {
			logger.Warn("[Register] duplicate username or email",
				logger.String("username", req.Username),
				logger.String("email", req.Email))
			writeError(w, http.StatusConflict, "username or email already exists")
			return
		}
		logger.Error("[Register] failed to create user", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	user.ID = userID

	token, expiresAt, err := h.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		logger.Error("[Register] failed to issue token", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setSessionCookie(w, token, expiresAt)
	logger.Info("[Register] success", logger.String("username", user.Username))
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// LogoutHandler clears the session cookie. The token itself stays valid until
// expiry (stateless tokens have no revocation list); logout only destroys the
// holder's copy. Clearing an absent cookie is not an error.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// MeHandler returns the authenticated user's profile.
func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := IdentityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		logger.Error("[Me] failed to query user", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		// Token subject deleted after issuance.
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
