package api

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/keywarden/keywarden/api/helpers"
	"github.com/keywarden/keywarden/services/auth"
)

type AuthController struct {
	AuthService *auth.AuthService
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if !helpers.Bind(w, r, &body) {
		return
	}

	if body.Username == "" || body.Password == "" {
		helpers.WriteErrorStatus(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := c.AuthService.Register(body.Username, body.Password)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if !helpers.Bind(w, r, &body) {
		return
	}

	token, err := c.AuthService.Login(body.Username, body.Password)
	if err != nil {
		helpers.WriteErrorStatus(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"message":      "Login successful",
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	claims := helpers.GetFromContext(r, "claims").(*jwt.RegisteredClaims)

	revoked, err := c.AuthService.Logout(claims)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]string{
		"message":  "Token revoked successfully",
		"token_id": revoked.JTI,
	})
}

func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	if body.NewPassword == "" {
		helpers.WriteErrorStatus(w, "new_password is required", http.StatusBadRequest)
		return
	}

	err := c.AuthService.ChangePassword(user.ID, body.OldPassword, body.NewPassword)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			helpers.WriteErrorStatus(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token
// and loads the token claims and the user into the request context.
func (c *AuthController) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		if !strings.HasPrefix(header, "Bearer ") {
			helpers.WriteErrorStatus(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := c.AuthService.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			helpers.WriteErrorStatus(w, "Invalid or revoked token", http.StatusUnauthorized)
			return
		}

		user, err := c.AuthService.UserFromClaims(claims)
		if err != nil {
			helpers.WriteErrorStatus(w, "Invalid or revoked token", http.StatusUnauthorized)
			return
		}

		r = helpers.SetContextValue(r, "claims", claims)
		r = helpers.SetContextValue(r, "user", &user)
		next.ServeHTTP(w, r)
	})
}
