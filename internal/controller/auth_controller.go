package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/service"
)

type AuthController struct {
	AuthService *service.AuthService
}

func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email            string `json:"email"`
		Password         string `json:"password"`
		FullName         string `json:"full_name"`
		OrganizationName string `json:"organization_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" || body.OrganizationName == "" {
		http.Error(w, "email, password and organization_name are required", http.StatusBadRequest)
		return
	}

	user, err := c.AuthService.Signup(body.Email, body.Password, body.FullName, body.OrganizationName)
	if err != nil {
		if errors.Is(err, appErrors.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	token, err := c.AuthService.Login(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var body struct {
		FullName *string `json:"full_name"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := c.AuthService.UpdateProfile(user, body.FullName, body.Password); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
