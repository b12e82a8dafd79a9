package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bagasta/addressbook/internal/service"
	"github.com/bagasta/addressbook/internal/utils"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: authService}
}

// GeneratePIN handles POST /api/auth/pin. It creates a fresh account and
// returns its PIN once; there is no way to recover it later.
func (h *AuthHandler) GeneratePIN(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthService.GeneratePIN()
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.SuccessResponse(w, http.StatusCreated, map[string]string{
		"user_id": user.ID,
		"pin":     user.PIN,
	}, "PIN generated successfully. Please save this PIN for login.")
}

// Login handles POST /api/auth/login. The PIN is accepted either as the
// Basic auth username (curl -u "A1B2C3:") or as a JSON body {"pin": ...}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	pin, _, ok := r.BasicAuth()
	if !ok {
		var req struct {
			PIN string `json:"pin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ErrorResponse(w, http.StatusBadRequest, "Missing credentials")
			return
		}
		pin = req.PIN
	}

	pin = strings.TrimSpace(pin)
	if pin == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Missing PIN")
		return
	}

	token, user, err := h.AuthService.Login(pin)
	if err != nil {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	utils.SuccessResponse(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	}, "Login successful")
}
