package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/interfaces"
)

// AuthHandler handles HTTP requests for the backend access token.
type AuthHandler struct {
	service interfaces.AuthService
}

func NewAuthHandler(svc interfaces.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleTokenStatus godoc
// @Summary      Token status
// @Description  Reports whether an access token is configured and where it comes from. The token itself is never returned.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  service.TokenStatus
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/auth/token [get]
func (h *AuthHandler) HandleTokenStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

// HandleSetToken godoc
// @Summary      Store the access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        token  body  SetTokenRequest  true  "Bearer token"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/auth/token [post]
func (h *AuthHandler) HandleSetToken(w http.ResponseWriter, r *http.Request) {
	var req SetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.service.SetToken(r.Context(), req.Token); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleClearToken godoc
// @Summary      Remove the stored access token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/auth/token [delete]
func (h *AuthHandler) HandleClearToken(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearToken(r.Context()); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
