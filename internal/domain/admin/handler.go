package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/studiobook/studiobook-api/internal/pkg/response"
	"github.com/studiobook/studiobook-api/internal/pkg/validator"
)

// Handler handles admin auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates the admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Login(req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid credentials")
			return
		}
		log.Error().Err(err).Msg("Admin login failed")
		response.InternalError(w)
		return
	}
	response.OK(w, result)
}
