package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SOHAIL1510/Peer-Learning-app/internal/middleware"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/repository"
	"github.com/SOHAIL1510/Peer-Learning-app/internal/services"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, &services.NotFoundError{Message: "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Name      string  `json:"name"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest,
			errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{"name": "Name is required"}, r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, &services.NotFoundError{Message: "User not found"})
		return
	}

	user.Name = req.Name
	user.Bio = req.Bio
	user.AvatarURL = req.AvatarURL

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
