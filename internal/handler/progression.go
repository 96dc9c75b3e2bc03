package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/progression"
)

// ProgressionHandlers exposes the progression store over HTTP
type ProgressionHandlers struct {
	service progression.Service
}

// NewProgressionHandlers creates progression handlers
func NewProgressionHandlers(service progression.Service) *ProgressionHandlers {
	return &ProgressionHandlers{service: service}
}

// ProgressionResponse adds the next tier threshold for progress bars.
type ProgressionResponse struct {
	UserID     string `json:"user_id"`
	XP         uint64 `json:"xp"`
	Tier       int    `json:"tier"`
	Prestige   int    `json:"prestige"`
	NextTierXP uint64 `json:"next_tier_xp"`
}

// HandleGetState returns a user's progression with the next tier threshold.
func (h *ProgressionHandlers) HandleGetState(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingRequiredFields)
		return
	}

	state, err := h.service.Get(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get progression", "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProgressionResponse{
		UserID:     state.UserID,
		XP:         state.XP,
		Tier:       state.Tier,
		Prestige:   state.Prestige,
		NextTierXP: h.service.NextTierXP(state.Tier),
	})
}

// PrestigeBody requests a prestige reset.
type PrestigeBody struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// HandlePrestige performs a prestige reset when the user is at max tier.
func (h *ProgressionHandlers) HandlePrestige(w http.ResponseWriter, r *http.Request) {
	var body PrestigeBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	result, err := h.service.PrestigeReset(r.Context(), body.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleNextTierXP exposes the tier curve for client display.
func (h *ProgressionHandlers) HandleNextTierXP(w http.ResponseWriter, r *http.Request) {
	tierStr := r.URL.Query().Get("tier")
	tier, err := strconv.Atoi(tierStr)
	if err != nil || tier < 0 {
		respondError(w, http.StatusBadRequest, "Invalid tier parameter")
		return
	}

	respondJSON(w, http.StatusOK, map[string]uint64{"next_tier_xp": h.service.NextTierXP(tier)})
}

// StatePatchBody shallow-merges fields into a (user, key) state blob.
type StatePatchBody struct {
	UserID string         `json:"user_id" validate:"required,max=64"`
	Key    string         `json:"key" validate:"required,max=192"`
	Value  map[string]any `json:"value" validate:"required"`
}

// HandleGetArcadeState returns the raw state blob for a (user, key) pair.
func (h *ProgressionHandlers) HandleGetArcadeState(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	key := r.URL.Query().Get("key")
	if userID == "" || key == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingRequiredFields)
		return
	}

	var value map[string]any
	found, err := h.service.GetArcadeState(r.Context(), userID, key, &value)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !found {
		value = map[string]any{}
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: value})
}

// HandlePatchArcadeState shallow-merges the posted object into stored state.
func (h *ProgressionHandlers) HandlePatchArcadeState(w http.ResponseWriter, r *http.Request) {
	var body StatePatchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}
	if err := GetValidator().ValidateStruct(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
		return
	}

	if err := h.service.PatchArcadeState(r.Context(), body.UserID, body.Key, body.Value); err != nil {
		logger.FromContext(r.Context()).Error("Failed to patch arcade state", "error", err, "key", body.Key)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "state updated"})
}
