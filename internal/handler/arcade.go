package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradepulse/arcade/internal/arcade"
	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/logger"
)

// ClaimBody is the wire form of a resolution request.
type ClaimBody struct {
	UserID           string `json:"user_id" validate:"required,max=64"`
	ActionID         string `json:"action_id" validate:"required,max=192"`
	ClientSeed       string `json:"client_seed" validate:"required,min=1,max=256"`
	ClientCommitHash string `json:"client_commit_hash" validate:"omitempty,hex64"`

	// Module-specific context
	MissionID string `json:"mission_id,omitempty" validate:"omitempty,max=128"`
	WeekStart string `json:"week_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CommitBody requests publication of a server commitment for an action.
type CommitBody struct {
	UserID           string `json:"user_id" validate:"required,max=64"`
	Module           string `json:"module" validate:"required,max=32"`
	ActionID         string `json:"action_id" validate:"required,max=192"`
	ClientSeed       string `json:"client_seed" validate:"required,min=1,max=256"`
	ClientCommitHash string `json:"client_commit_hash" validate:"omitempty,hex64"`
}

// CommitResponse exposes only the publishable half of a commitment. The
// server seed is never returned before resolution.
type CommitResponse struct {
	ServerCommitHash string `json:"server_commit_hash"`
}

// VaultBody locks a user's time vault.
type VaultBody struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// MissionStartBody opens a flash mission window.
type MissionStartBody struct {
	UserID    string `json:"user_id" validate:"required,max=64"`
	MissionID string `json:"mission_id" validate:"required,max=128"`
}

// ArcadeHandler exposes the resolution engine over HTTP
type ArcadeHandler struct {
	service arcade.Service
}

// NewArcadeHandler creates a new arcade handler
func NewArcadeHandler(service arcade.Service) *ArcadeHandler {
	return &ArcadeHandler{service: service}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}
	if err := GetValidator().ValidateStruct(dest); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
		return false
	}
	return true
}

// HandleCommit publishes a server commitment before the client acts.
func (h *ArcadeHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	var body CommitBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	commitment, err := h.service.Commit(r.Context(), body.UserID, domain.Module(body.Module), body.ActionID, body.ClientSeed, body.ClientCommitHash)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to publish commitment", "error", err, "module", body.Module)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CommitResponse{ServerCommitHash: commitment.ServerCommitHash})
}

// HandleResolve resolves one claim for the module in the URL.
func (h *ArcadeHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	module := domain.Module(chi.URLParam(r, "module"))
	if !module.Valid() {
		respondError(w, http.StatusNotFound, ErrMsgUnknownModule)
		return
	}

	var body ClaimBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	req := arcade.ClaimRequest{
		UserID:           body.UserID,
		ActionID:         body.ActionID,
		ClientSeed:       body.ClientSeed,
		ClientCommitHash: body.ClientCommitHash,
	}

	var (
		resolution *domain.Resolution
		err        error
	)
	ctx := r.Context()
	switch module {
	case domain.ModuleDailyDrop:
		resolution, err = h.service.ResolveDailyDrop(ctx, req)
	case domain.ModuleRarityWheel:
		resolution, err = h.service.ResolveRarityWheel(ctx, req)
	case domain.ModuleBoostDraft:
		resolution, err = h.service.ResolveBoostDraft(ctx, req)
	case domain.ModuleTimeVault:
		resolution, err = h.service.ResolveTimeVault(ctx, req)
	case domain.ModuleCalendarDaily:
		resolution, err = h.service.ResolveCalendarDaily(ctx, req)
	case domain.ModuleStreakProtector:
		resolution, err = h.service.ResolveStreakProtector(ctx, req)
	case domain.ModuleFlashMission:
		resolution, err = h.service.ResolveFlashMission(ctx, req, body.MissionID)
	case domain.ModuleSharedPool:
		resolution, err = h.service.ResolveSharedPool(ctx, req, body.WeekStart)
	case domain.ModuleAITier:
		resolution, err = h.service.ResolveAITier(ctx, req)
	case domain.ModuleInsightPack:
		resolution, err = h.service.ResolveInsightPack(ctx, req)
	default:
		respondError(w, http.StatusNotFound, ErrMsgUnknownModule)
		return
	}
	if err != nil {
		if !domain.IsPrecondition(err) {
			logger.FromContext(ctx).Error("Failed to resolve claim", "error", err, "module", module)
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resolution)
}

// HandleGetResolution returns the persisted result for an action.
func (h *ArcadeHandler) HandleGetResolution(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	module := domain.Module(r.URL.Query().Get("module"))
	actionID := r.URL.Query().Get("action_id")
	if userID == "" || actionID == "" || !module.Valid() {
		respondError(w, http.StatusBadRequest, ErrMsgMissingRequiredFields)
		return
	}

	resolution, err := h.service.GetResolution(r.Context(), userID, module, actionID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get resolution", "error", err)
		respondServiceError(w, err)
		return
	}
	if resolution == nil {
		respondError(w, http.StatusNotFound, ErrMsgResourceNotFoundError)
		return
	}

	respondJSON(w, http.StatusOK, resolution)
}

// VerifyResponse reports a third-party-reproducible fairness check.
type VerifyResponse struct {
	Verified bool `json:"verified"`
}

// HandleVerify recomputes the commitment and derivation for a persisted
// resolution.
func (h *ArcadeHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	module := domain.Module(r.URL.Query().Get("module"))
	actionID := r.URL.Query().Get("action_id")
	if userID == "" || actionID == "" || !module.Valid() {
		respondError(w, http.StatusBadRequest, ErrMsgMissingRequiredFields)
		return
	}

	resolution, err := h.service.GetResolution(r.Context(), userID, module, actionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if resolution == nil {
		respondError(w, http.StatusNotFound, ErrMsgResourceNotFoundError)
		return
	}

	respondJSON(w, http.StatusOK, VerifyResponse{Verified: h.service.Verify(resolution)})
}

// HandleLockVault seals the user's time vault.
func (h *ArcadeHandler) HandleLockVault(w http.ResponseWriter, r *http.Request) {
	var body VaultBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	if err := h.service.LockVault(r.Context(), body.UserID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to lock vault", "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "vault locked"})
}

// HandleStartMission opens a flash mission window for a user.
func (h *ArcadeHandler) HandleStartMission(w http.ResponseWriter, r *http.Request) {
	var body MissionStartBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	if err := h.service.StartFlashMission(r.Context(), body.UserID, body.MissionID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to start mission", "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "mission started"})
}
