package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tradepulse/arcade/internal/domain"
	"github.com/tradepulse/arcade/internal/ledger"
	"github.com/tradepulse/arcade/internal/logger"
)

// LedgerHandlers exposes consumption ledger reads for review tooling
type LedgerHandlers struct {
	service ledger.Service
}

// NewLedgerHandlers creates ledger handlers
func NewLedgerHandlers(service ledger.Service) *LedgerHandlers {
	return &LedgerHandlers{service: service}
}

func parseLimit(r *http.Request) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0, false
	}
	return limit, true
}

// HandleGetUserHistory returns a user's consumption records, newest first.
func (h *LedgerHandlers) HandleGetUserHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingRequiredFields)
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return
	}

	records, err := h.service.GetUserHistory(r.Context(), userID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get user history", "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: records})
}

// HandleGetModuleActivity returns a module's records in a time window.
func (h *LedgerHandlers) HandleGetModuleActivity(w http.ResponseWriter, r *http.Request) {
	module := domain.Module(r.URL.Query().Get("module"))
	if !module.Valid() {
		respondError(w, http.StatusBadRequest, ErrMsgUnknownModule)
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return
	}

	until := time.Now().UTC()
	since := until.AddDate(0, 0, -7)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid since parameter")
			return
		}
		since = parsed
	}
	if untilStr := r.URL.Query().Get("until"); untilStr != "" {
		parsed, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid until parameter")
			return
		}
		until = parsed
	}

	records, err := h.service.GetModuleActivity(r.Context(), module, since, until, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get module activity", "error", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: records})
}
