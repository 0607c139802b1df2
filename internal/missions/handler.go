package missions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/codequest/backend/internal/models"
)

type Handler struct {
	engine  *Engine
	rewards *RewardEngine
}

func NewHandler(engine *Engine, rewards *RewardEngine) *Handler {
	return &Handler{engine: engine, rewards: rewards}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) ListMissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	missions, err := h.engine.ActiveMissions(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load missions"})
		return
	}

	if missions == nil {
		missions = []models.Mission{}
	}
	writeJSON(w, http.StatusOK, missions)
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var ev models.ProgressEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if ev.Kind == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Event kind is required"})
		return
	}

	if err := h.engine.UpdateProgress(r.Context(), userID, ev); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update progress"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	vars := mux.Vars(r)
	missionID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid mission ID"})
		return
	}

	resp, err := h.rewards.Claim(r.Context(), userID, missionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissionNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Mission not found"})
		case errors.Is(err, ErrUnauthorized):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Mission belongs to a different user"})
		case errors.Is(err, ErrAlreadyClaimed):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Mission already claimed"})
		case errors.Is(err, ErrNotCompleted):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Mission not completed"})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to claim mission"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GenerateDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.engine.GenerateDaily(r.Context(), userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate daily missions"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GenerateWeekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.engine.GenerateWeekly(r.Context(), userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate weekly missions"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Expire is the cron entry point for the expiry sweep.
func (h *Handler) Expire(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.ExpireMissions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to expire missions"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"expired": n})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
